package lipgloss_test

import (
	"testing"

	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/lipgloss"
	"github.com/fwojciec/diffpaint/stylespec"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemes(t *testing.T) {
	t.Parallel()

	for _, name := range lipgloss.ThemeNames() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			theme, err := lipgloss.ThemeByName(name)
			require.NoError(t, err)
			assert.Equal(t, name, theme.Name())

			for role, spec := range theme.Layer() {
				_, err := stylespec.Parse(spec)
				assert.NoError(t, err, "role %s", role)
			}
			assert.NotEmpty(t, theme.Palette().Keyword)
		})
	}
}

func TestDarkTheme_ResolvesDiffBackgrounds(t *testing.T) {
	t.Parallel()

	theme := lipgloss.DarkTheme()
	styles := stylespec.Resolve(logrus.New(), stylespec.Layer{Name: theme.Name(), Specs: theme.Layer()})

	assert.Equal(t, diffpaint.RGB(0x3f, 0x00, 0x01), styles.Minus.Background)
	assert.Equal(t, diffpaint.RGB(0x1e, 0x1e, 0x2e), styles.MinusEmph.Foreground, "first bare color is the foreground")
	assert.Equal(t, diffpaint.RGB(0xf3, 0x8b, 0xa8), styles.MinusEmph.Background, "second bare color is the background")
	assert.Equal(t, styles.Plus.Background, styles.PlusNonEmph.Background)
	assert.True(t, styles.FileHeader.Has(diffpaint.Bold))
}

func TestTheme_LayerIsACopy(t *testing.T) {
	t.Parallel()

	theme := lipgloss.DarkTheme()
	layer := theme.Layer()
	layer[diffpaint.RoleMinus] = "bg:red"

	assert.Equal(t, "bg:#3f0001", theme.Layer()[diffpaint.RoleMinus])
}

func TestThemeByName(t *testing.T) {
	t.Parallel()

	theme, err := lipgloss.ThemeByName("")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme.Name())

	_, err = lipgloss.ThemeByName("solarized")
	assert.Error(t, err)
}
