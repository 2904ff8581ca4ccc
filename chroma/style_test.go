package chroma_test

import (
	"testing"

	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/chroma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleFromPalette(t *testing.T) {
	t.Parallel()

	palette := diffpaint.Palette{
		Keyword:     "#ff00ff",
		String:      "#00ff00",
		Number:      "#ff8800",
		Comment:     "#888888",
		Operator:    "#00ffff",
		Function:    "#0000ff",
		Type:        "#ffff00",
		Constant:    "#ff8800",
		Punctuation: "#aaaaaa",
	}

	styleFunc := chroma.StyleFromPalette(palette)

	t.Run("keywords are bold with palette color", func(t *testing.T) {
		t.Parallel()
		style := styleFunc(chromalib.Keyword)
		assert.Equal(t, diffpaint.RGB(0xff, 0x00, 0xff), style.Foreground)
		assert.True(t, style.Has(diffpaint.Bold))
	})

	t.Run("strings use palette color", func(t *testing.T) {
		t.Parallel()
		style := styleFunc(chromalib.StringDouble)
		assert.Equal(t, diffpaint.RGB(0x00, 0xff, 0x00), style.Foreground)
		assert.False(t, style.Background.IsSet(), "syntax never sets a background")
	})

	t.Run("comments use palette color", func(t *testing.T) {
		t.Parallel()
		style := styleFunc(chromalib.CommentSingle)
		assert.Equal(t, diffpaint.RGB(0x88, 0x88, 0x88), style.Foreground)
	})

	t.Run("type keywords use palette color and are bold", func(t *testing.T) {
		t.Parallel()
		style := styleFunc(chromalib.KeywordType)
		assert.Equal(t, diffpaint.RGB(0xff, 0xff, 0x00), style.Foreground)
		assert.True(t, style.Has(diffpaint.Bold))
	})

	t.Run("punctuation uses palette color", func(t *testing.T) {
		t.Parallel()
		style := styleFunc(chromalib.Punctuation)
		assert.Equal(t, diffpaint.RGB(0xaa, 0xaa, 0xaa), style.Foreground)
	})

	t.Run("unknown token types return empty style", func(t *testing.T) {
		t.Parallel()
		assert.True(t, styleFunc(chromalib.Error).IsZero())
	})

	t.Run("empty palette entries leave the foreground unset", func(t *testing.T) {
		t.Parallel()
		style := chroma.StyleFromPalette(diffpaint.Palette{})(chromalib.Number)
		assert.True(t, style.IsZero())
	})
}

func TestStyleFromChroma(t *testing.T) {
	t.Parallel()

	styleFunc, err := chroma.StyleFromChroma("monokai")
	require.NoError(t, err)

	keyword := styleFunc(chromalib.Keyword)
	assert.Equal(t, diffpaint.ColorRGB, keyword.Foreground.Kind)
	assert.False(t, keyword.Background.IsSet())
	assert.False(t, styleFunc(chromalib.Text).Foreground.IsSet(), "plain text keeps the terminal foreground")

	_, err = chroma.StyleFromChroma("no-such-theme")
	assert.Error(t, err)
	assert.Contains(t, chroma.SyntaxThemes(), "monokai")
}
