package bubbletea_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/bubbletea"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect() (*[]bubbletea.LinesMsg, func(tea.Msg)) {
	var msgs []bubbletea.LinesMsg
	return &msgs, func(msg tea.Msg) {
		msgs = append(msgs, msg.(bubbletea.LinesMsg))
	}
}

func TestLineWriter_SendsCompleteLines(t *testing.T) {
	t.Parallel()

	msgs, send := collect()
	w := bubbletea.NewLineWriter(send)

	_, err := w.Write([]byte("a\nb"))
	require.NoError(t, err)
	_, err = w.Write([]byte("c\nd\ne\n"))
	require.NoError(t, err)

	assert.Equal(t, []bubbletea.LinesMsg{{"a"}, {"bc", "d", "e"}}, *msgs)
}

func TestLineWriter_FlushSendsPartialLine(t *testing.T) {
	t.Parallel()

	msgs, send := collect()
	w := bubbletea.NewLineWriter(send)

	require.NoError(t, w.Flush())
	assert.Empty(t, *msgs, "nothing to flush")

	_, err := w.Write([]byte("tail"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	assert.Equal(t, []bubbletea.LinesMsg{{"tail"}}, *msgs)
}

func TestLineWriter_EmptyLines(t *testing.T) {
	t.Parallel()

	msgs, send := collect()
	w := bubbletea.NewLineWriter(send)

	_, err := w.Write([]byte("\n\nx\n"))
	require.NoError(t, err)

	assert.Equal(t, []bubbletea.LinesMsg{{"", "", "x"}}, *msgs)
}

func TestLineWriter_WritesFailAfterClose(t *testing.T) {
	t.Parallel()

	_, send := collect()
	w := bubbletea.NewLineWriter(send)
	require.NoError(t, w.Close())

	_, err := w.Write([]byte("late\n"))

	assert.ErrorIs(t, err, diffpaint.ErrOutputClosed)
	assert.ErrorIs(t, w.Flush(), diffpaint.ErrOutputClosed)
}

func TestPager_ShortOutputIsWrittenDirectly(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := bubbletea.NewPager(&out, 10)

	err := p.Page(context.Background(), func(w io.Writer) error {
		_, err := io.WriteString(w, "one\ntwo\nthree\n")
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\nthree\n", out.String())
}

func TestPager_RenderErrorIsReturned(t *testing.T) {
	t.Parallel()

	renderErr := errors.New("bad input")
	var out bytes.Buffer
	p := bubbletea.NewPager(&out, 10)

	err := p.Page(context.Background(), func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial\n")
		return renderErr
	})

	assert.ErrorIs(t, err, renderErr)
	assert.Equal(t, "partial\n", out.String(), "what was rendered is still shown")
}

// renderUntilClosed writes numbered lines until the pager goes away.
func renderUntilClosed(w io.Writer) error {
	for i := 0; i < 1_000_000; i++ {
		if _, err := fmt.Fprintf(w, "line %d\n", i); err != nil {
			if errors.Is(err, diffpaint.ErrOutputClosed) {
				return nil
			}
			return err
		}
	}
	return errors.New("pager never closed its writer")
}

func TestPager_QuitClosesTheWriter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := &bubbletea.Pager{
		Output: &out,
		Height: 5,
		Options: []tea.ProgramOption{
			tea.WithInput(strings.NewReader("q")),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
		},
	}

	err := p.Page(context.Background(), renderUntilClosed)

	require.NoError(t, err)
	assert.Empty(t, out.String(), "long output goes to the pager only")
}

func TestPager_AlwaysPagesWithoutHeight(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := &bubbletea.Pager{
		Output: &out,
		Options: []tea.ProgramOption{
			tea.WithInput(strings.NewReader("q")),
			tea.WithOutput(io.Discard),
			tea.WithoutSignalHandler(),
		},
	}

	err := p.Page(context.Background(), renderUntilClosed)

	require.NoError(t, err)
	assert.Empty(t, out.String())
}
