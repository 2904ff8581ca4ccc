package bubbletea

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/diffpaint"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ diffpaint.Pager = (*Pager)(nil)

// LineWriter is an io.Writer that forwards complete lines as LinesMsg.
// After Close, writes fail with diffpaint.ErrOutputClosed.
type LineWriter struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	partial []byte
	closed  bool
}

// NewLineWriter creates a LineWriter delivering messages through send,
// typically (*tea.Program).Send.
func NewLineWriter(send func(tea.Msg)) *LineWriter {
	return &LineWriter{send: send}
}

// Write implements io.Writer. A trailing partial line is held back until it
// is completed or flushed.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, diffpaint.ErrOutputClosed
	}

	i := bytes.LastIndexByte(p, '\n')
	if i < 0 {
		w.partial = append(w.partial, p...)
		return len(p), nil
	}
	text := string(w.partial) + string(p[:i])
	w.partial = append(w.partial[:0], p[i+1:]...)
	w.send(LinesMsg(strings.Split(text, "\n")))
	return len(p), nil
}

// Flush sends a held back partial line.
func (w *LineWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return diffpaint.ErrOutputClosed
	}
	if len(w.partial) > 0 {
		w.send(LinesMsg{string(w.partial)})
		w.partial = w.partial[:0]
	}
	return nil
}

// Close makes every later write fail.
func (w *LineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Pager implements diffpaint.Pager with a Bubble Tea viewport.
type Pager struct {
	// Output receives the rendered text directly when it fits in Height lines.
	Output io.Writer
	// Height is the number of lines written to Output without paging.
	// Zero always pages.
	Height int
	// Renderer styles the status bar. Nil uses the default renderer.
	Renderer *lipgloss.Renderer
	// Options are appended to the program options, after the defaults.
	Options []tea.ProgramOption
}

// NewPager creates a Pager that pages output longer than height lines.
func NewPager(output io.Writer, height int) *Pager {
	return &Pager{Output: output, Height: height}
}

// Page runs render, showing what it writes in the pager once it exceeds
// Height lines. Quitting the pager makes render's writes fail with
// diffpaint.ErrOutputClosed. Page returns when both render and the pager
// have finished.
func (p *Pager) Page(ctx context.Context, render func(w io.Writer) error) error {
	g, ctx := errgroup.WithContext(ctx)

	w := &deferredWriter{limit: p.Height}
	w.start = func() *LineWriter {
		opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, p.Options...)
		prog := tea.NewProgram(NewModel(WithRenderer(p.Renderer)), opts...)
		lw := NewLineWriter(prog.Send)
		g.Go(func() error {
			_, err := prog.Run()
			lw.Close()
			return err
		})
		w.done = func(err error) {
			_ = lw.Flush()
			prog.Send(DoneMsg{Err: err})
		}
		return lw
	}
	if p.Height <= 0 {
		w.begin()
	}

	g.Go(func() error {
		err := render(w)
		if ferr := w.finish(err, p.Output); err == nil {
			err = ferr
		}
		return err
	})
	return g.Wait()
}

// deferredWriter buffers up to limit lines before starting the pager.
type deferredWriter struct {
	limit int
	start func() *LineWriter
	done  func(err error)

	buf   bytes.Buffer
	lines int
	lw    *LineWriter
}

func (d *deferredWriter) Write(p []byte) (int, error) {
	if d.lw != nil {
		return d.lw.Write(p)
	}
	d.buf.Write(p)
	d.lines += bytes.Count(p, []byte{'\n'})
	if d.lines > d.limit {
		if _, err := d.begin(); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// begin starts the pager and hands it what was buffered so far.
func (d *deferredWriter) begin() (int, error) {
	d.lw = d.start()
	if d.buf.Len() == 0 {
		return 0, nil
	}
	n, err := d.lw.Write(d.buf.Bytes())
	d.buf.Reset()
	return n, err
}

// finish completes a render: the buffer goes to out if the pager never
// started, otherwise the pager is told rendering is over.
func (d *deferredWriter) finish(err error, out io.Writer) error {
	if d.lw == nil {
		if out == nil {
			return nil
		}
		_, werr := out.Write(d.buf.Bytes())
		return werr
	}
	d.done(err)
	return nil
}
