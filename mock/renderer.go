package mock

import (
	"context"
	"io"

	"github.com/fwojciec/diffpaint"
)

// Compile-time interface verification.
var (
	_ diffpaint.Renderer = (*Renderer)(nil)
	_ diffpaint.Pager    = (*Pager)(nil)
)

// Renderer is a mock implementation of diffpaint.Renderer.
type Renderer struct {
	RunFn func(ctx context.Context, r io.Reader, w io.Writer) error
}

func (m *Renderer) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	return m.RunFn(ctx, r, w)
}

// Pager is a mock implementation of diffpaint.Pager.
type Pager struct {
	PageFn func(ctx context.Context, render func(w io.Writer) error) error
}

func (p *Pager) Page(ctx context.Context, render func(w io.Writer) error) error {
	return p.PageFn(ctx, render)
}
