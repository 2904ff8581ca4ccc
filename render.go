package diffpaint

import (
	"context"
	"io"
)

// Renderer renders diff text read from r onto w.
type Renderer interface {
	Run(ctx context.Context, r io.Reader, w io.Writer) error
}

// Pager displays rendered output interactively while it is produced.
type Pager interface {
	// Page runs render with a writer feeding the pager and returns once the
	// user quits or ctx is done. After the user quits, writes fail with
	// ErrOutputClosed.
	Page(ctx context.Context, render func(w io.Writer) error) error
}
