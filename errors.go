package diffpaint

import "github.com/pkg/errors"

// Recoverable and terminal conditions of a rendering run.
var (
	// ErrAlignmentOverflow is reported when a change block is too large to align.
	// Its lines are rendered unpaired.
	ErrAlignmentOverflow = errors.New("change block exceeds alignment ceiling")

	// ErrEncoding is reported for input lines that are not valid UTF-8.
	// Such lines pass through unhighlighted.
	ErrEncoding = errors.New("invalid UTF-8 in input line")

	// ErrOutputClosed is reported when the output sink went away (e.g. broken pipe).
	// It ends a run with success.
	ErrOutputClosed = errors.New("output closed")
)
