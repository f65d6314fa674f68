package tensor

import "errors"

// Error kinds shared by every operation in the interchange layer.
// Concrete failures wrap one of these, so callers can classify with
// errors.Is regardless of which component produced the error.
var (
	// ErrFormat marks malformed on-disk data or an unsupported pixel or
	// element format.
	ErrFormat = errors.New("malformed or unsupported format")
	// ErrIO marks file open/create failures, premature end-of-stream and
	// short writes.
	ErrIO = errors.New("i/o failure")
	// ErrPrecondition marks calls whose arguments or session state violate
	// the operation's contract.
	ErrPrecondition = errors.New("precondition violated")
)
