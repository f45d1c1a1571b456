package sketch

import "errors"

var (
	ErrInvalidTool    = errors.New("invalid tool")
	ErrInvalidColor   = errors.New("invalid color")
	ErrInvalidSize    = errors.New("invalid stroke size")
	ErrInvalidEvent   = errors.New("invalid event")
	ErrInvalidSurface = errors.New("invalid surface dimensions")

	// ErrClearDeclined is returned by Pad.Clear when the caller did not confirm.
	ErrClearDeclined = errors.New("clear declined")
)
