package chunker

import "errors"

var (
	// ErrInvalidInput is returned when the page map is missing or empty.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedMethod is returned for an unknown chunking method.
	ErrUnsupportedMethod = errors.New("unsupported chunking method")
	// ErrSplitFailure is returned when a splitter cannot make progress
	// with the parameters it was given.
	ErrSplitFailure = errors.New("split failure")
)
