package graph

import "errors"

var (
	// ErrInvalidCommand is returned when command text is empty or blank
	ErrInvalidCommand = errors.New("invalid command")

	// ErrOutOfOrderIndex is returned when a command index does not match
	// the session's expected next value (skipped or repeated)
	ErrOutOfOrderIndex = errors.New("out of order command index")

	// ErrDuplicateNode is returned when a delta carries a node id already
	// present in the store
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrUnknownEndpoint is returned when an edge references a node that
	// exists neither in the store nor in the delta being appended
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")
)
