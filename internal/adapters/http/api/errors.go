package api

import "errors"

var (
	// ErrInvalidPath indicates a request path that does not match the
	// expected {entity}/{id}/{report} shape.
	ErrInvalidPath = errors.New("invalid request path")
	// ErrUnknownReport indicates a report name with no handler.
	ErrUnknownReport = errors.New("unknown report")
)
