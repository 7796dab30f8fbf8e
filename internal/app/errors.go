package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotFound   = errors.New("not found")
	ErrNotStarted = errors.New("service not started")
)
