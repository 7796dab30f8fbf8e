package roster

import "errors"

// Sentinel kinds for roster configuration errors.
var (
	ErrInvalidConfig = errors.New("invalid roster config")
	ErrDuplicateID   = errors.New("duplicate id in roster config")
	ErrLoadConfig    = errors.New("roster config load failed")
)
