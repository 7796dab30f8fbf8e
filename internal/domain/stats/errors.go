package stats

import "errors"

// Sentinel kinds for aggregation errors.
var (
	// ErrUnmatchedScore marks a raw score no competence level covers.
	// After load-time table validation this cannot happen; when it does
	// it is a data-integrity fault and must propagate, never be folded
	// into a default bucket.
	ErrUnmatchedScore = errors.New("raw score matches no competence level")
)
