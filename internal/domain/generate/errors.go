package generate

import "errors"

// Sentinel kinds for generation errors.
var (
	ErrInvalidCount      = errors.New("student count must be at least 1")
	ErrEmptyBooklet      = errors.New("booklet must contain at least one item")
	ErrInvalidPopulation = errors.New("population is missing identity or ability data")
	ErrInvalidCovariate  = errors.New("invalid covariate distribution")
)
