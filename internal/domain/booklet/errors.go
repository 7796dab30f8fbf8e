package booklet

import "errors"

// Sentinel kinds for booklet errors.
var (
	ErrInvalidKey     = errors.New("invalid booklet key")
	ErrMissingColumns = errors.New("item metadata missing required columns")
	ErrLoadCatalog    = errors.New("catalog load failed")
)
