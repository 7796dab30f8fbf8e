package equivalence

import "errors"

// Sentinel kinds for equivalence table errors.
var (
	ErrInvalidTable   = errors.New("invalid equivalence table")
	ErrUnknownBooklet = errors.New("equivalence table references unknown booklet")
	ErrLoadTables     = errors.New("equivalence tables load failed")
)
