// Package errors defines all exported error sentinels for the bitrank
// library.
//
// This is the single source of truth for error values. Both the top-level
// bitrank package and internal helper packages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Allocation and geometry errors.
var (
	ErrAllocationFailed = errors.New("bitrank: allocation failed")
	ErrInvalidGeometry  = errors.New("bitrank: invalid geometry parameters")
)

// Lifecycle errors.
var (
	ErrNotFinalized     = errors.New("bitrank: bit vector has not been finalized")
	ErrAlreadyFinalized = errors.New("bitrank: bit vector already finalized")
)

// Query-bound errors. No function in this module returns them: the hot
// query paths (Set, IsSet, Rank1, Select1, ...) are unchecked by design, and
// the constructors take no positions or ranks to check.
var (
	ErrIndexOutOfRange = errors.New("bitrank: position out of range")
	ErrRankOutOfRange  = errors.New("bitrank: rank out of range")
)
