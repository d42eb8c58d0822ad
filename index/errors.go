package index

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrStoreNotFound is returned by Load when no snapshot exists under
	// the given stem. Callers typically recover by rebuilding the index.
	ErrStoreNotFound = errors.New("snapshot not found")

	// ErrFormatMismatch is returned by Load when a snapshot exists but
	// disagrees with the configured index (dimension, embedding space) or
	// is internally inconsistent (counts, checksums).
	ErrFormatMismatch = errors.New("snapshot format mismatch")
)

// ErrDimensionMismatch indicates a vector/query dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}
