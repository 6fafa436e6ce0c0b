package aes128

import (
	"errors"
	"fmt"
)

// ErrInvalidLength is returned when a key or plaintext is not exactly 16 bytes.
var ErrInvalidLength = errors.New("aes128: invalid length")

func lengthError(field string, got int) error {
	return fmt.Errorf("%w: %s must be %d bytes, got %d", ErrInvalidLength, field, BlockSize, got)
}

// InvariantError is the panic value raised when an internal table is indexed
// out of range. It signals a logic defect (for example a key-size mismatch),
// never a condition a caller can recover from.
type InvariantError struct {
	Table string
	Index int
	Limit int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("aes128: internal invariant violated: %s index %d out of range [0, %d)", e.Table, e.Index, e.Limit)
}
