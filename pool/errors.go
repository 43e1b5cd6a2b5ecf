package pool

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPool  = errors.New("candidate pool is empty")
	ErrZeroWeight = errors.New("candidate pool has zero total weight")
	ErrNoProgress = errors.New("guess did not shrink the candidate pool")
)

// InvariantError signals a logic bug: the pool reached a state that correct
// scoring and reduction can never produce.
type InvariantError struct {
	Op  string
	Err error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %v", e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// Invariant wraps err as an InvariantError for operation op.
func Invariant(op string, err error) error {
	return &InvariantError{Op: op, Err: err}
}

// IsInvariant reports whether err is (or wraps) an InvariantError.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
