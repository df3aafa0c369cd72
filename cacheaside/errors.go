package cacheaside

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Read when neither the cache nor the store
// holds the key.
var ErrNotFound = errors.New("cacheaside: not found")

// Store operation names carried by StoreError.
const (
	OpGet    = "get"
	OpUpsert = "upsert"
	OpErase  = "erase"
)

// StoreError reports a failed backing-store call. The cache is guaranteed
// to be untouched by the operation that returned it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("cacheaside: store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err wraps a *StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
