package flatfile

import (
	"errors"
	"fmt"
)

// Store-level error values surfaced to callers.
var (
	ErrInvalidSchema      = errors.New("invalid schema")
	ErrInconsistentSchema = errors.New("inconsistent schema")
	ErrRowShape           = errors.New("row does not match schema")
	ErrInvalidStoreConfig = errors.New("invalid store config")
	ErrIO                 = errors.New("store i/o failure")
)

// StoreError wraps a failure with the store name and the operation that produced it.
type StoreError struct {
	store     string
	operation string
	err       error
}

// Error returns the formatted error message.
func (storeError StoreError) Error() string {
	return fmt.Sprintf("%s.%s: %v", storeError.store, storeError.operation, storeError.err)
}

// Unwrap returns the underlying error.
func (storeError StoreError) Unwrap() error {
	return storeError.err
}

// Store returns the owning store's schema name.
func (storeError StoreError) Store() string {
	return storeError.store
}

// Operation returns the failed operation name.
func (storeError StoreError) Operation() string {
	return storeError.operation
}

func wrapStoreError(store string, operation string, err error) error {
	if err == nil {
		return nil
	}
	return StoreError{store: store, operation: operation, err: err}
}
