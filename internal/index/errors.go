package index

import (
	"errors"
	"fmt"
)

// -- Error Types --

// DuplicateKeyError is returned when a key is already present in the tree.
type DuplicateKeyError struct {
	Key int64
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %#x already in index", e.Key)
}
func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }

// -- Sentinels --

var (
	ErrDuplicateKey = errors.New("duplicate key")
	ErrNotFound     = errors.New("key not found")
	ErrNodeLinked   = errors.New("node is already linked into a tree")
)
