package store

import (
	"errors"
	"fmt"
)

// ErrAlreadyClassified is returned when a caller attempts to classify a
// file that already carries a classification. The existing record is
// never mutated.
var ErrAlreadyClassified = errors.New("file is already classified")

// StorageError wraps a failure to write the primary classification record.
// Backup and metadata write failures never produce a StorageError — they
// are logged and swallowed.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to set classification (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
