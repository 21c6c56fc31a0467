package model

import "errors"

// StorageError is returned by store implementations whenever the backend could
// not complete an operation. Soft outcomes like "already exists" are never
// reported through it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}
