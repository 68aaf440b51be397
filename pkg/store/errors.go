package store

import "errors"

var (
	ErrNotFound    = errors.New("record not found")
	ErrKeyConflict = errors.New("key conflict")
)

func IsNotFoundErr(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsKeyConflictErr(err error) bool {
	return errors.Is(err, ErrKeyConflict)
}
