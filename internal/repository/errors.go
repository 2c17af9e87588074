package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist. SQL and
// memory implementations both wrap it so callers can match with errors.Is.
var ErrNotFound = errors.New("not found")
