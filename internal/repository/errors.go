package repository

import "errors"

var (
	// ErrNotFound is returned when a requested trace or evaluation run does not exist.
	ErrNotFound = errors.New("entity not found")
)
