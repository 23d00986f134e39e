package repositories

import "errors"

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCounterUnderflow is returned when a decrement would take a note counter below zero.
	ErrCounterUnderflow = errors.New("counter cannot go below zero")
	ErrInvalidID        = errors.New("invalid id")
)
