package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrOperationFailed is returned when a stack operation reaches a failure
	// terminal state.
	ErrOperationFailed = errors.New("operation failed")
)
