package model

import "errors"

// Errors shared by the organizer, directory, graph and stores.
// Callers match them with errors.Is; producers wrap them with context.
var (
	// ErrDuplicateID is returned when an ID is already present in the target container.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrEmptyContainer is returned by peek and pop on an empty container.
	ErrEmptyContainer = errors.New("empty container")

	// ErrIndexOutOfRange is returned for list access outside [0, size).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotFound is returned when a task or employee does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownTask is returned when a dependency endpoint is not registered.
	ErrUnknownTask = errors.New("unknown task")

	// ErrCycleDetected is returned when a dependency would close a cycle.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrPersistence wraps any failure reported by a store.
	ErrPersistence = errors.New("persistence failure")

	// ErrValidation is returned when a record fails field validation.
	ErrValidation = errors.New("validation failed")
)
