package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskNotCompleted     = errors.New("task is not completed")
	ErrAlreadyCompleted     = errors.New("task already completed")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrEmptyTitle           = errors.New("title cannot be empty")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
	ErrNoTasksInFile        = errors.New("no tasks found in file")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidXP            = errors.New("xp amount must not be negative")
	ErrInvalidFocusDuration = errors.New("focus session must last at least one minute")
	ErrConfigExists         = errors.New("config file already exists")
	ErrUnknownBackend       = errors.New("unknown store backend")

	// ErrNotConfigured is returned when an engine component is requested
	// without its required store dependency. Callers must not proceed.
	ErrNotConfigured = errors.New("progression tracker requires a store")
	// ErrStoreRead wraps failures reading from the key-value store.
	ErrStoreRead = errors.New("store read failed")
	// ErrStoreWrite wraps failures writing to the key-value store.
	ErrStoreWrite = errors.New("store write failed")
	// ErrInvalidRecord marks a persisted record that failed validation.
	ErrInvalidRecord = errors.New("invalid persisted record")
)
