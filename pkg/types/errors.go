// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrPoolClosed indicates the pool has been closed
	ErrPoolClosed = errors.New("pool is closed")

	// ErrPoolNotStarted indicates the pool has not been started
	ErrPoolNotStarted = errors.New("pool is not started")

	// ErrPoolRunning indicates the pool is already running
	ErrPoolRunning = errors.New("pool is already running")

	// ErrWorkerExited indicates the target worker already exited
	ErrWorkerExited = errors.New("worker has exited")

	// ErrChannelClosed indicates the task channel is already closed
	ErrChannelClosed = errors.New("task channel is closed")

	// ErrAlreadyReplied indicates a second reply on a one-shot task channel
	ErrAlreadyReplied = errors.New("task channel already carried a reply")

	// ErrNilPayload indicates a nil payload was submitted
	ErrNilPayload = errors.New("payload cannot be nil")
)

// WorkerExitError reports that a worker exited while a task was still
// outstanding on it. The task is never resubmitted elsewhere.
type WorkerExitError struct {
	// Slot is the index the worker occupied
	Slot int

	// Code is the numeric exit code
	Code int
}

// Error implements the error interface
func (e *WorkerExitError) Error() string {
	return fmt.Sprintf("worker at slot %d exited with code %d before responding", e.Slot, e.Code)
}

// Is checks if the error is a specific error
func (e *WorkerExitError) Is(target error) bool {
	return target == ErrWorkerExited
}

// NewWorkerExitError creates a new WorkerExitError
func NewWorkerExitError(slot, code int) *WorkerExitError {
	return &WorkerExitError{Slot: slot, Code: code}
}
