package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
)

var (
	// ErrOperationInProgress rejects a provider call while another one is
	// still running for the same session.
	ErrOperationInProgress = errors.New("another operation is in progress")
	// ErrOperationDiscarded is the result of an operation whose session was
	// signed out or closed before it finished.
	ErrOperationDiscarded = errors.New("operation discarded: session ended")
	ErrClosed             = errors.New("session manager closed")
)

// ValidationError is a local precondition failure; no provider call was made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IOError is a local storage failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Result is the outcome of a session or profile operation: the status that
// was published and the error, if any.
type Result struct {
	Status models.Status
	Err    error
}

func (r Result) OK() bool { return r.Err == nil }
