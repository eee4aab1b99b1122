package services

import (
	"context"
	"sync"
)

// Operation is the handle of an asynchronous provider call.
type Operation struct {
	done   chan struct{}
	cancel context.CancelFunc

	once   sync.Once
	result Result
}

func newOperation(cancel context.CancelFunc) *Operation {
	return &Operation{done: make(chan struct{}), cancel: cancel}
}

// Completed returns an already finished operation.
func Completed(r Result) *Operation {
	op := newOperation(func() {})
	op.finish(r)
	return op
}

func (o *Operation) finish(r Result) {
	o.once.Do(func() {
		o.result = r
		close(o.done)
	})
}

// Done is closed once the result is available.
func (o *Operation) Done() <-chan struct{} { return o.done }

// Wait blocks until the operation finishes.
func (o *Operation) Wait() Result {
	<-o.done
	return o.result
}

// Result returns the result without blocking; ok is false while the
// operation is still running.
func (o *Operation) Result() (Result, bool) {
	select {
	case <-o.done:
		return o.result, true
	default:
		return Result{}, false
	}
}

// Cancel aborts the provider call. The session keeps its previous status.
func (o *Operation) Cancel() { o.cancel() }
