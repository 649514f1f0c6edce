package uniquequeue

import "errors"

// ErrNoSuchElement is returned by Remove and Element when the queue is empty.
var ErrNoSuchElement = errors.New("uniquequeue: no such element")

// ErrInterrupted is returned by Take and PeekWait when their context is done
// before a value becomes available. The returned error also wraps ctx.Err().
var ErrInterrupted = errors.New("uniquequeue: wait interrupted")
