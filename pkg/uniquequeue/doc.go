// Package uniquequeue provides an unbounded, concurrency-safe FIFO queue that
// holds at most one instance of any value.
//
// Add and Offer insert a value at the tail unless an equal value is already
// queued, in which case they report false. Once a value leaves the queue (via
// Poll, Remove, Take or RemoveValue) it may be added again and goes to the tail.
//
// Poll and Peek never block and report an empty queue through their boolean
// result. Remove and Element return ErrNoSuchElement instead. Take and PeekWait
// block until a value is available or their context is done; in the latter case
// the returned error matches both ErrInterrupted and ctx.Err().
//
// Read-only calls share a read lock. Every mutation holds the write lock, which
// also backs the condition variable blocked callers wait on.
package uniquequeue
