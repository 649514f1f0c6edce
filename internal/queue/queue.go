package queue

import "context"

// QueueValidationInterface is a *type constraint* describing the non-blocking
// queue surface the harness drives. We never store Q in a runtime interface;
// we only use it at compile time to ensure matching signatures.
type QueueValidationInterface[T any] interface {
	// Offer adds an element at the tail. It returns false if the element was
	// rejected (for deduplicating queues: an equal element is already queued).
	Offer(T) bool

	// Poll removes and returns the oldest element.
	// If the queue is empty it returns an empty T and false, otherwise true.
	Poll() (T, bool)

	// Size returns how many elements are currently queued.
	Size() int
}

// BlockingQueueValidationInterface adds a blocking consumer to
// QueueValidationInterface.
type BlockingQueueValidationInterface[T any] interface {
	QueueValidationInterface[T]

	// Take removes and returns the oldest element, waiting until one is
	// available or ctx is done.
	Take(ctx context.Context) (T, error)
}

// DedupQueueValidationInterface is the full non-blocking surface of a
// deduplicating queue, as used by the per-operation benchmarks.
type DedupQueueValidationInterface[T any] interface {
	QueueValidationInterface[T]

	Add(T) bool
	Contains(T) bool
	RemoveValue(T) bool
}
