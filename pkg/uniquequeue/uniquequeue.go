package uniquequeue

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/i5heu/GoUniqueQueue/pkg/orderedset"
)

// UniqueQueue is an unbounded FIFO queue that rejects a value while an equal
// value is queued. All methods are safe for concurrent use. The zero value is
// not ready for use; construct with New.
type UniqueQueue[T comparable] struct {
	mu       sync.RWMutex
	notEmpty *sync.Cond // bound to the write lock of mu
	set      *orderedset.Set[T]
	log      *zap.Logger
}

// New creates an empty queue.
func New[T comparable](opts ...Option) *UniqueQueue[T] {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	q := &UniqueQueue[T]{
		set: orderedset.New[T](),
		log: o.log,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Add inserts v at the tail. Returns false if an equal value is already queued.
// A successful insert wakes one blocked Take or PeekWait.
func (q *UniqueQueue[T]) Add(v T) bool {
	q.mu.Lock()
	added := q.set.Insert(v)
	if added {
		q.notEmpty.Signal()
	}
	q.mu.Unlock()
	return added
}

// Offer is identical to Add.
func (q *UniqueQueue[T]) Offer(v T) bool {
	return q.Add(v)
}

// AddAll inserts each value in order, skipping those already queued.
// Returns true if at least one value was inserted.
func (q *UniqueQueue[T]) AddAll(vs ...T) bool {
	changed := false
	q.mu.Lock()
	for _, v := range vs {
		if q.set.Insert(v) {
			q.notEmpty.Signal()
			changed = true
		}
	}
	q.mu.Unlock()
	return changed
}

// Poll removes and returns the head. The second result is false when the
// queue is empty.
func (q *UniqueQueue[T]) Poll() (T, bool) {
	q.mu.Lock()
	v, ok := q.set.RemoveHead()
	q.mu.Unlock()
	return v, ok
}

// Remove removes and returns the head, or ErrNoSuchElement when empty.
func (q *UniqueQueue[T]) Remove() (T, error) {
	v, ok := q.Poll()
	if !ok {
		return v, ErrNoSuchElement
	}
	return v, nil
}

// Peek returns the head without removing it. The second result is false when
// the queue is empty.
func (q *UniqueQueue[T]) Peek() (T, bool) {
	q.mu.RLock()
	v, ok := q.set.PeekHead()
	q.mu.RUnlock()
	return v, ok
}

// Element returns the head without removing it, or ErrNoSuchElement when empty.
func (q *UniqueQueue[T]) Element() (T, error) {
	v, ok := q.Peek()
	if !ok {
		return v, ErrNoSuchElement
	}
	return v, nil
}

// RemoveValue removes v from anywhere in the queue. Returns true if it was
// queued. Blocked callers are not woken.
func (q *UniqueQueue[T]) RemoveValue(v T) bool {
	q.mu.Lock()
	removed := q.set.Remove(v)
	q.mu.Unlock()
	return removed
}

// Contains reports whether v is queued.
func (q *UniqueQueue[T]) Contains(v T) bool {
	q.mu.RLock()
	ok := q.set.Contains(v)
	q.mu.RUnlock()
	return ok
}

// Size returns the number of queued values.
func (q *UniqueQueue[T]) Size() int {
	q.mu.RLock()
	n := q.set.Len()
	q.mu.RUnlock()
	return n
}

// IsEmpty reports whether the queue is empty.
func (q *UniqueQueue[T]) IsEmpty() bool { return q.Size() == 0 }

// Values returns a copy of the queued values in FIFO order.
func (q *UniqueQueue[T]) Values() []T {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.set.Values()
}

// Clear removes all values.
func (q *UniqueQueue[T]) Clear() {
	q.mu.Lock()
	q.set.Clear()
	q.mu.Unlock()
}

// Take removes and returns the head, blocking until one is available or ctx
// is done. A value already queued is returned without consulting ctx.
func (q *UniqueQueue[T]) Take(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.waitNotEmpty(ctx, "take"); err != nil {
		var zero T
		return zero, err
	}
	v, _ := q.set.RemoveHead()
	if q.set.Len() > 0 {
		q.notEmpty.Signal()
	}
	return v, nil
}

// PeekWait returns the head without removing it, blocking until one is
// available or ctx is done.
func (q *UniqueQueue[T]) PeekWait(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.waitNotEmpty(ctx, "peek"); err != nil {
		var zero T
		return zero, err
	}
	v, _ := q.set.PeekHead()
	// The head is still queued; hand the wakeup on to the next waiter.
	q.notEmpty.Signal()
	return v, nil
}

// waitNotEmpty blocks until the set is non-empty. q.mu must be write-locked.
func (q *UniqueQueue[T]) waitNotEmpty(ctx context.Context, op string) error {
	if q.set.Len() > 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Wake every waiter on cancellation so the cancelled one can leave; the
	// others re-check and go back to sleep.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.notEmpty.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.log.Debug("waiting for element", zap.String("op", op))
	for q.set.Len() == 0 {
		if err := ctx.Err(); err != nil {
			q.log.Debug("wait interrupted", zap.String("op", op), zap.Error(err))
			return fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		q.notEmpty.Wait()
	}
	return nil
}
