// Package linked implements the unbounded Michael–Scott-style reference
// queue: multi-producer/single-consumer, lossless, allocating on every
// Produce. It is the alternative to ring.Ring for callers who cannot
// tolerate lossy rejection and can tolerate one allocation per message.
//
// Produce has no failure return. Its only theoretical failure mode is
// allocation failure, which in Go surfaces as a runtime out-of-memory panic
// rather than a recoverable error value, so there is no ErrAllocationFailure
// for callers to check: the queue is either up, or the process is not.
package linked

import "sync/atomic"

// node owns one payload plus an atomic pointer to the next node. The
// sentinel holds the zero value, and Consume resets a node's payload to the
// zero value when it moves the payload out.
type node[T any] struct {
	val  T
	next atomic.Pointer[node[T]]
}

// Queue is an unbounded MPSC queue. head (most recently pushed) and tail
// (oldest, the sentinel's successor chain) are shared atomic pointers. The
// sentinel removes special-casing of the empty queue: head == tail always
// points to a valid node, and tail's next is nil exactly when the queue is
// empty.
type Queue[T any] struct {
	head atomic.Pointer[node[T]]
	tail atomic.Pointer[node[T]]
}

// New constructs an empty Queue, seeded with a dummy sentinel node.
func New[T any]() *Queue[T] {
	sentinel := &node[T]{}
	q := &Queue[T]{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Produce allocates a node for v and publishes it by swinging head, then
// links the previous head's next pointer to it. Unbounded: never rejects.
// Safe to call from any number of goroutines concurrently.
func (q *Queue[T]) Produce(v T) {
	n := &node[T]{val: v}
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

// Consume moves the oldest payload out of the queue. Returns false without
// mutation if the queue is empty. Must be called from at most one goroutine.
func (q *Queue[T]) Consume() (T, bool) {
	var zero T

	tail := q.tail.Load()
	next := tail.next.Load()
	if next == nil {
		return zero, false
	}

	v := next.val
	next.val = zero
	q.tail.Store(next)
	return v, true
}

// Clear consumes and discards every currently-linked node, leaving the
// sentinel alone. Returns how many payloads were discarded. Must be called
// from the consumer goroutine.
func (q *Queue[T]) Clear() int {
	n := 0
	for {
		if _, ok := q.Consume(); !ok {
			return n
		}
		n++
	}
}

// Close is Clear; the Go GC reclaims the sentinel once the Queue itself is
// unreachable, so there is no separate node to destroy explicitly. Returns
// the number of payloads that were still linked.
func (q *Queue[T]) Close() int {
	return q.Clear()
}
