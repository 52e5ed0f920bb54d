// Package ring implements a bounded, wait-free multi-producer/single-consumer
// queue backed by a power-of-two ring buffer.
//
// Producers reserve a monotonically increasing ticket with a single atomic
// fetch-and-add and write into the slot at ticket mod capacity; the consumer
// reads slots in the same order. Admission is lossy: when the ring is full at
// the claimed ticket, Produce reports failure instead of blocking.
//
// Original algorithm: https://www.1024cores.net/home/lock-free-algorithms/queues/bounded-mpmc-queue,
// specialized here to a single consumer with a fetch-and-add ticket protocol.
package ring

import "sync/atomic"

// slot holds one ring position: a token that encodes the slot's state
// relative to its current generation, and storage for one payload.
//
// Token meaning relative to generation g (g mod capacity == the slot's
// position):
//
//	token == g       slot is EMPTY for generation g; a producer holding
//	                 ticket g may construct here.
//	token == g+1     slot is FULL for generation g; the consumer may claim it.
//	token == g+cap   slot is CONSUMED for generation g, equivalently EMPTY
//	                 for generation g+cap.
type slot[T any] struct {
	token atomic.Uint64
	val   T
}

// Ring is a bounded wait-free MPSC queue of capacity C (a power of two).
// Safe for any number of concurrent producers and exactly one consumer.
type Ring[T any] struct {
	_        [64]byte
	mask     uint64
	capacity uint64
	slots    []slot[T]
	onDrop   func(T)
	_        [64]byte
	head     atomic.Uint64 // next ticket handed to a producer
	_        [64]byte
	tail     atomic.Uint64 // next ticket the consumer will read; written only by the consumer
	_        [64]byte
}

// New constructs a Ring of the given capacity, which must be a power of two
// and at least 2. onDrop, if non-nil, is invoked by Close once for each
// payload still live in the ring at close time.
func New[T any](capacity uint64, onDrop func(T)) (*Ring[T], error) {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, ErrInvalidCapacity
	}

	slots := make([]slot[T], capacity)
	for i := uint64(0); i < capacity; i++ {
		slots[i].token.Store(i)
	}

	return &Ring[T]{
		mask:     capacity - 1,
		capacity: capacity,
		slots:    slots,
		onDrop:   onDrop,
	}, nil
}

// Produce attempts to admit v. Returns true on success. Returns false
// (lossy rejection) when the ring is full at the claimed ticket; on
// failure no payload is stored and no slot state changes beyond the
// caller's retired ticket. Safe to call from any number of goroutines
// concurrently. Never blocks, never allocates.
func (r *Ring[T]) Produce(v T) bool {
	g := r.head.Add(1) - 1
	s := &r.slots[g&r.mask]

	if s.token.Load() != g {
		// Slot has not yet been recycled for this generation; the
		// consumer is behind. The ticket is permanently retired: head
		// never rolls back.
		return false
	}

	s.val = v
	s.token.Store(g + 1)
	return true
}

// TryConsume moves the next ready payload into the caller's hands. Returns
// false without mutation if the next tail slot is not yet FULL. Must be
// called from at most one goroutine.
func (r *Ring[T]) TryConsume() (T, bool) {
	var zero T

	t := r.tail.Load()
	s := &r.slots[t&r.mask]

	if s.token.Load() != t+1 {
		return zero, false
	}

	v := s.val
	s.val = zero // let the GC reclaim what the payload was holding
	s.token.Store(t + r.capacity)
	r.tail.Store(t + 1)
	return v, true
}

// Capacity returns the fixed ring capacity C.
func (r *Ring[T]) Capacity() uint64 {
	return r.capacity
}

// Len returns an observational snapshot of head-minus-tail. Not part of the
// hot-path contract; useful only for diagnostics, since both counters may
// move between the two loads.
func (r *Ring[T]) Len() uint64 {
	return r.head.Load() - r.tail.Load()
}

// Close releases every payload still live in the ring (the FULL slots among
// positions in [tail, head); tickets retired by a rejected Produce hold no
// payload and are skipped) by invoking onDrop once per payload, and returns
// how many payloads were live. Producers and the consumer must be quiesced before
// calling Close; calling it concurrently with Produce or TryConsume is a
// contract violation the ring does not defend against.
func (r *Ring[T]) Close() int {
	t := r.tail.Load()
	h := r.head.Load()

	count := 0
	for p := t; p != h; p++ {
		s := &r.slots[p&r.mask]
		if s.token.Load() != p+1 {
			continue
		}
		if r.onDrop != nil {
			r.onDrop(s.val)
		}
		var zero T
		s.val = zero
		count++
	}
	return count
}
