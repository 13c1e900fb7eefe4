// Package ringbuf implements the lock-free single-producer/single-consumer
// ring buffers that connect the control tick to the lower-priority
// long-execution context (spec.md §5): one direction carries status
// snapshots out, the other carries commands in. Capacity is fixed at
// construction and the buffer never allocates after that.
package ringbuf

import "sync/atomic"

// Ring is a fixed-capacity SPSC ring buffer of T. Exactly one goroutine may
// call Push, and exactly one (possibly different) goroutine may call Pop;
// mixing producers or consumers is undefined, matching the single-writer
// HAL/tick discipline the rest of the control core assumes.
type Ring[T any] struct {
	buf  []T
	mask uint32
	head atomic.Uint32 // next slot Pop will read
	tail atomic.Uint32 // next slot Push will write
}

// New returns a Ring whose capacity is the next power of two ≥ capacity (at
// least 2), so index wrapping can use a mask instead of a modulo.
func New[T any](capacity int) *Ring[T] {
	n := uint32(2)
	for int(n) < capacity {
		n <<= 1
	}
	return &Ring[T]{
		buf:  make([]T, n),
		mask: n - 1,
	}
}

// Push appends v. It returns false without blocking if the ring is full,
// matching the "no controller call may block" rule in spec.md §5; the
// caller decides whether a full ring is itself a fault.
func (r *Ring[T]) Push(v T) bool {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail-head >= uint32(len(r.buf)) {
		return false
	}
	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1)
	return true
}

// Pop removes and returns the oldest element, or false if the ring is empty.
func (r *Ring[T]) Pop() (T, bool) {
	var zero T
	head := r.head.Load()
	tail := r.tail.Load()
	if head == tail {
		return zero, false
	}
	v := r.buf[head&r.mask]
	r.buf[head&r.mask] = zero
	r.head.Store(head + 1)
	return v, true
}

// Len returns a snapshot of the number of queued elements. Racy by nature
// against a concurrent Push/Pop; intended for telemetry, not control flow.
func (r *Ring[T]) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Cap returns the ring's fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }
