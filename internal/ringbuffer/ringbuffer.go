// Package ringbuffer provides the fixed slot storage of a pipeline.
package ringbuffer

import "fmt"

// RingBuffer is a power-of-two sized arena of slots addressed by
// sequence & mask. Slots are allocated once at construction and
// overwritten in place every capacity sequences; nothing is ever
// freed individually.
type RingBuffer[T any] struct {
	slots []T
	mask  int64
}

// New returns a ring buffer of the given capacity.
// capacity must be a positive power of two.
func New[T any](capacity int64) (*RingBuffer[T], error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("ring buffer capacity must be a positive power of two, got %d", capacity)
	}
	return &RingBuffer[T]{
		slots: make([]T, capacity),
		mask:  capacity - 1,
	}, nil
}

// Get returns the slot holding seq.
//
// No lock guards the slots. The sequencing protocol alone partitions
// access: a producer may mutate the slot only between claiming seq
// and publishing it, and a consumer may touch it only after
// publication and before the sequencer grants the wrap of the same
// physical slot capacity sequences later. Touching a slot outside
// the window granted to the caller is a data race.
func (r *RingBuffer[T]) Get(seq int64) *T {
	return &r.slots[seq&r.mask]
}

// Size returns the capacity.
func (r *RingBuffer[T]) Size() int64 {
	return int64(len(r.slots))
}
