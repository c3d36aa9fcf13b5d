// Package sequence provides the padded atomic counters that every
// stage of a pipeline coordinates through.
package sequence

import "sync/atomic"

// Initial is the value a sequence holds before anything has been
// claimed, published or consumed: the first event is sequence 0.
const Initial int64 = -1

// Sequence is a monotonically increasing position counter.
// Each sequence has exactly one writer (its owning stage or sequencer)
// and any number of readers. It is padded to a cache line so that
// neighboring counters never share one.
type Sequence struct {
	value atomic.Int64
	_     [56]byte
}

// New returns a sequence holding Initial.
func New() *Sequence {
	s := &Sequence{}
	s.value.Store(Initial)
	return s
}

// Load returns the current value.
func (s *Sequence) Load() int64 { return s.value.Load() }

// Store publishes v. Writes made before the store are visible to any
// goroutine that subsequently loads v or a later value.
func (s *Sequence) Store(v int64) { s.value.Store(v) }

// CompareAndSwap advances the value from old to new if it still holds
// old, reporting whether the swap happened.
func (s *Sequence) CompareAndSwap(old, new int64) bool {
	return s.value.CompareAndSwap(old, new)
}

// View is a read-only handle on a sequence. The published cursor and
// every handler's progress counter are exposed to dependents as Views.
type View interface {
	Load() int64
}

// Minimum returns the smallest current value among views.
// INVARIANT: views is non-empty.
func Minimum(views []View) int64 {
	minimum := views[0].Load()
	for i := 1; i < len(views); i++ {
		seq := views[i].Load()
		diff := minimum - seq
		mask := diff >> 63 // arithmetic right shift: 0 if diff>=0, -1 if diff<0
		minimum = seq + (diff & mask)
	}
	return minimum
}

// Padded is a plain int64 on its own cache line, for values owned and
// cached by a single goroutine next to shared counters.
type Padded struct {
	Val int64
	_   [56]byte
}
