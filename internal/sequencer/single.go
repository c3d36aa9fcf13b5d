package sequencer

import (
	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequence"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/wait"
)

// SingleProducer is the sequencer for pipelines with exactly one
// writing goroutine. Claiming is a plain add on an unshared counter;
// the only atomic on the claim path is the cached-gate refresh when
// the buffer looks full.
type SingleProducer struct {
	core
	next sequence.Padded // highest claimed, owned by the writer goroutine
	gate sequence.Padded // cached min(gating)
}

// NewSingleProducer returns a single-producer sequencer.
// capacity must be a positive power of two.
func NewSingleProducer(capacity int64, strategy wait.Strategy) *SingleProducer {
	s := &SingleProducer{core: newCore(capacity, strategy)}
	s.next.Val = sequence.Initial
	s.gate.Val = sequence.Initial
	return s
}

// Next reserves n contiguous sequences. Must only ever be called
// from one goroutine; the type provides no protection against a
// second writer.
func (s *SingleProducer) Next(n int64) (lo, hi int64) {
	next := s.next.Val + n
	wrapPoint := next - s.capacity
	if wrapPoint > s.gate.Val {
		s.gate.Val = s.claimWait(wrapPoint)
	}
	s.next.Val = next
	return next - n + 1, next
}

// Publish moves the cursor to hi with a single release store and
// wakes the wait strategy. Writes to slots [lo, hi] made before the
// call are visible to any consumer that observes the new cursor.
func (s *SingleProducer) Publish(lo, hi int64) {
	_ = lo
	s.cursor.Store(hi)
	s.strategy.Signal()
}

// Drain blocks until every gating sequence has caught up with the
// cursor, then closes the pipeline and signals one final time so
// parked consumers observe shutdown.
func (s *SingleProducer) Drain() {
	s.awaitConsumed(s.cursor.Load())
	s.Close()
}
