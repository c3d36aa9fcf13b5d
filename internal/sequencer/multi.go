package sequencer

import (
	"sync/atomic"

	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequence"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/wait"
)

// MultiProducer coordinates any number of concurrently writing
// goroutines. A CAS loop claims ranges off a shared counter;
// publication marks per-slot lap flags and the cursor advances only
// through the longest contiguous published prefix, so a writer that
// finishes out of order never exposes an unwritten slot.
type MultiProducer struct {
	core
	claimed *sequence.Sequence // highest claimed, CAS-advanced
	gate    *sequence.Sequence // cached min(gating), shared by writers

	// available holds one lap counter per physical slot: slot i is
	// published for sequence s (where s&mask == i) once
	// available[i] == s>>shift. Flags start at -1, one lap before
	// sequence 0.
	available []atomic.Int32
	mask      int64
	shift     uint
}

// NewMultiProducer returns a multi-producer sequencer.
// capacity must be a positive power of two.
func NewMultiProducer(capacity int64, strategy wait.Strategy) *MultiProducer {
	m := &MultiProducer{
		core:      newCore(capacity, strategy),
		claimed:   sequence.New(),
		gate:      sequence.New(),
		available: make([]atomic.Int32, capacity),
		mask:      capacity - 1,
		shift:     log2(capacity),
	}
	for i := range m.available {
		m.available[i].Store(-1)
	}
	return m
}

// Next reserves n contiguous sequences. Safe for concurrent callers:
// each retries its CAS until it owns a disjoint range.
func (m *MultiProducer) Next(n int64) (lo, hi int64) {
	for {
		current := m.claimed.Load()
		next := current + n
		wrapPoint := next - m.capacity
		if wrapPoint > m.gate.Load() {
			m.gate.Store(m.claimWait(wrapPoint))
			continue
		}
		if m.claimed.CompareAndSwap(current, next) {
			return current + 1, next
		}
	}
}

// Publish marks [lo, hi] available and carries the cursor forward
// through the contiguous published prefix. A publisher whose range
// follows a still-unpublished gap leaves its flags set and lets
// whichever publisher closes the gap advance the cursor past both.
func (m *MultiProducer) Publish(lo, hi int64) {
	for seq := lo; seq <= hi; seq++ {
		m.available[seq&m.mask].Store(int32(seq >> m.shift))
	}
	for {
		current := m.cursor.Load()
		next := current
		for m.isAvailable(next + 1) {
			next++
		}
		if next == current {
			break
		}
		// Re-scan after every CAS attempt, won or lost: another
		// publisher may have extended the prefix meanwhile.
		m.cursor.CompareAndSwap(current, next)
	}
	m.strategy.Signal()
}

func (m *MultiProducer) isAvailable(seq int64) bool {
	return m.available[seq&m.mask].Load() == int32(seq>>m.shift)
}

// Drain blocks until every gating sequence has caught up with the
// highest claimed sequence, then closes the pipeline. Callers must
// first ensure all writers have published their claims.
func (m *MultiProducer) Drain() {
	m.awaitConsumed(m.claimed.Load())
	m.Close()
}

func log2(v int64) uint {
	var r uint
	for v > 1 {
		v >>= 1
		r++
	}
	return r
}
