// Package processor drives one event handler over the published
// sequence stream.
package processor

import (
	"github.com/deepcausality-rs/deep-causality-sub008/internal/barrier"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/closer"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/ringbuffer"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequence"
)

// Processor owns one handler's progress through the pipeline: wait
// on the stage barrier, process the available batch, advance the own
// sequence, repeat. The sequence it advances is what downstream
// stages (and ultimately the producer's backpressure check) gate on.
type Processor[T any] struct {
	ring *ringbuffer.RingBuffer[T]
	bar  *barrier.SequenceBarrier
	fn   func(event *T, seq int64, endOfBatch bool)

	_      [64]byte
	seq    *sequence.Sequence
	closer closer.Closer
}

// New returns a processor plus the progress counter and exit flag it
// exposes to downstream dependents.
func New[T any](ring *ringbuffer.RingBuffer[T], bar *barrier.SequenceBarrier, fn func(event *T, seq int64, endOfBatch bool)) (*Processor[T], sequence.View, closer.View) {
	p := &Processor[T]{
		ring: ring,
		bar:  bar,
		fn:   fn,
		seq:  sequence.New(),
	}
	return p, p.seq, &p.closer
}

// Run processes events until the barrier reports shutdown with
// nothing left, then marks this processor exited and signals so
// downstream stages re-check their own barriers. Blocks; callers run
// it on a dedicated goroutine.
//
// The sequence store after each batch is what makes the producer's
// backpressure sound: it happens after every handler invocation for
// the batch, so a slot is never recycled mid-processing.
func (p *Processor[T]) Run() {
	defer func() {
		p.closer.Close()
		p.bar.Signal()
	}()
	current := p.seq.Load()
	for {
		available, ok := p.bar.WaitFor(current + 1)
		if !ok {
			return
		}
		for seq := current + 1; seq <= available; seq++ {
			p.fn(p.ring.Get(seq), seq, seq == available)
		}
		p.seq.Store(available)
		p.bar.Signal()
		current = available
	}
}
