package disruptor

import (
	"go.uber.org/zap"

	"github.com/deepcausality-rs/deep-causality-sub008/internal/closer"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/ringbuffer"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequencer"
)

// Producer writes events into a pipeline. In single-producer mode
// exactly one goroutine may call its write methods; in multi-producer
// mode any number may, concurrently.
type Producer[T any] struct {
	seq      sequencer.Sequencer
	ring     *ringbuffer.RingBuffer[T]
	closed   closer.View
	logger   *zap.Logger
	pipeline string
}

// Write claims one slot, fills it in place and publishes it.
// Blocks while the ring buffer is full.
// Panics if called after Close or Drain.
func (p *Producer[T]) Write(fill func(event *T)) {
	if p.closed.IsClosed() {
		panic("disruptor: Write() called after Close() was called")
	}
	lo, hi := p.seq.Next(1)
	fill(p.ring.Get(lo))
	p.seq.Publish(lo, hi)
}

// WriteBatch claims n slots, fills each in place and publishes the
// whole range with a single cursor update and a single wakeup. fill
// receives the slot, its sequence, and the offset within the batch.
// Blocks while fewer than n slots are free.
// Panics if called after Close or Drain.
func (p *Producer[T]) WriteBatch(n int64, fill func(event *T, seq int64, offset int64)) {
	if n <= 0 {
		return
	}
	if p.closed.IsClosed() {
		panic("disruptor: WriteBatch() called after Close() was called")
	}
	lo, hi := p.seq.Next(n)
	for seq := lo; seq <= hi; seq++ {
		fill(p.ring.Get(seq), seq, seq-lo)
	}
	p.seq.Publish(lo, hi)
}

// WriteItems publishes one event per item as a single batch: one
// claim, len(items) fills, one publish. It is a package function
// because Go methods cannot introduce the item type parameter.
func WriteItems[T, U any](p *Producer[T], items []U, fill func(event *T, seq int64, item U)) {
	if len(items) == 0 {
		return
	}
	p.WriteBatch(int64(len(items)), func(event *T, seq int64, offset int64) {
		fill(event, seq, items[offset])
	})
}

// Drain blocks until every published event has been processed by
// every handler, then shuts the pipeline down so processors exit.
func (p *Producer[T]) Drain() {
	p.logger.Info("draining pipeline", zap.String("pipeline", p.pipeline))
	p.seq.Drain()
}

// Close shuts the pipeline down without waiting for consumers.
// Events already published are still delivered before processors
// exit; Drain is the variant that waits for that delivery.
func (p *Producer[T]) Close() {
	p.logger.Info("closing pipeline", zap.String("pipeline", p.pipeline))
	p.seq.Close()
}
