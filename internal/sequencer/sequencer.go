// Package sequencer implements the claim/publish protocol at the
// heart of a pipeline. A sequencer owns the published cursor and the
// gating sequences of the final consumer stage, and refuses to hand
// out a slot until its previous occupant has been consumed.
package sequencer

import (
	"runtime"

	"github.com/deepcausality-rs/deep-causality-sub008/internal/barrier"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/closer"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequence"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/wait"
)

// Sequencer coordinates producers with the slowest downstream
// consumer. Implementations never return errors: Next either blocks
// or succeeds, and Publish cannot fail.
type Sequencer interface {
	// Next reserves n contiguous sequences and returns the
	// inclusive range [lo, hi]. It blocks while the oldest slot
	// about to be overwritten has not yet been consumed by every
	// gating sequence.
	//
	// Panics if the pipeline is closed while blocked: the
	// consumers that would free the slot have already exited.
	Next(n int64) (lo, hi int64)

	// Publish makes the claimed range visible to consumers and
	// wakes the wait strategy. Callers must have fully written
	// every slot in [lo, hi] beforehand.
	Publish(lo, hi int64)

	// AddGating registers downstream progress counters that gate
	// Next. Must be called before the first claim.
	AddGating(views ...sequence.View)

	// NewBarrier returns a barrier bound to this sequencer's wait
	// strategy.
	NewBarrier(done closer.View, deps ...sequence.View) *barrier.SequenceBarrier

	// Cursor returns a read-only view of the published cursor.
	Cursor() sequence.View

	// Closed returns a read-only view of the shutdown flag.
	Closed() closer.View

	// Drain blocks until every gating sequence has caught up with
	// the last published sequence, then shuts the pipeline down.
	Drain()

	// Close shuts the pipeline down without waiting. Sequences
	// already published are still delivered before consumers exit.
	Close()
}

// core carries the state common to both producer modes.
type core struct {
	capacity int64
	strategy wait.Strategy
	cursor   *sequence.Sequence
	gating   []sequence.View
	closer   closer.Closer
}

func newCore(capacity int64, strategy wait.Strategy) core {
	return core{
		capacity: capacity,
		strategy: strategy,
		cursor:   sequence.New(),
	}
}

func (c *core) AddGating(views ...sequence.View) {
	c.gating = append(c.gating, views...)
}

func (c *core) NewBarrier(done closer.View, deps ...sequence.View) *barrier.SequenceBarrier {
	return barrier.New(c.strategy, done, deps...)
}

func (c *core) Cursor() sequence.View { return c.cursor }

func (c *core) Closed() closer.View { return &c.closer }

func (c *core) Close() {
	c.closer.Close()
	c.strategy.Signal()
}

// awaitConsumed polls until every gating sequence has reached last,
// signaling each round so parked consumers re-check and advance.
func (c *core) awaitConsumed(last int64) {
	for len(c.gating) > 0 && sequence.Minimum(c.gating) < last {
		c.strategy.Signal()
		runtime.Gosched()
	}
}

// claimWait blocks until min(gating) >= wrapPoint and returns the
// observed minimum, so the caller can cache it.
func (c *core) claimWait(wrapPoint int64) int64 {
	min, ok := c.strategy.WaitFor(wrapPoint, c.gating, c.closer.IsClosed)
	if !ok {
		panic("disruptor: sequence claim blocked on a closed pipeline")
	}
	return min
}
