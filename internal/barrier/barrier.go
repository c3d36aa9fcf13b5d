// Package barrier provides the synchronization point a consumer
// stage waits on.
package barrier

import (
	"github.com/deepcausality-rs/deep-causality-sub008/internal/closer"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequence"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/wait"
)

// SequenceBarrier combines the pipeline's wait strategy with the set
// of upstream sequences a stage must not race ahead of. The first
// stage depends on the published cursor; stage k depends on the
// progress counters of every processor in stage k-1.
type SequenceBarrier struct {
	strategy wait.Strategy
	deps     []sequence.View
	done     closer.View
}

// New returns a barrier over deps. done tells the barrier when its
// dependencies have gone final: the pipeline closer for the first
// stage, the upstream processors' exit flags for later ones.
func New(strategy wait.Strategy, done closer.View, deps ...sequence.View) *SequenceBarrier {
	return &SequenceBarrier{strategy: strategy, deps: deps, done: done}
}

// WaitFor blocks until every dependency has reached next, returning
// the highest sequence available for processing. ok is false only on
// shutdown with nothing left to process.
func (b *SequenceBarrier) WaitFor(next int64) (available int64, ok bool) {
	return b.strategy.WaitFor(next, b.deps, b.done.IsClosed)
}

// Signal wakes waiters parked on the pipeline's wait strategy.
// Processors call it after advancing so chained stages and a blocked
// producer re-check their dependencies.
func (b *SequenceBarrier) Signal() {
	b.strategy.Signal()
}
