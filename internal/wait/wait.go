// Package wait provides the strategies a pipeline uses to wait for a
// sequence to become available: spinning for latency, blocking for
// CPU efficiency.
package wait

import (
	"runtime"
	"sync"

	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequence"
)

// Strategy blocks a caller until a set of dependency sequences has
// reached a target value.
//
// WaitFor returns (available, true) once min(deps) >= target, where
// available is the observed minimum and may exceed target. It returns
// (available, false) if done reports true while the minimum still
// falls short: the dependencies are final and the target will never
// be reached. Implementations must be safe against spurious wakeups
// by re-checking the minimum after every wake.
//
// INVARIANT: deps is non-empty.
type Strategy interface {
	WaitFor(target int64, deps []sequence.View, done func() bool) (available int64, ok bool)

	// Signal wakes every goroutine blocked in WaitFor. Strategies
	// that never sleep may treat it as a no-op.
	Signal()
}

const spinMask = (1 << 14) - 1

// Spinning busy-loops until the target is reached. Minimal latency,
// burns a core per waiter.
type Spinning struct {
	yield func(spins int)
}

// NewSpinning returns a spinning strategy. yield is called once per
// failed check with the number of checks so far; nil installs the
// default, which yields to the scheduler every 2^14 spins.
func NewSpinning(yield func(spins int)) *Spinning {
	if yield == nil {
		yield = func(spins int) {
			if spins&spinMask == 0 {
				runtime.Gosched()
			}
		}
	}
	return &Spinning{yield: yield}
}

func (s *Spinning) WaitFor(target int64, deps []sequence.View, done func() bool) (int64, bool) {
	for spins := 1; ; spins++ {
		available := sequence.Minimum(deps)
		if available >= target {
			return available, true
		}
		if done() {
			// A publish may have raced the shutdown flag.
			if available = sequence.Minimum(deps); available >= target {
				return available, true
			}
			return available, false
		}
		s.yield(spins)
	}
}

// Signal is a no-op: spinners notice progress on their own.
func (s *Spinning) Signal() {}

// Blocking parks waiters on a condition variable until Signal is
// called. Higher wakeup latency than Spinning, but idle waiters cost
// nothing.
type Blocking struct {
	mu   sync.Mutex
	cond *sync.Cond
}

// NewBlocking returns a blocking strategy.
func NewBlocking() *Blocking {
	b := &Blocking{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *Blocking) WaitFor(target int64, deps []sequence.View, done func() bool) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		available := sequence.Minimum(deps)
		if available >= target {
			return available, true
		}
		if done() {
			if available = sequence.Minimum(deps); available >= target {
				return available, true
			}
			return available, false
		}
		b.cond.Wait()
	}
}

// Signal wakes every parked waiter. Publishers call it after moving
// the cursor; processors call it after advancing their sequence so
// chained stages and a parked producer re-check their dependencies.
func (b *Blocking) Signal() {
	b.mu.Lock()
	b.cond.Broadcast()
	b.mu.Unlock()
}
