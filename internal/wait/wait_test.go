package wait

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequence"
)

func never() bool { return false }

func TestSpinning_ReturnsOnceAvailable(t *testing.T) {
	dep := sequence.New()
	deps := []sequence.View{dep}
	s := NewSpinning(nil)

	done := make(chan int64)
	go func() {
		available, ok := s.WaitFor(3, deps, never)
		if !ok {
			t.Error("WaitFor returned ok = false, want true")
		}
		done <- available
	}()

	dep.Store(2) // not enough
	select {
	case available := <-done:
		t.Fatalf("WaitFor returned %d before the target was reached", available)
	case <-time.After(10 * time.Millisecond):
	}

	dep.Store(5)
	select {
	case available := <-done:
		if available < 3 {
			t.Fatalf("WaitFor returned %d, want >= 3", available)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not return after the dependency advanced")
	}
}

func TestSpinning_MinimumOfDependencies(t *testing.T) {
	a, b := sequence.New(), sequence.New()
	a.Store(9)
	b.Store(4)
	s := NewSpinning(nil)
	available, ok := s.WaitFor(2, []sequence.View{a, b}, never)
	if !ok || available != 4 {
		t.Fatalf("WaitFor = (%d, %v), want (4, true)", available, ok)
	}
}

func TestSpinning_ShutdownReturnsFalse(t *testing.T) {
	dep := sequence.New()
	s := NewSpinning(nil)
	available, ok := s.WaitFor(0, []sequence.View{dep}, func() bool { return true })
	if ok {
		t.Fatalf("WaitFor = (%d, true) on a closed pipeline with nothing available, want ok = false", available)
	}
}

func TestSpinning_ShutdownRaceRechecksMinimum(t *testing.T) {
	// A publish that lands together with the shutdown flag must
	// still be reported as available.
	dep := sequence.New()
	dep.Store(0)
	s := NewSpinning(nil)
	available, ok := s.WaitFor(0, []sequence.View{dep}, func() bool { return true })
	if !ok || available != 0 {
		t.Fatalf("WaitFor = (%d, %v), want (0, true)", available, ok)
	}
}

func TestSpinning_YieldInjection(t *testing.T) {
	dep := sequence.New()
	spinning := make(chan struct{}, 1)
	s := NewSpinning(func(spins int) {
		select {
		case spinning <- struct{}{}:
		default:
		}
	})
	go func() {
		// Unblock the waiter once we know it spun at least once.
		<-spinning
		dep.Store(0)
	}()
	available, ok := s.WaitFor(0, []sequence.View{dep}, never)
	if !ok || available != 0 {
		t.Fatalf("WaitFor = (%d, %v), want (0, true)", available, ok)
	}
}

func TestBlocking_WakesOnSignal(t *testing.T) {
	dep := sequence.New()
	deps := []sequence.View{dep}
	b := NewBlocking()

	done := make(chan int64)
	go func() {
		available, ok := b.WaitFor(0, deps, never)
		if !ok {
			t.Error("WaitFor returned ok = false, want true")
		}
		done <- available
	}()

	// Give the waiter time to park.
	time.Sleep(10 * time.Millisecond)
	dep.Store(0)
	b.Signal()

	select {
	case available := <-done:
		if available != 0 {
			t.Fatalf("WaitFor returned %d, want 0", available)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not wake on Signal")
	}
}

func TestBlocking_SpuriousSignalKeepsWaiting(t *testing.T) {
	dep := sequence.New()
	deps := []sequence.View{dep}
	b := NewBlocking()

	done := make(chan struct{})
	go func() {
		b.WaitFor(0, deps, never)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	b.Signal() // no progress: waiter must re-check and park again
	select {
	case <-done:
		t.Fatal("WaitFor returned without the target being reached")
	case <-time.After(10 * time.Millisecond):
	}

	dep.Store(0)
	b.Signal()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not return after progress plus Signal")
	}
}

func TestBlocking_ShutdownWake(t *testing.T) {
	dep := sequence.New()
	deps := []sequence.View{dep}
	b := NewBlocking()
	var closed atomic.Bool

	done := make(chan bool)
	go func() {
		_, ok := b.WaitFor(0, deps, closed.Load)
		done <- ok
	}()

	time.Sleep(10 * time.Millisecond)
	closed.Store(true)
	b.Signal()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("WaitFor = ok on shutdown with nothing available, want !ok")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitFor did not observe shutdown")
	}
}
