package disruptor

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/deepcausality-rs/deep-causality-sub008/internal/processor"
)

// Executor runs a pipeline's event processors, one goroutine per
// handler.
type Executor[T any] struct {
	procs     []*processor.Processor[T]
	collector *Collector
	logger    *zap.Logger
	pipeline  string
	spawned   bool
}

// Spawn starts every processor on its own goroutine and returns a
// handle to wait on. Panics if called twice.
func (e *Executor[T]) Spawn() *JoinHandle {
	if e.spawned {
		panic("disruptor: Spawn() called twice")
	}
	e.spawned = true
	e.logger.Info("spawning event processors",
		zap.String("pipeline", e.pipeline),
		zap.Int("processors", len(e.procs)),
	)
	h := &JoinHandle{logger: e.logger, pipeline: e.pipeline}
	for _, p := range e.procs {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			p.Run()
		}()
	}
	return h
}

// MetricsCollector returns a prometheus.Collector exposing the
// pipeline's progress counters. Register it with any registry; it
// reads the atomic sequences at scrape time and costs the hot path
// nothing.
func (e *Executor[T]) MetricsCollector() prometheus.Collector {
	return e.collector
}

// JoinHandle waits for spawned processors to exit.
type JoinHandle struct {
	wg       sync.WaitGroup
	once     sync.Once
	logger   *zap.Logger
	pipeline string
}

// Join blocks until every processor has observed shutdown and
// returned. Safe to call from multiple goroutines.
func (h *JoinHandle) Join() {
	h.wg.Wait()
	h.once.Do(func() {
		h.logger.Info("event processors exited", zap.String("pipeline", h.pipeline))
	})
}
