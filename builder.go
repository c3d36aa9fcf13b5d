package disruptor

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deepcausality-rs/deep-causality-sub008/internal/closer"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/processor"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/ringbuffer"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequence"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequencer"
	"github.com/deepcausality-rs/deep-causality-sub008/internal/wait"
)

var (
	// ErrCapacity is the error corresponding to wrong capacity.
	ErrCapacity = fmt.Errorf("capacity must be a positive power of two")

	// ErrMissingBarrier is the error corresponding to a pipeline
	// with no barrier.
	ErrMissingBarrier = fmt.Errorf("missing barrier(s)")

	// ErrEmptyBarrier is the error corresponding to a barrier with
	// no handlers.
	ErrEmptyBarrier = fmt.Errorf("barrier has no handlers")

	// ErrHandlerType is the error corresponding to a handler whose
	// event type differs from the pipeline's.
	ErrHandlerType = fmt.Errorf("handler event type does not match pipeline event type")

	// ErrSharedMutHandler is the error corresponding to a mutating
	// handler sharing a barrier with other handlers.
	ErrSharedMutHandler = fmt.Errorf("mutating handler must be the only handler of its barrier")

	// ErrProducerMode is the error corresponding to an unknown
	// producer mode.
	ErrProducerMode = fmt.Errorf("unknown producer mode")

	// ErrWaitStrategy is the error corresponding to an unknown wait
	// strategy.
	ErrWaitStrategy = fmt.Errorf("unknown wait strategy")
)

type producerMode int

const (
	singleProducer producerMode = iota
	multiProducer
)

type waitMode int

const (
	spinWait waitMode = iota
	blockingWait
)

// Builder assembles a pipeline: ring buffer, sequencer, stages of
// event processors and the barriers wiring them together.
type Builder[T any] struct {
	capacity  int64
	name      string
	producer  producerMode
	wait      waitMode
	spinYield func(spins int)
	stages    [][]Handler
	logger    *zap.Logger
	err       error
}

// NewBuilder returns a builder of a pipeline whose ring buffer holds
// capacity events of type T.
func NewBuilder[T any](capacity int64) *Builder[T] {
	return &Builder[T]{capacity: capacity, name: "disruptor"}
}

// WithName sets the pipeline name carried in logs and metrics.
func (b *Builder[T]) WithName(name string) *Builder[T] {
	b.name = name
	return b
}

// WithSingleProducer restricts writing to a single goroutine. This
// is the default; claims are plain adds with no CAS.
func (b *Builder[T]) WithSingleProducer() *Builder[T] {
	b.producer = singleProducer
	return b
}

// WithMultiProducer allows any number of concurrently writing
// goroutines.
func (b *Builder[T]) WithMultiProducer() *Builder[T] {
	b.producer = multiProducer
	return b
}

// WithSpinWait makes consumers and the producer's backpressure check
// busy-loop. This is the default: lowest latency, one busy core per
// waiter.
func (b *Builder[T]) WithSpinWait() *Builder[T] {
	b.wait = spinWait
	return b
}

// WithBlockingWait parks waiters on a condition variable instead of
// spinning.
func (b *Builder[T]) WithBlockingWait() *Builder[T] {
	b.wait = blockingWait
	return b
}

// WithSpinYield overrides how the spin wait strategy yields. yield
// receives the number of failed checks so far in the current wait.
func (b *Builder[T]) WithSpinYield(yield func(spins int)) *Builder[T] {
	b.spinYield = yield
	return b
}

// WithBarrier appends one pipeline stage holding the given handlers.
// The first barrier's handlers consume directly behind the producer;
// every later barrier's handlers consume behind the handlers of the
// previously added barrier. Handlers of the same barrier share the
// wait but process every event independently, each on its own
// goroutine.
func (b *Builder[T]) WithBarrier(handlers ...Handler) *Builder[T] {
	b.stages = append(b.stages, handlers)
	return b
}

// WithLogger sets the logger for pipeline lifecycle events. The
// default discards everything. Nothing is ever logged per event.
func (b *Builder[T]) WithLogger(logger *zap.Logger) *Builder[T] {
	b.logger = logger
	return b
}

// Build validates the configuration and wires the pipeline. Every
// stage's gating sequence is wired automatically, so a configuration
// that builds cannot starve the producer by construction.
func (b *Builder[T]) Build() (*Executor[T], *Producer[T], error) {
	if err := b.validate(); err != nil {
		return nil, nil, err
	}
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ring, err := ringbuffer.New[T](b.capacity)
	if err != nil {
		return nil, nil, ErrCapacity
	}
	var strategy wait.Strategy
	switch b.wait {
	case blockingWait:
		strategy = wait.NewBlocking()
	default:
		strategy = wait.NewSpinning(b.spinYield)
	}
	var seq sequencer.Sequencer
	switch b.producer {
	case multiProducer:
		seq = sequencer.NewMultiProducer(b.capacity, strategy)
	default:
		seq = sequencer.NewSingleProducer(b.capacity, strategy)
	}
	procs, stageViews := b.wireStages(seq, ring)
	final := stageViews[len(stageViews)-1]
	seq.AddGating(final...)

	id := uuid.NewString()
	logger.Info("pipeline assembled",
		zap.String("pipeline", b.name),
		zap.String("id", id),
		zap.Int64("capacity", b.capacity),
		zap.Int("stages", len(b.stages)),
		zap.Int("processors", len(procs)),
	)
	e := &Executor[T]{
		procs:    procs,
		logger:   logger,
		pipeline: b.name,
		collector: &Collector{
			pipeline: b.name,
			capacity: b.capacity,
			cursor:   seq.Cursor(),
			stages:   stageViews,
			final:    final,
		},
	}
	p := &Producer[T]{
		seq:      seq,
		ring:     ring,
		closed:   seq.Closed(),
		logger:   logger,
		pipeline: b.name,
	}
	return e, p, nil
}

func (b *Builder[T]) validate() error {
	if b.err != nil {
		return b.err
	}
	if b.capacity <= 0 || b.capacity&(b.capacity-1) != 0 {
		return ErrCapacity
	}
	if len(b.stages) == 0 {
		return ErrMissingBarrier
	}
	for _, stage := range b.stages {
		if len(stage) == 0 {
			return ErrEmptyBarrier
		}
		for _, h := range stage {
			_, mut, err := handlerFunc[T](h)
			if err != nil {
				return err
			}
			if mut && len(stage) > 1 {
				return ErrSharedMutHandler
			}
		}
	}
	return nil
}

// wireStages builds the stage DAG: the first stage's barrier depends
// on the cursor and the pipeline closer, stage k's barrier on stage
// k-1's sequences and exit flags. Returns the processors plus each
// stage's sequence views; the caller gates the sequencer on the last
// stage's views.
func (b *Builder[T]) wireStages(seq sequencer.Sequencer, ring *ringbuffer.RingBuffer[T]) ([]*processor.Processor[T], [][]sequence.View) {
	var procs []*processor.Processor[T]
	var stageViews [][]sequence.View
	upstream := []sequence.View{seq.Cursor()}
	upstreamDone := seq.Closed()
	for _, stage := range b.stages {
		bar := seq.NewBarrier(upstreamDone, upstream...)
		var views []sequence.View
		var done closer.Composite
		for _, h := range stage {
			fn, _, _ := handlerFunc[T](h) // validated
			p, view, exit := processor.New(ring, bar, fn)
			procs = append(procs, p)
			views = append(views, view)
			done = append(done, exit)
		}
		upstream = views
		if len(done) == 1 {
			upstreamDone = done[0]
		} else {
			upstreamDone = done
		}
		stageViews = append(stageViews, views)
	}
	return procs, stageViews
}

// handlerFunc unwraps a registration into the processor callback,
// reporting whether the handler mutates events. A registration built
// for a different event type fails with ErrHandlerType.
func handlerFunc[T any](h Handler) (func(*T, int64, bool), bool, error) {
	switch x := h.(type) {
	case eventsHandler[T]:
		return x.h.OnEvent, false, nil
	case eventsMutHandler[T]:
		return x.h.OnEventMut, true, nil
	default:
		return nil, false, ErrHandlerType
	}
}
