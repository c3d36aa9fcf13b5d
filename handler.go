package disruptor

// EventHandler processes published events without mutating them.
// Handlers sharing a stage run concurrently over the same slots, so
// implementations must treat the event as read-only; mutating it
// here is a data race with the handler's stage-mates.
type EventHandler[T any] interface {
	// OnEvent is called once per published sequence. endOfBatch is
	// true exactly once per wait cycle, on the last event of the
	// currently available contiguous range, so side effects such
	// as flushes can be batched without per-event overhead.
	OnEvent(event *T, seq int64, endOfBatch bool)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc[T any] func(event *T, seq int64, endOfBatch bool)

func (f EventHandlerFunc[T]) OnEvent(event *T, seq int64, endOfBatch bool) {
	f(event, seq, endOfBatch)
}

// EventMutHandler transforms events in place, typically so a later
// stage observes the transformed value. A mutating handler must be
// the only handler of its stage; Build rejects any other
// arrangement.
type EventMutHandler[T any] interface {
	OnEventMut(event *T, seq int64, endOfBatch bool)
}

// EventMutHandlerFunc adapts a function to EventMutHandler.
type EventMutHandlerFunc[T any] func(event *T, seq int64, endOfBatch bool)

func (f EventMutHandlerFunc[T]) OnEventMut(event *T, seq int64, endOfBatch bool) {
	f(event, seq, endOfBatch)
}

// Handler is a handler registration accepted by WithBarrier.
// Construct one with HandleEvents or HandleEventsMut; the event type
// must match the pipeline's or Build fails with ErrHandlerType.
type Handler interface {
	implementHandler()
}

type eventsHandler[T any] struct {
	h EventHandler[T]
}

func (eventsHandler[T]) implementHandler() {}

// HandleEvents registers a read-only handler.
func HandleEvents[T any](h EventHandler[T]) Handler {
	return eventsHandler[T]{h}
}

type eventsMutHandler[T any] struct {
	h EventMutHandler[T]
}

func (eventsMutHandler[T]) implementHandler() {}

// HandleEventsMut registers a mutating handler.
func HandleEventsMut[T any](h EventMutHandler[T]) Handler {
	return eventsMutHandler[T]{h}
}
