package disruptor_test

import (
	"fmt"

	disruptor "github.com/deepcausality-rs/deep-causality-sub008"
)

type doubler struct{}

func (doubler) OnEventMut(event *int64, seq int64, endOfBatch bool) {
	*event *= 2
}

type summer struct {
	total int64
}

func (s *summer) OnEventMut(event *int64, seq int64, endOfBatch bool) {
	s.total += *event
}

// Two sequential stages: the first doubles every value in place, the
// second sums the doubled values.
func Example() {
	sum := &summer{}
	executor, producer, err := disruptor.NewBuilder[int64](8).
		WithSingleProducer().
		WithBarrier(disruptor.HandleEventsMut[int64](doubler{})).
		WithBarrier(disruptor.HandleEventsMut[int64](sum)).
		Build()
	if err != nil {
		panic(err)
	}

	handle := executor.Spawn()
	disruptor.WriteItems(producer, []int64{1, 2, 3}, func(event *int64, seq int64, item int64) {
		*event = item
	})
	producer.Drain()
	handle.Join()

	fmt.Println(sum.total)
	// Output: 12
}
