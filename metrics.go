package disruptor

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/deepcausality-rs/deep-causality-sub008/internal/sequence"
)

var (
	cursorDesc = prometheus.NewDesc(
		"disruptor_cursor_sequence",
		"Highest published sequence of the pipeline.",
		[]string{"pipeline"}, nil,
	)
	handlerDesc = prometheus.NewDesc(
		"disruptor_handler_sequence",
		"Highest sequence processed by one handler.",
		[]string{"pipeline", "stage", "handler"}, nil,
	)
	capacityDesc = prometheus.NewDesc(
		"disruptor_capacity_slots",
		"Ring buffer capacity in slots.",
		[]string{"pipeline"}, nil,
	)
	backlogDesc = prometheus.NewDesc(
		"disruptor_backlog_events",
		"Published events not yet processed by the slowest handler of the final stage.",
		[]string{"pipeline"}, nil,
	)
)

// Collector exposes a pipeline's sequence counters as Prometheus
// gauges. Values are read from the shared atomics at scrape time;
// instrumenting a pipeline adds no work to the event path.
type Collector struct {
	pipeline string
	capacity int64
	cursor   sequence.View
	stages   [][]sequence.View
	final    []sequence.View
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cursorDesc
	ch <- handlerDesc
	ch <- capacityDesc
	ch <- backlogDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	cursor := c.cursor.Load()
	ch <- prometheus.MustNewConstMetric(cursorDesc, prometheus.GaugeValue,
		float64(cursor), c.pipeline)
	ch <- prometheus.MustNewConstMetric(capacityDesc, prometheus.GaugeValue,
		float64(c.capacity), c.pipeline)
	for i, stage := range c.stages {
		for j, view := range stage {
			ch <- prometheus.MustNewConstMetric(handlerDesc, prometheus.GaugeValue,
				float64(view.Load()), c.pipeline, strconv.Itoa(i), strconv.Itoa(j))
		}
	}
	backlog := cursor - sequence.Minimum(c.final)
	ch <- prometheus.MustNewConstMetric(backlogDesc, prometheus.GaugeValue,
		float64(backlog), c.pipeline)
}
