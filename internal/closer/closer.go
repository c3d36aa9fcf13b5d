// Package closer holds the shutdown flag shared by a pipeline's
// sequencer, barriers and event processors.
package closer

import "sync/atomic"

const (
	pipelineOpen   = 0
	pipelineClosed = 1
)

// Closer is the cooperative shutdown flag of one pipeline.
// Its zero value is the open state. Wait loops observe it at every
// suspension point and exit once it is closed and their upstream
// dependencies have been drained.
type Closer struct {
	state atomic.Int64
	_     [56]byte
}

// IsClosed reports whether the pipeline has been shut down.
func (c *Closer) IsClosed() bool {
	return c.state.Load() == pipelineClosed
}

// Close marks the pipeline as shut down. Idempotent.
func (c *Closer) Close() {
	c.state.Store(pipelineClosed)
}

// View is a read-only handle on shutdown state.
type View interface {
	IsClosed() bool
}

// Composite is closed once every member is closed. A consumer stage
// observes its upstream stage through one: only when every upstream
// processor has exited is the upstream sequence set final.
type Composite []View

// IsClosed reports whether all members are closed.
func (c Composite) IsClosed() bool {
	for _, v := range c {
		if !v.IsClosed() {
			return false
		}
	}
	return true
}
