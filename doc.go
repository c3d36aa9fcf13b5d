// Package disruptor implements a lock-free ring-buffer event
// pipeline in the style of the LMAX Disruptor.
//
// A producer claims a range of sequences, writes event payloads in
// place, and publishes the range with a single cursor update. Stages
// of event processors consume published sequences through barriers:
// the first stage gates on the producer's cursor, each later stage
// on the previous stage's progress, and the producer in turn gates
// on the final stage so a slot is never overwritten before every
// handler has seen it. All coordination happens through atomic
// sequence counters; the hot path takes no locks and allocates
// nothing.
package disruptor
