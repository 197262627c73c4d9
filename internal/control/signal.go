// Package control carries the stop request from the operator to the capture loop.
package control

import "sync/atomic"

// Signal is a single-fire stop flag. Once fired it stays fired.
// The zero value is not usable; create one with NewSignal.
type Signal struct {
	fired atomic.Bool
	done  chan struct{}
}

// NewSignal returns an unfired Signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire requests a stop. Only the first call has an effect; it reports
// whether this call was the one that fired the signal.
func (s *Signal) Fire() bool {
	if !s.fired.CompareAndSwap(false, true) {
		return false
	}
	close(s.done)
	return true
}

// Fired reports whether a stop was requested, without blocking.
func (s *Signal) Fired() bool {
	return s.fired.Load()
}

// Done returns a channel closed when the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}
