package segment

import "fmt"

// Decision is the per-tick boundary outcome.
type Decision int

const (
	// Continue keeps appending to the open segment.
	Continue Decision = iota
	// FlushSilence closes the segment after the silence timeout.
	FlushSilence
	// FlushMaxDuration closes the segment at the maximum duration.
	FlushMaxDuration
)

// String returns the string representation of the Decision.
func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case FlushSilence:
		return "flush(silence)"
	case FlushMaxDuration:
		return "flush(max-duration)"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Flush reports whether the decision closes the segment.
func (d Decision) Flush() bool {
	return d != Continue
}

// Reason maps a flush decision to the segment close reason.
// Returns 0 for Continue.
func (d Decision) Reason() Reason {
	switch d {
	case FlushSilence:
		return ReasonSilence
	case FlushMaxDuration:
		return ReasonMaxDuration
	default:
		return 0
	}
}

// Detector counts consecutive silent ticks and compares the open segment's
// sample count against the maximum.
// It is owned by the capture goroutine and is not safe for concurrent use.
type Detector struct {
	silentLimit int
	maxSamples  int
	silentTicks int
}

// NewDetector creates a Detector that flushes after silentLimit consecutive
// silent ticks or once maxSamples samples have accumulated.
// Limits below 1 are treated as 1.
func NewDetector(silentLimit, maxSamples int) *Detector {
	return &Detector{
		silentLimit: max(silentLimit, 1),
		maxSamples:  max(maxSamples, 1),
	}
}

// SilentTicks returns the current run of consecutive silent ticks.
func (d *Detector) SilentTicks() int {
	return d.silentTicks
}

// Observe records one tick and returns the boundary decision.
// samples is the length of the open segment, this tick included.
// When both conditions hold, silence wins.
func (d *Detector) Observe(silent bool, samples int) Decision {
	if silent {
		d.silentTicks++
	} else {
		d.silentTicks = 0
	}

	switch {
	case d.silentTicks >= d.silentLimit:
		return FlushSilence
	case samples >= d.maxSamples:
		return FlushMaxDuration
	default:
		return Continue
	}
}

// Reset clears the silent tick counter after a boundary.
func (d *Detector) Reset() {
	d.silentTicks = 0
}
