package audio

import "time"

// Default silence classification parameters.
const (
	// DefaultSilenceThreshold is the mean absolute amplitude below which a
	// window counts as silence. Samples are normalized to [-1, 1].
	DefaultSilenceThreshold = 0.01

	// DefaultLookahead is the leading slice of a buffer inspected by the
	// classifier, whatever the buffer length.
	DefaultLookahead = 100 * time.Millisecond
)

// SilencePolicy decides whether a buffer of samples is silence.
//
// Only the first Lookahead worth of samples is inspected. The same policy is
// applied per chunk during capture and to the concatenated segment before it
// is written, so a segment whose leading slice is quiet is discarded even if
// it gets loud later.
type SilencePolicy struct {
	Threshold float64
	Lookahead time.Duration
}

// DefaultSilencePolicy returns the policy used when nothing is configured.
func DefaultSilencePolicy() SilencePolicy {
	return SilencePolicy{
		Threshold: DefaultSilenceThreshold,
		Lookahead: DefaultLookahead,
	}
}

// WindowSamples returns the number of leading samples inspected at sampleRate.
// The count is truncated toward zero.
func (p SilencePolicy) WindowSamples(sampleRate int) int {
	if p.Lookahead <= 0 || sampleRate <= 0 {
		return 0
	}
	return int(int64(sampleRate) * int64(p.Lookahead) / int64(time.Second))
}

// IsSilent reports whether the mean absolute amplitude of the leading
// lookahead window of samples is below the threshold.
// The comparison runs at sample precision (float32), so a window whose
// samples equal the threshold is not silent.
// Buffers shorter than the window are inspected whole, as is every buffer
// when the window rounds down to zero samples. An empty buffer is silent.
func (p SilencePolicy) IsSilent(samples []float32, sampleRate int) bool {
	window := samples
	if n := p.WindowSamples(sampleRate); n > 0 && n < len(window) {
		window = window[:n]
	}
	if len(window) == 0 {
		return true
	}
	return float32(meanAbs(window)) < float32(p.Threshold)
}

// IsSilent classifies samples with the default lookahead window.
func IsSilent(samples []float32, threshold float64, sampleRate int) bool {
	return SilencePolicy{Threshold: threshold, Lookahead: DefaultLookahead}.IsSilent(samples, sampleRate)
}

// meanAbs returns the mean of absolute sample values. window must be non-empty.
func meanAbs(window []float32) float64 {
	var sum float64
	for _, s := range window {
		if s < 0 {
			sum -= float64(s)
		} else {
			sum += float64(s)
		}
	}
	return sum / float64(len(window))
}
