package audio

import (
	"fmt"
	"time"
)

// Chunk is one capture tick worth of mono samples.
// A Chunk is never modified after the device hands it out; each pipeline
// stage takes ownership in turn (capture, segment buffer, queue, writer).
type Chunk struct {
	Samples    []float32
	SampleRate int
}

// Len returns the number of samples in the chunk.
func (c Chunk) Len() int {
	return len(c.Samples)
}

// Duration returns the audio length of the chunk.
func (c Chunk) Duration() time.Duration {
	return SamplesDuration(len(c.Samples), c.SampleRate)
}

// String returns a human-readable representation for logging.
func (c Chunk) String() string {
	return fmt.Sprintf("chunk: %d samples @ %d Hz", len(c.Samples), c.SampleRate)
}

// SamplesDuration converts a sample count at sampleRate into a duration.
// Returns 0 for a non-positive sample rate.
func SamplesDuration(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(n) * int64(time.Second) / int64(sampleRate))
}

// DurationSamples converts d into a sample count at sampleRate,
// rounding to the nearest whole sample.
func DurationSamples(d time.Duration, sampleRate int) int {
	if d <= 0 || sampleRate <= 0 {
		return 0
	}
	ns := int64(d) * int64(sampleRate)
	return int((ns + int64(time.Second)/2) / int64(time.Second))
}
