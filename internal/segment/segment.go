// Package segment accumulates captured chunks into numbered segments and
// decides where one segment ends and the next begins.
package segment

import (
	"fmt"
	"time"

	"github.com/alnah/go-segrec/internal/audio"
)

// Reason records why a segment was closed.
type Reason int

const (
	// ReasonSilence means the silence timeout elapsed.
	ReasonSilence Reason = iota + 1
	// ReasonMaxDuration means the segment reached the maximum duration.
	ReasonMaxDuration
	// ReasonFinal means the session stopped with audio still buffered.
	ReasonFinal
)

// String returns the string representation of the Reason.
func (r Reason) String() string {
	switch r {
	case ReasonSilence:
		return "silence"
	case ReasonMaxDuration:
		return "max-duration"
	case ReasonFinal:
		return "final"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Segment is an ordered run of chunks destined for at most one file.
type Segment struct {
	Index      int           // Zero-based, unique within a session.
	Name       string        // Output file name, e.g. "output_3.wav".
	SampleRate int           // Sample rate shared by every chunk.
	Start      time.Duration // Offset of the first sample from session start.
	Reason     Reason        // Zero while the segment is open.
	Chunks     []audio.Chunk
}

// FileName returns the output file name for the segment at index.
func FileName(prefix string, index int) string {
	return fmt.Sprintf("%s_%d.wav", prefix, index)
}

// Empty reports whether the segment holds no samples.
func (s *Segment) Empty() bool {
	return s.Len() == 0
}

// Len returns the total number of samples across all chunks.
func (s *Segment) Len() int {
	n := 0
	for _, c := range s.Chunks {
		n += c.Len()
	}
	return n
}

// Duration returns the audio length of the segment.
func (s *Segment) Duration() time.Duration {
	return audio.SamplesDuration(s.Len(), s.SampleRate)
}

// Samples concatenates all chunks into one contiguous buffer.
func (s *Segment) Samples() []float32 {
	out := make([]float32, 0, s.Len())
	for _, c := range s.Chunks {
		out = append(out, c.Samples...)
	}
	return out
}

// String returns a human-readable representation for logging.
func (s *Segment) String() string {
	return fmt.Sprintf("segment %d (%s): %s", s.Index, s.Name, s.Duration())
}
