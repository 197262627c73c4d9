package segment

import (
	"time"

	"github.com/alnah/go-segrec/internal/audio"
)

// Buffer holds the single open segment of a capture session.
// It is owned by the capture goroutine and is not safe for concurrent use.
type Buffer struct {
	prefix     string
	sampleRate int
	next       int // Index assigned to the open segment.
	captured   int // Samples captured before the open segment.
	open       *Segment
}

// NewBuffer creates a Buffer whose first segment gets index 0.
func NewBuffer(prefix string, sampleRate int) *Buffer {
	b := &Buffer{prefix: prefix, sampleRate: sampleRate}
	b.reset()
	return b
}

// reset opens a fresh segment at the current index.
func (b *Buffer) reset() {
	b.open = &Segment{
		Index:      b.next,
		Name:       FileName(b.prefix, b.next),
		SampleRate: b.sampleRate,
		Start:      audio.SamplesDuration(b.captured, b.sampleRate),
	}
}

// Append adds a chunk to the open segment.
func (b *Buffer) Append(c audio.Chunk) {
	b.open.Chunks = append(b.open.Chunks, c)
}

// Len returns the number of samples in the open segment.
func (b *Buffer) Len() int {
	return b.open.Len()
}

// Elapsed returns the audio captured since the last boundary.
func (b *Buffer) Elapsed() time.Duration {
	return b.open.Duration()
}

// Empty reports whether the open segment holds no samples.
func (b *Buffer) Empty() bool {
	return b.open.Empty()
}

// NextIndex returns the index the open segment will be written under.
func (b *Buffer) NextIndex() int {
	return b.next
}

// Close finalizes the open segment with reason, opens a fresh one under the
// next index, and returns the closed segment. The index advances even if the
// caller later discards the segment, so indices are never reused.
func (b *Buffer) Close(reason Reason) *Segment {
	closed := b.open
	closed.Reason = reason
	b.captured += closed.Len()
	b.next++
	b.reset()
	return closed
}
