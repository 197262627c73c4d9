// Package writer drains closed segments and persists the non-silent ones.
package writer

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-segrec/internal/audio"
	"github.com/alnah/go-segrec/internal/metrics"
	"github.com/alnah/go-segrec/internal/segment"
)

// Store persists a buffer of mono samples at path.
type Store interface {
	Write(path string, samples []float32, sampleRate int) error
}

// Saved describes a segment that reached disk.
type Saved struct {
	Index    int
	Name     string
	Path     string
	Duration time.Duration
	Reason   segment.Reason
}

// Stats counts writer outcomes.
type Stats struct {
	Written   int
	Discarded int
	Failed    int
}

// Total returns the number of segments the writer consumed.
func (s Stats) Total() int {
	return s.Written + s.Discarded + s.Failed
}

// Writer consumes segments in FIFO order.
// A segment whose leading lookahead window is silent is discarded; others
// are written to dir under the segment's name. Write failures are logged and
// counted, never fatal.
type Writer struct {
	store   Store
	dir     string
	policy  audio.SilencePolicy
	logger  *slog.Logger
	metrics *metrics.Metrics
	onSaved func(Saved)

	mu    sync.Mutex
	stats Stats
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		w.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Writer) {
		w.metrics = m
	}
}

// WithOnSaved registers a hook called, on the writer goroutine, after each
// successful write. The hook must not block.
func WithOnSaved(fn func(Saved)) Option {
	return func(w *Writer) {
		w.onSaved = fn
	}
}

// New creates a Writer storing files in dir.
func New(store Store, dir string, policy audio.SilencePolicy, opts ...Option) *Writer {
	w := &Writer{
		store:  store,
		dir:    dir,
		policy: policy,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run handles segments until in is closed, then returns nil.
// If ctx is done first, Run stops without draining and returns ctx.Err().
func (w *Writer) Run(ctx context.Context, in <-chan *segment.Segment) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case seg, ok := <-in:
			if !ok {
				return nil
			}
			w.metrics.SetQueueDepth(len(in))
			w.handle(seg)
		}
	}
}

// Stats returns a snapshot of the outcome counters.
func (w *Writer) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Writer) handle(seg *segment.Segment) {
	samples := seg.Samples()
	log := w.logger.With("segment", seg.Name, "reason", seg.Reason.String())

	if w.policy.IsSilent(samples, seg.SampleRate) {
		log.Debug("segment discarded as silence", "duration", seg.Duration())
		w.count(func(s *Stats) { s.Discarded++ })
		w.metrics.RecordDiscarded()
		return
	}

	path := filepath.Join(w.dir, seg.Name)
	if err := w.store.Write(path, samples, seg.SampleRate); err != nil {
		log.Error("segment write failed", "path", path, "error", err)
		w.count(func(s *Stats) { s.Failed++ })
		w.metrics.RecordWriteFailure()
		return
	}

	saved := Saved{
		Index:    seg.Index,
		Name:     seg.Name,
		Path:     path,
		Duration: seg.Duration(),
		Reason:   seg.Reason,
	}
	log.Info("segment saved", "path", path, "duration", saved.Duration)
	w.count(func(s *Stats) { s.Written++ })
	w.metrics.RecordWritten(saved.Duration)

	if w.onSaved != nil {
		w.onSaved(saved)
	}
}

func (w *Writer) count(fn func(*Stats)) {
	w.mu.Lock()
	fn(&w.stats)
	w.mu.Unlock()
}
