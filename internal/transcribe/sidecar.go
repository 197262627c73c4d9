package transcribe

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-segrec/internal/metrics"
	"github.com/alnah/go-segrec/internal/writer"
)

// Sidecar defaults.
const (
	DefaultBacklog  = 16
	DefaultParallel = 2
)

// Sidecar transcribes saved segments in the background and writes each
// transcript next to its audio file ("output_3.wav" -> "output_3.txt").
//
// Submit never blocks: when the backlog is full the segment is skipped and
// counted as dropped. Audio is never held back for transcription.
type Sidecar struct {
	t        Transcriber
	opts     Options
	parallel int
	logger   *slog.Logger
	metrics  *metrics.Metrics
	jobs     chan writer.Saved
}

// SidecarOption configures a Sidecar.
type SidecarOption func(*Sidecar)

// WithSidecarLogger sets the logger. Defaults to a discarding logger.
func WithSidecarLogger(l *slog.Logger) SidecarOption {
	return func(s *Sidecar) {
		s.logger = l
	}
}

// WithSidecarMetrics sets the metrics sink.
func WithSidecarMetrics(m *metrics.Metrics) SidecarOption {
	return func(s *Sidecar) {
		s.metrics = m
	}
}

// WithBacklog sets how many saved segments may wait for transcription.
func WithBacklog(n int) SidecarOption {
	return func(s *Sidecar) {
		if n > 0 {
			s.jobs = make(chan writer.Saved, n)
		}
	}
}

// WithParallel sets the number of concurrent API requests.
func WithParallel(n int) SidecarOption {
	return func(s *Sidecar) {
		if n > 0 {
			s.parallel = n
		}
	}
}

// NewSidecar creates a Sidecar using t with opts for every request.
func NewSidecar(t Transcriber, opts Options, sopts ...SidecarOption) *Sidecar {
	s := &Sidecar{
		t:        t,
		opts:     opts,
		parallel: DefaultParallel,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		jobs:     make(chan writer.Saved, DefaultBacklog),
	}
	for _, opt := range sopts {
		opt(s)
	}
	return s
}

// Submit queues a saved segment for transcription without blocking.
// Reports whether the segment was accepted. Must not be called after Close.
func (s *Sidecar) Submit(saved writer.Saved) bool {
	select {
	case s.jobs <- saved:
		return true
	default:
		s.logger.Warn("transcription backlog full, skipping", "segment", saved.Name)
		s.metrics.RecordTranscriptionDropped()
		return false
	}
}

// Close signals that no more segments will be submitted.
func (s *Sidecar) Close() {
	close(s.jobs)
}

// Run transcribes submitted segments until Close is called and the backlog
// is drained. Per-segment failures are logged; Run only returns ctx.Err()
// when ctx ends before the backlog is drained.
func (s *Sidecar) Run(ctx context.Context) error {
	var g errgroup.Group
	g.SetLimit(s.parallel)

	for {
		select {
		case <-ctx.Done():
			_ = g.Wait()
			return ctx.Err()
		case saved, ok := <-s.jobs:
			if !ok {
				return g.Wait()
			}
			g.Go(func() error {
				s.transcribe(ctx, saved)
				return nil
			})
		}
	}
}

func (s *Sidecar) transcribe(ctx context.Context, saved writer.Saved) {
	text, err := s.t.Transcribe(ctx, saved.Path, s.opts)
	s.metrics.RecordTranscription(err)
	if err != nil {
		s.logger.Error("transcription failed", "segment", saved.Name, "error", err)
		return
	}

	out := TranscriptPath(saved.Path)
	// #nosec G306 -- transcript sits next to the user's recording
	if err := os.WriteFile(out, []byte(text+"\n"), 0644); err != nil {
		s.logger.Error("transcript write failed", "path", out, "error", err)
		return
	}
	s.logger.Info("transcript saved", "segment", saved.Name, "path", out)
}

// TranscriptPath returns the text file path for a WAV path.
func TranscriptPath(wavPath string) string {
	return strings.TrimSuffix(wavPath, ".wav") + ".txt"
}
