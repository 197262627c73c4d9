// Package capture reads fixed-size ticks from an audio device, classifies
// them, and hands closed segments to the writer queue.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/alnah/go-segrec/internal/audio"
	"github.com/alnah/go-segrec/internal/config"
	"github.com/alnah/go-segrec/internal/control"
	"github.com/alnah/go-segrec/internal/metrics"
	"github.com/alnah/go-segrec/internal/segment"
)

// Stats summarizes a finished capture run.
type Stats struct {
	Chunks   int           // Ticks read from the device.
	Segments int           // Segments handed to the queue.
	Captured time.Duration // Audio read from the device.
}

// Loop is the producer side of a recording session.
// It owns the device stream, the open segment, and the boundary detector.
type Loop struct {
	device  audio.Device
	cfg     config.Recording
	signal  *control.Signal
	out     chan<- *segment.Segment
	logger  *slog.Logger
	metrics *metrics.Metrics

	state atomic.Int32
	stats Stats
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) {
		lp.logger = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(lp *Loop) {
		lp.metrics = m
	}
}

// New creates a Loop that reads from device and sends closed segments to out.
// cfg must already be validated. Run closes out when it returns.
func New(device audio.Device, cfg config.Recording, signal *control.Signal, out chan<- *segment.Segment, opts ...Option) *Loop {
	l := &Loop{
		device: device,
		cfg:    cfg,
		signal: signal,
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current lifecycle stage. Safe for concurrent use.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Stats returns the run counters. Only meaningful once Run has returned.
func (l *Loop) Stats() Stats {
	return l.stats
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
}

// Run records until the stop signal fires, ctx is done, the device reaches
// end of input, or a read fails.
//
// The stop condition is checked once per tick, before each read. After the
// loop ends no further reads happen: the stream is closed, the open segment
// (if it holds any audio) is enqueued once with ReasonFinal, and the queue is
// closed. Sending blocks while the queue is full.
//
// A read failure returns an error wrapping audio.ErrDeviceRead; end of input
// is a normal stop.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.out)
	defer l.setState(Stopped)

	rate := l.cfg.SampleRate
	stream, err := l.device.Open(rate)
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	defer func() { _ = stream.Close() }()

	chunkSamples := l.cfg.ChunkSamples()
	policy := l.cfg.Policy()
	buf := segment.NewBuffer(l.cfg.OutputPrefix, rate)
	det := segment.NewDetector(l.cfg.SilenceTicks(), l.cfg.MaxSamples())

	l.setState(Recording)
	l.logger.Info("recording started",
		"sample_rate", rate,
		"chunk_samples", chunkSamples,
		"silence_ticks", l.cfg.SilenceTicks(),
		"max_duration", l.cfg.MaxDuration)

	var runErr error
	for {
		if why := l.stopReason(ctx); why != "" {
			l.logger.Info("stop requested", "by", why)
			break
		}

		samples, err := stream.Read(chunkSamples)
		if len(samples) > 0 {
			l.tick(buf, det, policy, audio.Chunk{Samples: samples, SampleRate: rate})
		}
		if errors.Is(err, io.EOF) {
			l.logger.Info("end of input")
			break
		}
		if err != nil {
			l.logger.Error("device read failed", "error", err)
			runErr = fmt.Errorf("%w: %v", audio.ErrDeviceRead, err)
			break
		}
	}

	l.setState(Stopping)
	if err := stream.Close(); err != nil {
		l.logger.Warn("device close failed", "error", err)
	}
	if !buf.Empty() {
		l.enqueue(buf.Close(segment.ReasonFinal))
	}

	l.logger.Info("recording stopped",
		"segments", l.stats.Segments,
		"captured", l.stats.Captured)
	return runErr
}

// stopReason returns a non-empty description when the loop must stop.
func (l *Loop) stopReason(ctx context.Context) string {
	switch {
	case l.signal != nil && l.signal.Fired():
		return "signal"
	case ctx.Err() != nil:
		return "context"
	default:
		return ""
	}
}

// tick appends one chunk and applies the boundary rule.
func (l *Loop) tick(buf *segment.Buffer, det *segment.Detector, policy audio.SilencePolicy, c audio.Chunk) {
	buf.Append(c)
	silent := policy.IsSilent(c.Samples, c.SampleRate)

	l.stats.Chunks++
	l.stats.Captured += c.Duration()
	l.metrics.RecordChunk(c.Duration(), silent)

	decision := det.Observe(silent, buf.Len())
	if !decision.Flush() {
		return
	}
	l.enqueue(buf.Close(decision.Reason()))
	det.Reset()
}

// enqueue hands a closed segment to the writer.
func (l *Loop) enqueue(s *segment.Segment) {
	l.logger.Debug("segment closed",
		"segment", s.Name,
		"reason", s.Reason.String(),
		"duration", s.Duration())
	l.out <- s
	l.stats.Segments++
	l.metrics.RecordClosed(s.Reason.String())
	l.metrics.SetQueueDepth(len(l.out))
}
