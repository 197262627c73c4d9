// Package session runs one recording session: capture, segment writing,
// the stdin control channel, and the optional transcription and metrics
// workers.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-segrec/internal/audio"
	"github.com/alnah/go-segrec/internal/capture"
	"github.com/alnah/go-segrec/internal/config"
	"github.com/alnah/go-segrec/internal/control"
	"github.com/alnah/go-segrec/internal/format"
	"github.com/alnah/go-segrec/internal/metrics"
	"github.com/alnah/go-segrec/internal/segment"
	"github.com/alnah/go-segrec/internal/storage"
	"github.com/alnah/go-segrec/internal/transcribe"
	"github.com/alnah/go-segrec/internal/writer"
)

// Deps holds the collaborators of a session. Only Device is required.
type Deps struct {
	Device audio.Device

	// Store persists kept segments. Defaults to storage.NewWAVStore().
	Store writer.Store

	// Control is read line by line for the exit command. Nil disables it.
	Control io.Reader

	// Signal stops capture when fired. Created when nil; pass one in to
	// share it with an interrupt handler.
	Signal *control.Signal

	// Sidecar, when set, receives every saved segment for transcription.
	Sidecar *transcribe.Sidecar

	// Metrics collects session counters. MetricsAddr, when set, exposes them
	// over HTTP for the duration of the session.
	Metrics     *metrics.Metrics
	MetricsAddr string

	Logger *slog.Logger
}

// Summary reports what a session produced.
type Summary struct {
	ID        string
	Chunks    int
	Enqueued  int
	Written   int
	Discarded int
	Failed    int
	Captured  time.Duration
}

// String renders the summary as a single line for the terminal.
func (s Summary) String() string {
	return fmt.Sprintf("%s captured, %s (%d saved, %d discarded, %d failed)",
		format.Duration(s.Captured),
		format.Count(s.Enqueued, "segment"),
		s.Written, s.Discarded, s.Failed)
}

// Run records with cfg until the signal fires, ctx is done, or the device
// ends, then waits until every closed segment has been written.
//
// cfg is validated and the output directory ensured before any worker
// starts. Cancelling ctx stops capture but not the writer: segments already
// closed are still persisted. The returned Summary is valid even when an
// error is returned after capture started.
func Run(ctx context.Context, cfg config.Recording, deps Deps) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	if deps.Device == nil {
		return Summary{}, fmt.Errorf("no capture device: %w", audio.ErrNoAudioDevice)
	}
	if err := config.EnsureOutputDir(cfg.OutputDir); err != nil {
		return Summary{}, fmt.Errorf("output directory: %w", err)
	}

	id := uuid.NewString()
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("session", id)

	store := deps.Store
	if store == nil {
		store = storage.NewWAVStore()
	}
	sig := deps.Signal
	if sig == nil {
		sig = control.NewSignal()
	}

	queue := make(chan *segment.Segment, cfg.QueueSize)

	writerOpts := []writer.Option{
		writer.WithLogger(logger),
		writer.WithMetrics(deps.Metrics),
	}
	if deps.Sidecar != nil {
		writerOpts = append(writerOpts, writer.WithOnSaved(func(s writer.Saved) {
			deps.Sidecar.Submit(s)
		}))
	}
	w := writer.New(store, cfg.OutputDir, cfg.Policy(), writerOpts...)

	// Draining workers outlive ctx; auxiliary ones stop with capture.
	drainCtx := context.WithoutCancel(ctx)
	auxCtx, stopAux := context.WithCancel(ctx)
	defer stopAux()

	var g errgroup.Group
	g.Go(func() error {
		err := w.Run(drainCtx, queue)
		if deps.Sidecar != nil {
			deps.Sidecar.Close()
		}
		return err
	})
	if deps.Sidecar != nil {
		g.Go(func() error {
			return deps.Sidecar.Run(drainCtx)
		})
	}
	if deps.Control != nil {
		listener := control.NewListener(deps.Control, sig, logger)
		g.Go(func() error {
			return listener.Run(auxCtx)
		})
	}
	if deps.MetricsAddr != "" && deps.Metrics != nil {
		g.Go(func() error {
			if err := metrics.Serve(auxCtx, deps.MetricsAddr, deps.Metrics, logger); err != nil {
				logger.Warn("metrics endpoint unavailable", "error", err)
			}
			return nil
		})
	}

	loop := capture.New(deps.Device, cfg, sig, queue,
		capture.WithLogger(logger),
		capture.WithMetrics(deps.Metrics))
	captureErr := loop.Run(ctx)

	stopAux()
	waitErr := g.Wait()

	cs := loop.Stats()
	ws := w.Stats()
	summary := Summary{
		ID:        id,
		Chunks:    cs.Chunks,
		Enqueued:  cs.Segments,
		Written:   ws.Written,
		Discarded: ws.Discarded,
		Failed:    ws.Failed,
		Captured:  cs.Captured,
	}
	logger.Info("session finished",
		"segments", summary.Enqueued,
		"written", summary.Written,
		"discarded", summary.Discarded,
		"failed", summary.Failed,
		"captured", summary.Captured)

	return summary, errors.Join(captureErr, waitErr)
}
