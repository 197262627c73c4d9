// Package interrupt turns Ctrl+C into a graceful stop, and a second Ctrl+C
// into an immediate abort.
package interrupt

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// ExitInterrupt is the exit code for interrupt (130 = 128 + SIGINT).
const ExitInterrupt = 130

// DefaultWindow is how soon a second Ctrl+C must follow the previous one to abort.
const DefaultWindow = 2 * time.Second

const (
	stopMessage  = "\nStopping, saving the current segment. Press Ctrl+C again to abort."
	abortMessage = "\nAborted."
)

// action is what a received signal asks the handler to do.
type action int

const (
	actionIgnore action = iota
	actionStop
	actionAbort
)

// Handler manages graceful interrupt handling with double Ctrl+C detection.
// The first Ctrl+C runs the stop callback and cancels the handler context.
// Another Ctrl+C within the window of the previous one exits the process
// with ExitInterrupt; a later one re-arms the window.
type Handler struct {
	mu          sync.Mutex
	last        time.Time
	interrupted bool
	aborted     bool
	stopped     bool

	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once

	window      time.Duration
	onInterrupt func()
	exitFunc    func(int)
	nowFunc     func() time.Time
	stderr      io.Writer
}

// Options holds injectable dependencies for testing.
type Options struct {
	SigCh <-chan os.Signal
	// OnInterrupt runs once, on the first interrupt, before the context is canceled.
	OnInterrupt func()
	ExitFunc    func(int)
	NowFunc     func() time.Time
	// Window defaults to DefaultWindow.
	Window time.Duration
	// Stderr receives user-facing messages and must tolerate concurrent writes.
	// Defaults to os.Stderr.
	Stderr io.Writer
}

// NewHandler creates a handler that listens for SIGINT/SIGTERM.
// onInterrupt may be nil. Returns the handler and a context that is canceled
// on first interrupt.
func NewHandler(parent context.Context, onInterrupt func()) (*Handler, context.Context) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return NewHandlerWithOptions(parent, Options{SigCh: sigCh, OnInterrupt: onInterrupt})
}

// NewHandlerWithOptions creates a handler with injectable dependencies.
// A nil SigCh yields a handler that never fires.
func NewHandlerWithOptions(parent context.Context, opts Options) (*Handler, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	h := &Handler{
		cancel:      cancel,
		done:        make(chan struct{}),
		window:      opts.Window,
		onInterrupt: opts.OnInterrupt,
		exitFunc:    opts.ExitFunc,
		nowFunc:     opts.NowFunc,
		stderr:      opts.Stderr,
	}
	if h.window <= 0 {
		h.window = DefaultWindow
	}
	if h.exitFunc == nil {
		h.exitFunc = os.Exit
	}
	if h.nowFunc == nil {
		h.nowFunc = time.Now
	}
	if h.stderr == nil {
		h.stderr = os.Stderr
	}

	if opts.SigCh != nil {
		go h.listen(opts.SigCh)
	}
	return h, ctx
}

func (h *Handler) listen(sigCh <-chan os.Signal) {
	for {
		select {
		case <-h.done:
			return
		case _, ok := <-sigCh:
			if !ok {
				return
			}
			switch h.decide(h.nowFunc()) {
			case actionStop:
				fmt.Fprintln(h.stderr, stopMessage)
				if h.onInterrupt != nil {
					h.onInterrupt()
				}
				h.cancel()
			case actionAbort:
				fmt.Fprintln(h.stderr, abortMessage)
				h.exitFunc(ExitInterrupt)
				return // exitFunc returns in tests
			}
		}
	}
}

// decide records a signal received at now and returns the resulting action.
func (h *Handler) decide(now time.Time) action {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch {
	case h.stopped || h.aborted:
		return actionIgnore
	case !h.interrupted:
		h.interrupted = true
		h.last = now
		return actionStop
	case now.Sub(h.last) <= h.window:
		h.aborted = true
		return actionAbort
	default:
		h.last = now
		return actionIgnore
	}
}

// WasInterrupted returns true if at least one interrupt was received.
func (h *Handler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

// WasAborted returns true if a second interrupt arrived within the window.
func (h *Handler) WasAborted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.aborted
}

// Stop restores default signal handling and ends the listener. Safe to call
// more than once.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		h.mu.Lock()
		h.stopped = true
		h.mu.Unlock()

		signal.Reset(syscall.SIGINT, syscall.SIGTERM)
		close(h.done)
	})
}
