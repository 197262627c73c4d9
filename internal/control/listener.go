package control

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ExitCommand is the line that stops a session.
const ExitCommand = "exit"

// deadliner is implemented by readers whose blocked reads can be interrupted,
// such as *os.File on platforms with pollable stdin.
type deadliner interface {
	SetReadDeadline(t time.Time) error
}

// Listener reads operator commands line by line.
type Listener struct {
	r      io.Reader
	signal *Signal
	logger *slog.Logger
}

// NewListener creates a Listener that fires signal when r yields an exit line.
func NewListener(r io.Reader, signal *Signal, logger *slog.Logger) *Listener {
	return &Listener{r: r, signal: signal, logger: logger}
}

// Run waits for the exit command, the end of input, or ctx.
//
// An exit line (case-insensitive, surrounding space ignored) fires the signal.
// End of input and read failures are logged and never stop the session.
// Run always returns nil once ctx is done or input ends, so it can run in an
// errgroup alongside the capture loop without cancelling it.
func (l *Listener) Run(ctx context.Context) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		errc <- l.scan(stop, lines)
	}()

	for {
		select {
		case <-ctx.Done():
			l.interrupt()
			return nil
		case <-l.signal.Done():
			l.interrupt()
			return nil
		case line := <-lines:
			if IsExit(line) {
				if l.signal.Fire() {
					l.logger.Info("exit requested from input")
				}
				return nil
			}
			if strings.TrimSpace(line) != "" {
				l.logger.Debug("ignoring input", "line", line)
			}
		case err := <-errc:
			if err != nil {
				l.logger.Warn("control input error, recording continues", "error", err)
			} else {
				l.logger.Debug("control input closed without exit")
			}
			return nil
		}
	}
}

// scan forwards lines until EOF, a read error, or stop is closed.
func (l *Listener) scan(stop <-chan struct{}, lines chan<- string) error {
	sc := bufio.NewScanner(l.r)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-stop:
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInput, err)
	}
	return nil
}

// interrupt unblocks a pending read when the reader supports deadlines.
// Otherwise the scanning goroutine stays blocked until the process exits.
func (l *Listener) interrupt() {
	if d, ok := l.r.(deadliner); ok {
		_ = d.SetReadDeadline(time.Now())
	}
}

// IsExit reports whether line is the exit command.
func IsExit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), ExitCommand)
}
