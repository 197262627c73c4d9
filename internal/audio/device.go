package audio

import "fmt"

// Compile-time interface implementation checks.
var (
	_ Device = (*FileDevice)(nil)
	_ Stream = (*fileStream)(nil)
)

// Device opens capture streams.
type Device interface {
	// Open starts capturing mono audio at sampleRate.
	// The caller must Close the returned stream on every exit path.
	Open(sampleRate int) (Stream, error)
}

// Stream yields captured samples.
type Stream interface {
	// Read blocks until n samples are available and returns them in a
	// freshly allocated slice. At end of input it returns the remaining
	// samples (possibly fewer than n) and then io.EOF.
	Read(n int) ([]float32, error)

	// Close releases the underlying device. Safe to call more than once.
	Close() error
}

// DeviceLister lists available audio input devices.
type DeviceLister interface {
	ListDevices() ([]string, error)
}

// deviceError wraps an error with actionable help text.
// Implements error and Unwrap for errors.Is() compatibility.
type deviceError struct {
	wrapped error
	help    string
}

func (e *deviceError) Error() string {
	return fmt.Sprintf("%v: %s", e.wrapped, e.help)
}

func (e *deviceError) Unwrap() error {
	return e.wrapped
}
