//go:build !portaudio

package audio

import "fmt"

// Compile-time interface implementation checks.
var (
	_ Device       = (*PortAudioDevice)(nil)
	_ DeviceLister = (*PortAudioDevice)(nil)
)

// PortAudioDevice stub when portaudio is not available.
type PortAudioDevice struct {
	name string
}

// NewPortAudioDevice creates a stub device that always fails to open.
func NewPortAudioDevice(name string) *PortAudioDevice {
	return &PortAudioDevice{name: name}
}

// Available reports whether this build can capture from hardware.
func Available() bool { return false }

func (d *PortAudioDevice) Open(_ int) (Stream, error) {
	return nil, &deviceError{
		wrapped: fmt.Errorf("microphone capture not available: %w", ErrNoAudioDevice),
		help:    "rebuild with -tags portaudio, or replay a file with --input",
	}
}

func (d *PortAudioDevice) ListDevices() ([]string, error) {
	return nil, &deviceError{
		wrapped: fmt.Errorf("device listing not available: %w", ErrNoAudioDevice),
		help:    "rebuild with -tags portaudio",
	}
}
