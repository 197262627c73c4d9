//go:build portaudio

package audio

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Compile-time interface implementation checks.
var (
	_ Device       = (*PortAudioDevice)(nil)
	_ DeviceLister = (*PortAudioDevice)(nil)
)

// framesPerBuffer is the PortAudio host buffer size in frames.
// Reads of any size are assembled from host buffers of this size.
const framesPerBuffer = 1024

// PortAudioDevice captures mono float32 audio through PortAudio.
type PortAudioDevice struct {
	name string // Empty string means the default input device.
}

// NewPortAudioDevice creates a device for the input whose name contains name
// (case-insensitive). An empty name selects the system default input.
// A PulseAudio monitor source name captures system output (loopback).
func NewPortAudioDevice(name string) *PortAudioDevice {
	return &PortAudioDevice{name: name}
}

// Available reports whether this build can capture from hardware.
func Available() bool { return true }

// Open initializes PortAudio and starts a blocking input stream.
func (d *PortAudioDevice) Open(sampleRate int) (Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}

	info, err := d.resolve()
	if err != nil {
		_ = portaudio.Terminate()
		return nil, err
	}

	params := portaudio.LowLatencyParameters(info, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(sampleRate)
	params.FramesPerBuffer = framesPerBuffer

	buf := make([]float32, framesPerBuffer)
	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, &deviceError{
			wrapped: fmt.Errorf("opening stream on %q: %w", info.Name, err),
			help:    fmt.Sprintf("check that the device supports %d Hz mono capture", sampleRate),
		}
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("starting stream: %w", err)
	}

	return &portAudioStream{stream: stream, buf: buf}, nil
}

// resolve finds the configured input device. PortAudio must be initialized.
func (d *PortAudioDevice) resolve() (*portaudio.DeviceInfo, error) {
	if d.name == "" {
		info, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, &deviceError{
				wrapped: fmt.Errorf("%w: %v", ErrNoAudioDevice, err),
				help:    "connect a microphone or pass --device (see 'segrec devices')",
			}
		}
		return info, nil
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	want := strings.ToLower(d.name)
	for _, info := range devices {
		if info.MaxInputChannels > 0 && strings.Contains(strings.ToLower(info.Name), want) {
			return info, nil
		}
	}
	return nil, &deviceError{
		wrapped: fmt.Errorf("device %q: %w", d.name, ErrNoAudioDevice),
		help:    "run 'segrec devices' to see available input devices",
	}
}

// ListDevices returns the names of all devices with at least one input channel.
func (d *PortAudioDevice) ListDevices() ([]string, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	defer func() { _ = portaudio.Terminate() }()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}

	var names []string
	for _, info := range devices {
		if info.MaxInputChannels > 0 {
			names = append(names, fmt.Sprintf("%s  (%d ch, default %.0f Hz)",
				info.Name, info.MaxInputChannels, info.DefaultSampleRate))
		}
	}
	return names, nil
}

// portAudioStream assembles caller-sized reads out of fixed host buffers.
type portAudioStream struct {
	mu      sync.Mutex
	stream  *portaudio.Stream
	buf     []float32 // Bound to the PortAudio stream at open time.
	pending []float32 // Samples read from the host but not yet returned.
	closed  bool
}

func (s *portAudioStream) Read(n int) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStreamClosed
	}

	out := make([]float32, 0, n)
	for {
		take := min(n-len(out), len(s.pending))
		out = append(out, s.pending[:take]...)
		s.pending = s.pending[take:]
		if len(out) == n {
			return out, nil
		}

		// An input overflow means samples were dropped by the host, but the
		// buffer still holds valid audio.
		if err := s.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
			return out, fmt.Errorf("%w: %v", ErrDeviceRead, err)
		}
		s.pending = append(s.pending[:0:0], s.buf...)
	}
}

func (s *portAudioStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	stopErr := s.stream.Stop()
	closeErr := s.stream.Close()
	termErr := portaudio.Terminate()
	return errors.Join(stopErr, closeErr, termErr)
}
