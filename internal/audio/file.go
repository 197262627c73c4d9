package audio

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-audio/wav"
)

// FileDevice replays a WAV file as if it were a capture device.
// Multi-channel files are reduced to their first channel.
// Reads return as fast as the file can be decoded, not in real time.
type FileDevice struct {
	path string
	fs   fileOpener
}

// FileOption configures a FileDevice.
type FileOption func(*FileDevice)

// withFileOpener sets a custom file opener (for testing).
func withFileOpener(fs fileOpener) FileOption {
	return func(d *FileDevice) {
		d.fs = fs
	}
}

// NewFileDevice creates a FileDevice for the WAV file at path.
func NewFileDevice(path string, opts ...FileOption) *FileDevice {
	d := &FileDevice{path: path, fs: osFileOpener{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Open decodes the whole file and returns a stream over its samples.
// Returns ErrFormatMismatch if the file's sample rate differs from sampleRate.
func (d *FileDevice) Open(sampleRate int) (Stream, error) {
	f, err := d.fs.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("cannot open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, &deviceError{
			wrapped: fmt.Errorf("%s: %w", d.path, ErrFormatMismatch),
			help:    "input must be a PCM WAV file",
		}
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", d.path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%s: missing channel layout: %w", d.path, ErrFormatMismatch)
	}
	if buf.Format.SampleRate != sampleRate {
		return nil, &deviceError{
			wrapped: fmt.Errorf("%s is %d Hz, want %d Hz: %w", d.path, buf.Format.SampleRate, sampleRate, ErrFormatMismatch),
			help:    fmt.Sprintf("rerun with --sample-rate %d", buf.Format.SampleRate),
		}
	}

	if dec.BitDepth == 0 {
		return nil, fmt.Errorf("%s: missing bit depth: %w", d.path, ErrFormatMismatch)
	}

	channels := buf.Format.NumChannels
	scale := float32(int64(1) << (dec.BitDepth - 1))
	samples := make([]float32, len(buf.Data)/channels)
	for i := range samples {
		samples[i] = float32(buf.Data[i*channels]) / scale
	}

	return &fileStream{samples: samples}, nil
}

// fileStream serves decoded samples in caller-sized reads.
type fileStream struct {
	mu      sync.Mutex
	samples []float32
	pos     int
	closed  bool
}

func (s *fileStream) Read(n int) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStreamClosed
	}
	if s.pos >= len(s.samples) {
		return nil, io.EOF
	}

	end := min(s.pos+n, len(s.samples))
	out := make([]float32, end-s.pos)
	copy(out, s.samples[s.pos:end])
	s.pos = end
	return out, nil
}

func (s *fileStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
