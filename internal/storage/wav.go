// Package storage persists segments as WAV files.
package storage

import (
	"fmt"
	"math"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// BitDepth is the PCM sample width written by WAVStore.
const BitDepth = 16

// wavFormatPCM is the RIFF audio format code for integer PCM.
const wavFormatPCM = 1

// WAVStore writes mono 16-bit PCM WAV files.
// Each file is written to a temporary name in the destination directory and
// renamed into place, so a path either holds a complete file or nothing.
type WAVStore struct {
	fs fileWriter
}

// Option configures a WAVStore.
type Option func(*WAVStore)

// withFileWriter sets a custom filesystem (for testing).
func withFileWriter(fs fileWriter) Option {
	return func(s *WAVStore) {
		s.fs = fs
	}
}

// NewWAVStore creates a WAVStore backed by the local filesystem.
func NewWAVStore(opts ...Option) *WAVStore {
	s := &WAVStore{fs: osFileWriter{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write encodes samples (normalized to [-1, 1]) at sampleRate into path.
// Samples outside the range are clipped. Errors wrap ErrWriteFailed.
func (s *WAVStore) Write(path string, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%s: invalid sample rate %d: %w", path, sampleRate, ErrWriteFailed)
	}

	tmp, err := s.fs.CreateTemp(filepath.Dir(path), ".segment-*.wav")
	if err != nil {
		return fmt.Errorf("cannot create temp file: %w: %v", ErrWriteFailed, err)
	}
	tmpPath := tmp.Name()

	// Ensure cleanup on error
	success := false
	defer func() {
		_ = tmp.Close()
		if !success {
			_ = s.fs.Remove(tmpPath)
		}
	}()

	enc := wav.NewEncoder(tmp, sampleRate, BitDepth, 1, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           toPCM16(samples),
		SourceBitDepth: BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode %s: %w: %v", path, ErrWriteFailed, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w: %v", path, ErrWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w: %v", ErrWriteFailed, err)
	}

	// Atomic rename
	if err := s.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("install %s: %w: %v", path, ErrWriteFailed, err)
	}

	success = true
	return nil
}

// toPCM16 converts normalized float samples to clipped 16-bit integers.
func toPCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * math.MaxInt16)
		out[i] = int(max(min(v, math.MaxInt16), math.MinInt16))
	}
	return out
}
