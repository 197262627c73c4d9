package config

import (
	"fmt"
	"time"

	"github.com/alnah/go-segrec/internal/audio"
)

// Recording defaults.
const (
	DefaultOutputPrefix    = "output"
	DefaultOutputDir       = "wav_files"
	DefaultSampleRate      = 48000
	DefaultSilenceDuration = 3 * time.Second
	DefaultMaxDuration     = 10 * time.Second
	DefaultCheckInterval   = 100 * time.Millisecond
	DefaultQueueSize       = 32
)

// Recording is the immutable snapshot of one capture session's parameters.
// It is passed by value to every component; nothing mutates it after Validate.
type Recording struct {
	OutputPrefix    string
	OutputDir       string
	SampleRate      int
	SilenceDuration time.Duration // Consecutive silence that closes a segment.
	MaxDuration     time.Duration // Longest segment before a forced boundary.
	CheckInterval   time.Duration // Length of one capture tick.
	Threshold       float64       // Mean absolute amplitude counted as silence.
	Lookahead       time.Duration // Leading window inspected by the classifier.
	QueueSize       int           // Closed segments buffered ahead of the writer.
}

// DefaultRecording returns a Recording populated with defaults.
func DefaultRecording() Recording {
	return Recording{
		OutputPrefix:    DefaultOutputPrefix,
		OutputDir:       DefaultOutputDir,
		SampleRate:      DefaultSampleRate,
		SilenceDuration: DefaultSilenceDuration,
		MaxDuration:     DefaultMaxDuration,
		CheckInterval:   DefaultCheckInterval,
		Threshold:       audio.DefaultSilenceThreshold,
		Lookahead:       audio.DefaultLookahead,
		QueueSize:       DefaultQueueSize,
	}
}

// Validate rejects values that would make the capture loop meaningless.
// The returned error wraps ErrInvalidConfig.
func (r Recording) Validate() error {
	switch {
	case r.OutputPrefix == "":
		return fmt.Errorf("output prefix cannot be empty: %w", ErrInvalidConfig)
	case r.OutputDir == "":
		return fmt.Errorf("output directory cannot be empty: %w", ErrInvalidConfig)
	case r.SampleRate <= 0:
		return fmt.Errorf("sample rate must be positive, got %d: %w", r.SampleRate, ErrInvalidConfig)
	case r.SilenceDuration <= 0:
		return fmt.Errorf("silence duration must be positive, got %s: %w", r.SilenceDuration, ErrInvalidConfig)
	case r.MaxDuration <= 0:
		return fmt.Errorf("max duration must be positive, got %s: %w", r.MaxDuration, ErrInvalidConfig)
	case r.CheckInterval <= 0:
		return fmt.Errorf("check interval must be positive, got %s: %w", r.CheckInterval, ErrInvalidConfig)
	case r.ChunkSamples() < 1:
		return fmt.Errorf("check interval %s is shorter than one sample at %d Hz: %w", r.CheckInterval, r.SampleRate, ErrInvalidConfig)
	case r.Threshold <= 0:
		return fmt.Errorf("silence threshold must be positive, got %g: %w", r.Threshold, ErrInvalidConfig)
	case r.Lookahead <= 0:
		return fmt.Errorf("lookahead must be positive, got %s: %w", r.Lookahead, ErrInvalidConfig)
	case r.QueueSize < 1:
		return fmt.Errorf("queue size must be at least 1, got %d: %w", r.QueueSize, ErrInvalidConfig)
	}
	return nil
}

// ChunkSamples returns the samples read per tick, rounded to the nearest sample.
func (r Recording) ChunkSamples() int {
	return audio.DurationSamples(r.CheckInterval, r.SampleRate)
}

// MaxSamples returns the segment length, in samples, that forces a boundary.
func (r Recording) MaxSamples() int {
	return audio.DurationSamples(r.MaxDuration, r.SampleRate)
}

// SilenceTicks returns the consecutive silent ticks that close a segment:
// ceil(SilenceDuration / CheckInterval), at least 1.
func (r Recording) SilenceTicks() int {
	if r.CheckInterval <= 0 {
		return 1
	}
	ticks := (r.SilenceDuration + r.CheckInterval - 1) / r.CheckInterval
	return max(int(ticks), 1)
}

// Policy returns the silence classification policy.
func (r Recording) Policy() audio.SilencePolicy {
	return audio.SilencePolicy{Threshold: r.Threshold, Lookahead: r.Lookahead}
}

// Apply overlays the non-zero settings of c onto r and returns the result.
func (r Recording) Apply(c Config) Recording {
	if c.OutputDir != "" {
		r.OutputDir = c.OutputDir
	}
	if c.OutputPrefix != "" {
		r.OutputPrefix = c.OutputPrefix
	}
	if c.SampleRate != 0 {
		r.SampleRate = c.SampleRate
	}
	if c.SilenceDuration != 0 {
		r.SilenceDuration = c.SilenceDuration
	}
	if c.MaxDuration != 0 {
		r.MaxDuration = c.MaxDuration
	}
	if c.CheckInterval != 0 {
		r.CheckInterval = c.CheckInterval
	}
	if c.Threshold != 0 {
		r.Threshold = c.Threshold
	}
	return r
}
