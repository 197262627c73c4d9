package config

import (
	"errors"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestRecording_Validate
// ---------------------------------------------------------------------------

func TestRecording_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Recording)
	}{
		{"empty prefix", func(r *Recording) { r.OutputPrefix = "" }},
		{"empty output dir", func(r *Recording) { r.OutputDir = "" }},
		{"zero sample rate", func(r *Recording) { r.SampleRate = 0 }},
		{"negative sample rate", func(r *Recording) { r.SampleRate = -48000 }},
		{"zero silence duration", func(r *Recording) { r.SilenceDuration = 0 }},
		{"zero max duration", func(r *Recording) { r.MaxDuration = 0 }},
		{"zero check interval", func(r *Recording) { r.CheckInterval = 0 }},
		{"interval shorter than a sample", func(r *Recording) { r.SampleRate = 8000; r.CheckInterval = time.Microsecond }},
		{"zero threshold", func(r *Recording) { r.Threshold = 0 }},
		{"zero lookahead", func(r *Recording) { r.Lookahead = 0 }},
		{"zero queue", func(r *Recording) { r.QueueSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := DefaultRecording()
			tt.mutate(&r)
			err := r.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := DefaultRecording().Validate(); err != nil {
			t.Errorf("DefaultRecording().Validate() = %v, want nil", err)
		}
	})

	t.Run("max shorter than silence is allowed", func(t *testing.T) {
		t.Parallel()
		r := DefaultRecording()
		r.SilenceDuration = 5 * time.Second
		r.MaxDuration = time.Second
		if err := r.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRecording_ChunkSamples / SilenceTicks
// ---------------------------------------------------------------------------

func TestRecording_ChunkSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate     int
		interval time.Duration
		want     int
	}{
		{48000, 100 * time.Millisecond, 4800},
		{44100, 100 * time.Millisecond, 4410},
		{16000, 250 * time.Millisecond, 4000},
		{44100, 33 * time.Millisecond, 1455}, // 1455.3 rounds down
		{22050, 10 * time.Millisecond, 221},  // 220.5 rounds up
	}

	for _, tt := range tests {
		r := Recording{SampleRate: tt.rate, CheckInterval: tt.interval}
		if got := r.ChunkSamples(); got != tt.want {
			t.Errorf("ChunkSamples(%d Hz, %s) = %d, want %d", tt.rate, tt.interval, got, tt.want)
		}
	}
}

func TestRecording_MaxSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate int
		max  time.Duration
		want int
	}{
		{48000, 5 * time.Second, 240000},
		{44100, 5 * time.Second, 220500},
		{1000, 12400 * time.Microsecond, 12}, // 12.4 rounds down
	}

	for _, tt := range tests {
		r := Recording{SampleRate: tt.rate, MaxDuration: tt.max}
		if got := r.MaxSamples(); got != tt.want {
			t.Errorf("MaxSamples(%d Hz, %s) = %d, want %d", tt.rate, tt.max, got, tt.want)
		}
	}
}

func TestRecording_SilenceTicks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		silence  time.Duration
		interval time.Duration
		want     int
	}{
		{2 * time.Second, 100 * time.Millisecond, 20},
		{3 * time.Second, 100 * time.Millisecond, 30},
		{250 * time.Millisecond, 100 * time.Millisecond, 3}, // ceil(2.5)
		{700 * time.Millisecond, 100 * time.Millisecond, 7}, // exact despite 0.7/0.1 in float
		{50 * time.Millisecond, 100 * time.Millisecond, 1},
	}

	for _, tt := range tests {
		r := Recording{SilenceDuration: tt.silence, CheckInterval: tt.interval}
		if got := r.SilenceTicks(); got != tt.want {
			t.Errorf("SilenceTicks(%s / %s) = %d, want %d", tt.silence, tt.interval, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRecording_Apply
// ---------------------------------------------------------------------------

func TestRecording_Apply(t *testing.T) {
	t.Parallel()

	base := DefaultRecording()
	got := base.Apply(Config{
		OutputDir:     "/data",
		SampleRate:    16000,
		CheckInterval: 50 * time.Millisecond,
	})

	if got.OutputDir != "/data" {
		t.Errorf("OutputDir = %q, want /data", got.OutputDir)
	}
	if got.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", got.SampleRate)
	}
	if got.CheckInterval != 50*time.Millisecond {
		t.Errorf("CheckInterval = %s, want 50ms", got.CheckInterval)
	}
	if got.OutputPrefix != DefaultOutputPrefix {
		t.Errorf("OutputPrefix = %q, want default %q", got.OutputPrefix, DefaultOutputPrefix)
	}
	if base.OutputDir != DefaultOutputDir {
		t.Errorf("Apply mutated receiver: OutputDir = %q", base.OutputDir)
	}
}

func TestRecording_Policy(t *testing.T) {
	t.Parallel()

	r := DefaultRecording()
	r.Threshold = 0.05
	p := r.Policy()
	if p.Threshold != 0.05 || p.Lookahead != r.Lookahead {
		t.Errorf("Policy() = %+v, want threshold 0.05 lookahead %s", p, r.Lookahead)
	}
}
