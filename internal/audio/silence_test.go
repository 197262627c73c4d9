package audio_test

import (
	"testing"
	"time"

	"github.com/alnah/go-segrec/internal/audio"
)

// constant returns n samples all equal to v.
func constant(n int, v float32) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// ---------------------------------------------------------------------------
// SilencePolicy.WindowSamples - Lookahead window size
// ---------------------------------------------------------------------------

func TestSilencePolicy_WindowSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lookahead time.Duration
		rate      int
		want      int
	}{
		{"default at 48 kHz", 100 * time.Millisecond, 48000, 4800},
		{"default at 44.1 kHz", 100 * time.Millisecond, 44100, 4410},
		{"truncates fractional sample", 100 * time.Millisecond, 22051, 2205},
		{"zero lookahead", 0, 48000, 0},
		{"zero rate", 100 * time.Millisecond, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := audio.SilencePolicy{Threshold: 0.01, Lookahead: tt.lookahead}
			if got := p.WindowSamples(tt.rate); got != tt.want {
				t.Errorf("WindowSamples(%d) = %d, want %d", tt.rate, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// SilencePolicy.IsSilent - Mean absolute amplitude over the lookahead
// ---------------------------------------------------------------------------

func TestSilencePolicy_IsSilent(t *testing.T) {
	t.Parallel()

	const rate = 48000
	policy := audio.DefaultSilencePolicy()

	tests := []struct {
		name    string
		samples []float32
		want    bool
	}{
		{
			name:    "empty buffer is silent",
			samples: nil,
			want:    true,
		},
		{
			name:    "all zeros",
			samples: constant(4800, 0),
			want:    true,
		},
		{
			name:    "just below threshold",
			samples: constant(4800, 0.0099),
			want:    true,
		},
		{
			name:    "exactly at threshold is not silent",
			samples: constant(4800, 0.01),
			want:    false,
		},
		{
			name:    "negative samples count by magnitude",
			samples: constant(4800, -0.5),
			want:    false,
		},
		{
			name:    "buffer shorter than window is inspected whole",
			samples: constant(100, 0.2),
			want:    false,
		},
		{
			name:    "short quiet buffer",
			samples: constant(100, 0.001),
			want:    true,
		},
		{
			name:    "loud tail beyond lookahead is ignored",
			samples: append(constant(4800, 0), constant(43200, 0.9)...),
			want:    true,
		},
		{
			name:    "loud head with quiet tail",
			samples: append(constant(4800, 0.5), constant(43200, 0)...),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := policy.IsSilent(tt.samples, rate); got != tt.want {
				t.Errorf("IsSilent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSilencePolicy_IsSilent_MixedWindow(t *testing.T) {
	t.Parallel()

	// Half the window at 0.015, half at 0: mean 0.0075 is below 0.01.
	samples := append(constant(2400, 0.015), constant(2400, 0)...)
	if !audio.DefaultSilencePolicy().IsSilent(samples, 48000) {
		t.Error("IsSilent() = false, want true for mean below threshold")
	}

	// Raising the threshold past the mean changes nothing; lowering it below does.
	p := audio.SilencePolicy{Threshold: 0.005, Lookahead: 100 * time.Millisecond}
	if p.IsSilent(samples, 48000) {
		t.Error("IsSilent() = true, want false with threshold 0.005")
	}
}

func TestSilencePolicy_IsSilent_SampleAtThreshold(t *testing.T) {
	t.Parallel()

	// float32 samples equal to the threshold widen to slightly less than the
	// float64 threshold; they must still classify as sound.
	for _, threshold := range []float64{0.01, 0.02, 0.03, 0.1, 0.3, 0.7} {
		p := audio.SilencePolicy{Threshold: threshold, Lookahead: 100 * time.Millisecond}
		if p.IsSilent(constant(4800, float32(threshold)), 48000) {
			t.Errorf("IsSilent() = true at threshold %v, want false", threshold)
		}
		if !p.IsSilent(constant(4800, float32(threshold*0.99)), 48000) {
			t.Errorf("IsSilent() = false just below threshold %v, want true", threshold)
		}
	}
}

func TestSilencePolicy_IsSilent_TinyWindowUsesWholeBuffer(t *testing.T) {
	t.Parallel()

	// 1ms at 100 Hz truncates to zero samples: inspect the whole buffer.
	p := audio.SilencePolicy{Threshold: 0.01, Lookahead: time.Millisecond}
	if p.IsSilent(constant(10, 0.5), 100) {
		t.Error("IsSilent() = true, want false when window rounds to zero")
	}
}

// ---------------------------------------------------------------------------
// IsSilent - Package-level convenience
// ---------------------------------------------------------------------------

func TestIsSilent(t *testing.T) {
	t.Parallel()

	quietHead := append(constant(1600, 0), constant(14400, 1)...)
	if !audio.IsSilent(quietHead, 0.01, 16000) {
		t.Error("IsSilent() = false, want true: only the first 100ms is inspected")
	}
	// At 8 kHz the window shrinks to 800 samples, still all zero.
	if !audio.IsSilent(quietHead, 0.01, 8000) {
		t.Error("IsSilent() = false at 8 kHz, want true")
	}
	if audio.IsSilent(constant(16000, 0.02), 0.01, 16000) {
		t.Error("IsSilent() = true, want false for loud buffer")
	}
}

// ---------------------------------------------------------------------------
// Chunk helpers - Sample/duration conversion
// ---------------------------------------------------------------------------

func TestSamplesDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, rate int
		want    time.Duration
	}{
		{48000, 48000, time.Second},
		{4800, 48000, 100 * time.Millisecond},
		{0, 48000, 0},
		{100, 0, 0},
		{1, 3, 333333333},
	}

	for _, tt := range tests {
		if got := audio.SamplesDuration(tt.n, tt.rate); got != tt.want {
			t.Errorf("SamplesDuration(%d, %d) = %v, want %v", tt.n, tt.rate, got, tt.want)
		}
	}
}

func TestDurationSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		rate int
		want int
	}{
		{100 * time.Millisecond, 48000, 4800},
		{5 * time.Second, 48000, 240000},
		{10 * time.Millisecond, 22050, 221},
		{0, 48000, 0},
		{time.Second, 0, 0},
	}

	for _, tt := range tests {
		if got := audio.DurationSamples(tt.d, tt.rate); got != tt.want {
			t.Errorf("DurationSamples(%v, %d) = %d, want %d", tt.d, tt.rate, got, tt.want)
		}
	}
}

func TestChunk_Duration(t *testing.T) {
	t.Parallel()

	c := audio.Chunk{Samples: make([]float32, 4800), SampleRate: 48000}
	if got := c.Duration(); got != 100*time.Millisecond {
		t.Errorf("Duration() = %v, want 100ms", got)
	}
	if got := c.Len(); got != 4800 {
		t.Errorf("Len() = %d, want 4800", got)
	}
}
