package segment_test

import (
	"testing"

	"github.com/alnah/go-segrec/internal/segment"
)

// ---------------------------------------------------------------------------
// Detector.Observe - Silence timeout
// ---------------------------------------------------------------------------

func TestDetector_FlushesAfterExactSilentTicks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
	}{
		{"one tick", 1},
		{"twenty ticks", 20},
		{"thirty ticks", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := segment.NewDetector(tt.limit, 1<<30)
			for i := 1; i < tt.limit; i++ {
				if got := d.Observe(true, 0); got != segment.Continue {
					t.Fatalf("tick %d: Observe() = %v, want continue", i, got)
				}
			}
			if got := d.Observe(true, 0); got != segment.FlushSilence {
				t.Errorf("tick %d: Observe() = %v, want flush(silence)", tt.limit, got)
			}
		})
	}
}

func TestDetector_LoudTickResetsCounter(t *testing.T) {
	t.Parallel()

	d := segment.NewDetector(3, 1<<30)
	d.Observe(true, 0)
	d.Observe(true, 0)
	if d.SilentTicks() != 2 {
		t.Fatalf("SilentTicks() = %d, want 2", d.SilentTicks())
	}
	d.Observe(false, 0)
	if d.SilentTicks() != 0 {
		t.Errorf("SilentTicks() = %d after loud tick, want 0", d.SilentTicks())
	}
	d.Observe(true, 0)
	d.Observe(true, 0)
	if got := d.Observe(true, 0); got != segment.FlushSilence {
		t.Errorf("Observe() = %v, want flush(silence)", got)
	}
}

func TestDetector_LimitBelowOneIsOne(t *testing.T) {
	t.Parallel()

	d := segment.NewDetector(0, 1<<30)
	if got := d.Observe(true, 0); got != segment.FlushSilence {
		t.Errorf("Observe() = %v, want flush(silence) on first silent tick", got)
	}
}

// ---------------------------------------------------------------------------
// Detector.Observe - Maximum duration
// ---------------------------------------------------------------------------

func TestDetector_FlushesAtMaxDuration(t *testing.T) {
	t.Parallel()

	// 5s at 1 kHz.
	d := segment.NewDetector(20, 5000)

	if got := d.Observe(false, 4999); got != segment.Continue {
		t.Errorf("Observe(4999) = %v, want continue", got)
	}
	if got := d.Observe(false, 5000); got != segment.FlushMaxDuration {
		t.Errorf("Observe(5000) = %v, want flush(max-duration)", got)
	}
}

func TestDetector_MaxBelowOneIsOne(t *testing.T) {
	t.Parallel()

	d := segment.NewDetector(20, 0)
	if got := d.Observe(false, 1); got != segment.FlushMaxDuration {
		t.Errorf("Observe() = %v, want flush(max-duration) on first sample", got)
	}
}

func TestDetector_SilenceWinsOverMaxDuration(t *testing.T) {
	t.Parallel()

	d := segment.NewDetector(1, 1000)
	got := d.Observe(true, 2000)
	if got != segment.FlushSilence {
		t.Errorf("Observe() = %v, want flush(silence) when both conditions hold", got)
	}
	if got.Reason() != segment.ReasonSilence {
		t.Errorf("Reason() = %v, want silence", got.Reason())
	}
}

func TestDetector_Reset(t *testing.T) {
	t.Parallel()

	d := segment.NewDetector(5, 1<<30)
	d.Observe(true, 0)
	d.Observe(true, 0)
	d.Reset()
	if d.SilentTicks() != 0 {
		t.Errorf("SilentTicks() = %d after Reset, want 0", d.SilentTicks())
	}
}

// ---------------------------------------------------------------------------
// Decision - Helpers
// ---------------------------------------------------------------------------

func TestDecision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d      segment.Decision
		str    string
		flush  bool
		reason segment.Reason
	}{
		{segment.Continue, "continue", false, 0},
		{segment.FlushSilence, "flush(silence)", true, segment.ReasonSilence},
		{segment.FlushMaxDuration, "flush(max-duration)", true, segment.ReasonMaxDuration},
	}

	for _, tt := range tests {
		if got := tt.d.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.d.Flush(); got != tt.flush {
			t.Errorf("%s.Flush() = %v, want %v", tt.str, got, tt.flush)
		}
		if got := tt.d.Reason(); got != tt.reason {
			t.Errorf("%s.Reason() = %v, want %v", tt.str, got, tt.reason)
		}
	}
}

// ---------------------------------------------------------------------------
// Scenario - 19 loud ticks then silence at 100ms ticks, 2s timeout, 5s max
// ---------------------------------------------------------------------------

func TestDetector_LoudThenSilentScenario(t *testing.T) {
	t.Parallel()

	const tickSamples = 4800 // 100ms at 48 kHz
	d := segment.NewDetector(20, 5*48000)

	for tick := 1; tick <= 40; tick++ {
		silent := tick > 19
		got := d.Observe(silent, tick*tickSamples)
		switch {
		case tick < 39 && got != segment.Continue:
			t.Fatalf("tick %d: Observe() = %v, want continue", tick, got)
		case tick == 39:
			if got != segment.FlushSilence {
				t.Fatalf("tick 39: Observe() = %v, want flush(silence)", got)
			}
			return
		}
	}
	t.Fatal("no boundary by tick 40")
}
