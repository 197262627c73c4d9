package apierr

import "time"

// Delays returns the waits cfg schedules before each retry, after normalization.
func Delays(cfg RetryConfig) []time.Duration {
	var out []time.Duration
	for _, d := range cfg.normalized().delays() {
		out = append(out, d)
	}
	return out
}
