package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alnah/go-segrec/internal/audio"
	"github.com/alnah/go-segrec/internal/config"
	"github.com/alnah/go-segrec/internal/control"
	"github.com/alnah/go-segrec/internal/lang"
	"github.com/alnah/go-segrec/internal/metrics"
	"github.com/alnah/go-segrec/internal/session"
	"github.com/alnah/go-segrec/internal/transcribe"
)

// Flag names that are not config keys.
const (
	flagLookahead   = "lookahead"
	flagQueueSize   = "queue-size"
	flagInput       = "input"
	flagTranscribe  = "transcribe"
	flagLanguage    = "language"
	flagPrompt      = "prompt"
	flagMetricsAddr = "metrics-addr"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"
)

// recordOptions holds the parsed options for the record command.
type recordOptions struct {
	flags   config.Recording // Flag values; only changed ones override config.
	changed func(name string) bool

	device      string
	input       string
	transcribe  bool
	language    string
	prompt      string
	metricsAddr string
	logLevel    string
	logFormat   string
}

// RecordCmd creates the record command.
// The env parameter provides injectable dependencies for testing.
func RecordCmd(env *Env) *cobra.Command {
	opts := recordOptions{flags: config.DefaultRecording()}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record audio split into WAV segments at pauses",
		Long: `Record from an input device and write one WAV file per utterance.

A segment ends after --silence-duration of continuous silence, or when it
reaches --max-duration. Segments whose opening --lookahead is silent are
dropped. Files are named <output-prefix>_<index>.wav; indices are never
reused, so dropped segments leave gaps.

Stop by typing "exit" and pressing Enter, or with Ctrl+C. The current
segment is saved either way. Press Ctrl+C twice within 2s to abort.

Defaults come from the config file (see 'segrec config') and SEGREC_*
environment variables; flags take precedence.`,
		Example: `  segrec record                                    # Default input into ./wav_files
  segrec record -o ~/clips --silence-duration 2s   # Shorter pauses split segments
  segrec record --device monitor                   # Capture system output (PulseAudio)
  segrec record --input talk.wav --sample-rate 16000
  segrec record --transcribe --language en         # Also write a .txt per segment`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.changed = cmd.Flags().Changed
			return runRecord(cmd.Context(), env, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.flags.OutputDir, config.KeyOutputDir, "o", opts.flags.OutputDir, "Directory for segment files")
	f.StringVarP(&opts.flags.OutputPrefix, config.KeyOutputPrefix, "p", opts.flags.OutputPrefix, "File name prefix")
	f.IntVarP(&opts.flags.SampleRate, config.KeySampleRate, "r", opts.flags.SampleRate, "Capture sample rate in Hz")
	f.DurationVarP(&opts.flags.SilenceDuration, config.KeySilenceDuration, "s", opts.flags.SilenceDuration, "Continuous silence that ends a segment")
	f.DurationVarP(&opts.flags.MaxDuration, config.KeyMaxDuration, "m", opts.flags.MaxDuration, "Longest segment before a forced split")
	f.DurationVar(&opts.flags.CheckInterval, config.KeyCheckInterval, opts.flags.CheckInterval, "Length of one capture tick")
	f.Float64Var(&opts.flags.Threshold, config.KeyThreshold, opts.flags.Threshold, "Mean amplitude (0-1) below which audio is silence")
	f.DurationVar(&opts.flags.Lookahead, flagLookahead, opts.flags.Lookahead, "Leading window inspected to classify audio")
	f.IntVar(&opts.flags.QueueSize, flagQueueSize, opts.flags.QueueSize, "Closed segments buffered ahead of the writer")
	f.StringVarP(&opts.device, config.KeyDevice, "d", "", "Input device name or substring (default: system default; see 'segrec devices')")
	f.StringVarP(&opts.input, flagInput, "i", "", "Replay a WAV file instead of a live device")
	f.BoolVarP(&opts.transcribe, flagTranscribe, "t", false, "Transcribe each saved segment with OpenAI (needs "+EnvOpenAIAPIKey+")")
	f.StringVarP(&opts.language, flagLanguage, "l", "", "Transcription language (ISO 639-1, e.g. en, fr, pt-BR)")
	f.StringVar(&opts.prompt, flagPrompt, "", "Transcription prompt (vocabulary, names)")
	f.StringVar(&opts.metricsAddr, flagMetricsAddr, "", "Serve Prometheus metrics on this address (e.g. :9090)")
	f.StringVar(&opts.logLevel, flagLogLevel, defaultLogLevel, "Log level: debug, info, warn, error")
	f.StringVar(&opts.logFormat, flagLogFormat, defaultLogFormat, "Log format: text, json")

	cmd.MarkFlagsMutuallyExclusive(config.KeyDevice, flagInput)

	return cmd
}

// runRecord resolves settings, builds the session dependencies, and records
// until the user stops or the input ends.
func runRecord(ctx context.Context, env *Env, opts recordOptions) error {
	logger, err := newLogger(env.Stderr, opts.logLevel, opts.logFormat)
	if err != nil {
		return err
	}

	loaded, err := env.ConfigLoader.Load()
	if errors.Is(err, config.ErrInvalidConfig) {
		return err
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	rec := resolveRecording(loaded, opts)
	if err := rec.Validate(); err != nil {
		return err
	}

	language, err := lang.Parse(opts.language)
	if err != nil {
		return err
	}

	device, source, err := resolveDevice(env, loaded, opts)
	if err != nil {
		return err
	}

	m := metrics.New()

	var sidecar *transcribe.Sidecar
	if opts.transcribe {
		apiKey := env.Getenv(EnvOpenAIAPIKey)
		if apiKey == "" {
			return transcribe.ErrAPIKeyMissing
		}
		t := env.TranscriberFactory.NewTranscriber(apiKey, logger)
		sidecar = transcribe.NewSidecar(t,
			transcribe.Options{Language: language, Prompt: opts.prompt},
			transcribe.WithSidecarLogger(logger),
			transcribe.WithSidecarMetrics(m))
	}

	sig := control.NewSignal()
	handler, ctx := env.InterruptFactory.NewHandler(ctx, func() { sig.Fire() })
	defer handler.Stop()

	fmt.Fprintf(env.Stderr, "Recording from %s into %s... (type \"exit\" or press Ctrl+C to stop)\n",
		source, rec.OutputDir)

	summary, err := session.Run(ctx, rec, session.Deps{
		Device:      device,
		Control:     env.Stdin,
		Signal:      sig,
		Sidecar:     sidecar,
		Metrics:     m,
		MetricsAddr: opts.metricsAddr,
		Logger:      logger,
	})
	if summary.ID != "" {
		fmt.Fprintf(env.Stderr, "Recording complete: %s\n", summary)
	}
	return err
}

// resolveRecording applies settings in precedence order:
// changed flags, then the config file and environment, then defaults.
func resolveRecording(loaded config.Config, opts recordOptions) config.Recording {
	rec := config.DefaultRecording().Apply(loaded)

	changed := opts.changed
	if changed == nil {
		changed = func(string) bool { return false }
	}
	f := opts.flags

	if changed(config.KeyOutputDir) {
		rec.OutputDir = f.OutputDir
	}
	if changed(config.KeyOutputPrefix) {
		rec.OutputPrefix = f.OutputPrefix
	}
	if changed(config.KeySampleRate) {
		rec.SampleRate = f.SampleRate
	}
	if changed(config.KeySilenceDuration) {
		rec.SilenceDuration = f.SilenceDuration
	}
	if changed(config.KeyMaxDuration) {
		rec.MaxDuration = f.MaxDuration
	}
	if changed(config.KeyCheckInterval) {
		rec.CheckInterval = f.CheckInterval
	}
	if changed(config.KeyThreshold) {
		rec.Threshold = f.Threshold
	}
	if changed(flagLookahead) {
		rec.Lookahead = f.Lookahead
	}
	if changed(flagQueueSize) {
		rec.QueueSize = f.QueueSize
	}

	rec.OutputDir = config.ExpandPath(rec.OutputDir)
	return rec
}

// resolveDevice returns the capture device and a description for the banner.
// --input wins over --device, which wins over the configured device.
func resolveDevice(env *Env, loaded config.Config, opts recordOptions) (audio.Device, string, error) {
	if opts.input != "" {
		path := config.ExpandPath(opts.input)
		if _, err := os.Stat(path); err != nil {
			return nil, "", fmt.Errorf("input %s: %w", path, ErrFileNotFound)
		}
		return env.DeviceFactory.NewFileDevice(path), path, nil
	}

	name := opts.device
	if name == "" {
		name = loaded.Device
	}
	source := "default input"
	if name != "" {
		source = fmt.Sprintf("device %q", name)
	}
	return env.DeviceFactory.NewDevice(name), source, nil
}
