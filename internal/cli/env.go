package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-segrec/internal/audio"
	"github.com/alnah/go-segrec/internal/config"
	"github.com/alnah/go-segrec/internal/interrupt"
	"github.com/alnah/go-segrec/internal/transcribe"
)

// EnvOpenAIAPIKey is the environment variable holding the OpenAI API key.
const EnvOpenAIAPIKey = "OPENAI_API_KEY"

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader       ConfigLoader
	DeviceFactory      DeviceFactory
	TranscriberFactory TranscriberFactory
	InterruptFactory   InterruptFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// DeviceFactory creates capture devices.
type DeviceFactory interface {
	// NewDevice returns the live input whose name contains name.
	// An empty name selects the system default input.
	NewDevice(name string) audio.Device
	// NewFileDevice returns a device replaying the WAV file at path.
	NewFileDevice(path string) audio.Device
	NewDeviceLister() audio.DeviceLister
}

// TranscriberFactory creates transcribers for audio-to-text conversion.
type TranscriberFactory interface {
	NewTranscriber(apiKey string, logger *slog.Logger) transcribe.Transcriber
}

// InterruptFactory installs Ctrl+C handling for a recording session.
// onInterrupt runs on the first interrupt, before the returned context is canceled.
type InterruptFactory interface {
	NewHandler(parent context.Context, onInterrupt func()) (*interrupt.Handler, context.Context)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdin sets the control input reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithDeviceFactory sets the device factory.
func WithDeviceFactory(f DeviceFactory) EnvOption {
	return func(e *Env) {
		e.DeviceFactory = f
	}
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) {
		e.TranscriberFactory = f
	}
}

// WithInterruptFactory sets the interrupt handler factory.
func WithInterruptFactory(f InterruptFactory) EnvOption {
	return func(e *Env) {
		e.InterruptFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdin:              os.Stdin,
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		ConfigLoader:       &defaultConfigLoader{},
		DeviceFactory:      &defaultDeviceFactory{},
		TranscriberFactory: &defaultTranscriberFactory{},
		InterruptFactory:   &defaultInterruptFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultDeviceFactory implements DeviceFactory using PortAudio and WAV replay.
type defaultDeviceFactory struct{}

func (defaultDeviceFactory) NewDevice(name string) audio.Device {
	return audio.NewPortAudioDevice(name)
}

func (defaultDeviceFactory) NewFileDevice(path string) audio.Device {
	return audio.NewFileDevice(path)
}

func (defaultDeviceFactory) NewDeviceLister() audio.DeviceLister {
	return audio.NewPortAudioDevice("")
}

// defaultTranscriberFactory implements TranscriberFactory using OpenAI.
type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewTranscriber(apiKey string, logger *slog.Logger) transcribe.Transcriber {
	client := openai.NewClient(apiKey)
	return transcribe.NewOpenAITranscriber(client,
		transcribe.WithRetryHook(func(path string, retry int, err error) {
			logger.Warn("transcription retry", "path", path, "retry", retry, "error", err)
		}))
}

// defaultInterruptFactory implements InterruptFactory with SIGINT/SIGTERM.
type defaultInterruptFactory struct{}

func (defaultInterruptFactory) NewHandler(parent context.Context, onInterrupt func()) (*interrupt.Handler, context.Context) {
	return interrupt.NewHandler(parent, onInterrupt)
}

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ DeviceFactory      = (*defaultDeviceFactory)(nil)
	_ TranscriberFactory = (*defaultTranscriberFactory)(nil)
	_ InterruptFactory   = (*defaultInterruptFactory)(nil)
)
