package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/alnah/go-segrec/internal/audio"
	"github.com/alnah/go-segrec/internal/config"
	"github.com/alnah/go-segrec/internal/interrupt"
	"github.com/alnah/go-segrec/internal/transcribe"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock DeviceFactory + Device + DeviceLister
// ---------------------------------------------------------------------------

type mockDeviceFactory struct {
	// Device is returned by both NewDevice and NewFileDevice.
	Device *mockDevice
	Lister *mockDeviceLister

	mu        sync.Mutex
	names     []string
	filePaths []string
}

func (m *mockDeviceFactory) NewDevice(name string) audio.Device {
	m.mu.Lock()
	m.names = append(m.names, name)
	m.mu.Unlock()
	return m.device()
}

func (m *mockDeviceFactory) NewFileDevice(path string) audio.Device {
	m.mu.Lock()
	m.filePaths = append(m.filePaths, path)
	m.mu.Unlock()
	return m.device()
}

func (m *mockDeviceFactory) NewDeviceLister() audio.DeviceLister {
	if m.Lister != nil {
		return m.Lister
	}
	return &mockDeviceLister{}
}

func (m *mockDeviceFactory) device() *mockDevice {
	if m.Device != nil {
		return m.Device
	}
	return &mockDevice{}
}

func (m *mockDeviceFactory) DeviceNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.names...)
}

func (m *mockDeviceFactory) FilePaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.filePaths...)
}

// mockDevice yields one chunk per scripted amplitude, then io.EOF.
type mockDevice struct {
	Script  []float32
	OpenErr error
	OnRead  func(read int)

	mu       sync.Mutex
	reads    int
	openRate int
}

func (d *mockDevice) Open(sampleRate int) (audio.Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	d.openRate = sampleRate
	return &mockStream{d: d}, nil
}

func (d *mockDevice) OpenRate() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openRate
}

func (d *mockDevice) Reads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads
}

type mockStream struct {
	d *mockDevice
}

func (s *mockStream) Read(n int) ([]float32, error) {
	d := s.d
	d.mu.Lock()
	read := d.reads
	d.reads++
	onRead := d.OnRead
	var samples []float32
	if read < len(d.Script) {
		samples = make([]float32, n)
		for i := range samples {
			samples[i] = d.Script[read]
		}
	}
	d.mu.Unlock()

	if onRead != nil {
		onRead(read + 1)
	}
	if samples == nil {
		return nil, io.EOF
	}
	return samples, nil
}

func (s *mockStream) Close() error { return nil }

type mockDeviceLister struct {
	ListDevicesFunc func() ([]string, error)
}

func (m *mockDeviceLister) ListDevices() ([]string, error) {
	if m.ListDevicesFunc != nil {
		return m.ListDevicesFunc()
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Mock TranscriberFactory + Transcriber
// ---------------------------------------------------------------------------

type mockTranscriberFactory struct {
	NewTranscriberFunc func(apiKey string) transcribe.Transcriber

	mu                  sync.Mutex
	newTranscriberCalls []string // API keys passed
}

func (m *mockTranscriberFactory) NewTranscriber(apiKey string, _ *slog.Logger) transcribe.Transcriber {
	m.mu.Lock()
	m.newTranscriberCalls = append(m.newTranscriberCalls, apiKey)
	m.mu.Unlock()

	if m.NewTranscriberFunc != nil {
		return m.NewTranscriberFunc(apiKey)
	}
	return &mockTranscriber{}
}

func (m *mockTranscriberFactory) NewTranscriberCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newTranscriberCalls...)
}

type mockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audioPath string, opts transcribe.Options) (string, error)

	mu              sync.Mutex
	transcribeCalls []transcribeCall
}

type transcribeCall struct {
	AudioPath string
	Opts      transcribe.Options
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string, opts transcribe.Options) (string, error) {
	m.mu.Lock()
	m.transcribeCalls = append(m.transcribeCalls, transcribeCall{AudioPath: audioPath, Opts: opts})
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath, opts)
	}
	return "transcribed text", nil
}

func (m *mockTranscriber) TranscribeCalls() []transcribeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]transcribeCall(nil), m.transcribeCalls...)
}

// ---------------------------------------------------------------------------
// Mock InterruptFactory
// ---------------------------------------------------------------------------

// mockInterruptFactory installs a handler without OS signal delivery.
// Interrupt simulates the first Ctrl+C.
type mockInterruptFactory struct {
	mu          sync.Mutex
	onInterrupt func()
	calls       int
}

func (m *mockInterruptFactory) NewHandler(parent context.Context, onInterrupt func()) (*interrupt.Handler, context.Context) {
	m.mu.Lock()
	m.onInterrupt = onInterrupt
	m.calls++
	m.mu.Unlock()
	return interrupt.NewHandlerWithOptions(parent, interrupt.Options{
		OnInterrupt: onInterrupt,
		Stderr:      io.Discard,
	})
}

func (m *mockInterruptFactory) Interrupt() {
	m.mu.Lock()
	fn := m.onInterrupt
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (m *mockInterruptFactory) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	devices      *mockDeviceFactory
	transcriber  *mockTranscriberFactory
	interrupts   *mockInterruptFactory
	stdout       *syncBuffer
	stderr       *syncBuffer
}

// testEnv creates a test Env with all dependencies mocked.
// Control input is empty, so only the device or an interrupt ends a session.
func testEnv(getenv func(string) string) (*Env, *testMocks) {
	mocks := &testMocks{
		configLoader: &mockConfigLoader{},
		devices:      &mockDeviceFactory{},
		transcriber:  &mockTranscriberFactory{},
		interrupts:   &mockInterruptFactory{},
		stdout:       &syncBuffer{},
		stderr:       &syncBuffer{},
	}
	if getenv == nil {
		getenv = staticEnv(nil)
	}

	env := &Env{
		Stdin:              bytes.NewReader(nil),
		Stdout:             mocks.stdout,
		Stderr:             mocks.stderr,
		Getenv:             getenv,
		ConfigLoader:       mocks.configLoader,
		DeviceFactory:      mocks.devices,
		TranscriberFactory: mocks.transcriber,
		InterruptFactory:   mocks.interrupts,
	}
	return env, mocks
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// loud returns n loud tick amplitudes.
func loud(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = 0.5
	}
	return out
}
