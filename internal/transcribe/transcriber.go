// Package transcribe turns saved segments into text files using OpenAI's
// transcription API.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-segrec/internal/apierr"
	"github.com/alnah/go-segrec/internal/lang"
)

// ModelGPT4oMiniTranscribe is the cost-effective transcription model.
// Not yet a constant in go-openai.
const ModelGPT4oMiniTranscribe = "gpt-4o-mini-transcribe"

// Default retry configuration.
const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 1 * time.Second
	defaultMaxDelay   = 10 * time.Second
)

// Options configures transcription behavior.
type Options struct {
	// Prompt provides context to improve transcription accuracy,
	// e.g. domain vocabulary or expected speakers.
	Prompt string

	// Language specifies the audio language.
	// Zero value means auto-detect.
	Language lang.Language
}

// Transcriber transcribes audio files to text.
type Transcriber interface {
	// Transcribe converts the WAV file at audioPath to text.
	Transcribe(ctx context.Context, audioPath string, opts Options) (string, error)
}

// audioTranscriber is an internal interface for OpenAI audio transcription.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// Compile-time interface compliance checks.
var (
	_ Transcriber      = (*OpenAITranscriber)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

// OpenAITranscriber transcribes audio using OpenAI's transcription API.
// Transient errors (rate limits, timeouts, server errors) are retried with
// exponential backoff.
type OpenAITranscriber struct {
	client  audioTranscriber
	retry   apierr.RetryConfig
	onRetry func(path string, retry int, err error)
}

// TranscriberOption configures an OpenAITranscriber.
type TranscriberOption func(*OpenAITranscriber)

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(n int) TranscriberOption {
	return func(t *OpenAITranscriber) {
		if n >= 0 {
			t.retry.MaxRetries = n
		}
	}
}

// WithRetryDelays sets the base and max delays for exponential backoff.
func WithRetryDelays(base, max time.Duration) TranscriberOption {
	return func(t *OpenAITranscriber) {
		if base > 0 {
			t.retry.BaseDelay = base
		}
		if max > 0 {
			t.retry.MaxDelay = max
		}
	}
}

// WithRetryHook sets a callback invoked before each retry.
func WithRetryHook(fn func(path string, retry int, err error)) TranscriberOption {
	return func(t *OpenAITranscriber) {
		t.onRetry = fn
	}
}

// NewOpenAITranscriber creates a new OpenAITranscriber.
func NewOpenAITranscriber(client *openai.Client, opts ...TranscriberOption) *OpenAITranscriber {
	return newTranscriber(client, opts...)
}

func newTranscriber(client audioTranscriber, opts ...TranscriberOption) *OpenAITranscriber {
	t := &OpenAITranscriber{
		client: client,
		retry: apierr.RetryConfig{
			MaxRetries: defaultMaxRetries,
			BaseDelay:  defaultBaseDelay,
			MaxDelay:   defaultMaxDelay,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transcribe transcribes an audio file using OpenAI's API.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string, opts Options) (string, error) {
	req := openai.AudioRequest{
		Model:    ModelGPT4oMiniTranscribe,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatJSON,
		Prompt:   opts.Prompt,
		Language: opts.Language.BaseCode(), // OpenAI only accepts ISO 639-1 base codes
	}

	cfg := t.retry
	if t.onRetry != nil {
		cfg.OnRetry = func(retry int, err error) { t.onRetry(audioPath, retry, err) }
	}

	return apierr.RetryWithBackoff(ctx, cfg, func() (string, error) {
		resp, err := t.client.CreateTranscription(ctx, req)
		if err != nil {
			return "", classifyError(err)
		}
		return strings.TrimSpace(resp.Text), nil
	}, apierr.IsRetryable)
}

// classifyError maps OpenAI API errors to apierr sentinels.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Quota exceeded requires user action; a rate limit only needs time.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrServer)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}
