package transcribe

// Exports for testing. These allow black-box tests to inject dependencies
// without modifying the public API.

// AudioTranscriber exports audioTranscriber so tests can build fakes.
type AudioTranscriber = audioTranscriber

// NewTestTranscriber creates an OpenAITranscriber with a mock audioTranscriber.
// This allows testing without a real OpenAI client.
func NewTestTranscriber(client audioTranscriber, opts ...TranscriberOption) *OpenAITranscriber {
	return newTranscriber(client, opts...)
}

// ClassifyError exports classifyError for unit testing.
var ClassifyError = classifyError
