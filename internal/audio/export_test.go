package audio

// Export internal types and options for testing.
// This file is only compiled during tests (suffix _test.go).

// FileOpener exports fileOpener for testing.
type FileOpener = fileOpener

// WithFileOpener exports withFileOpener for testing.
var WithFileOpener = withFileOpener
