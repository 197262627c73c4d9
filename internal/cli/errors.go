package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrInvalidLogSetting indicates an unknown --log-level or --log-format value.
	ErrInvalidLogSetting = errors.New("invalid log setting")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")
)
