package config

import "errors"

// ErrInvalidConfig indicates a configuration value is out of range or unparsable.
// Wrap with the offending key: fmt.Errorf("sample-rate %q: %w", v, ErrInvalidConfig)
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrInvalidKey indicates an unknown or malformed configuration key.
var ErrInvalidKey = errors.New("invalid config key")

// ErrNotDirectory indicates the output path exists but is not a directory.
var ErrNotDirectory = errors.New("path is not a directory")

// ErrNotWritable indicates the output directory cannot be written to.
var ErrNotWritable = errors.New("directory is not writable")
