package storage

import "errors"

// ErrWriteFailed indicates a segment could not be persisted.
// The destination file is left untouched when this is returned.
var ErrWriteFailed = errors.New("segment write failed")
