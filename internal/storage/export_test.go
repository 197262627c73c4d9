package storage

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// ToPCM16 exports toPCM16 for testing.
var ToPCM16 = toPCM16

// FileWriter exports fileWriter so tests can build fakes.
type FileWriter = fileWriter

// WithFileWriter exports withFileWriter for testing.
var WithFileWriter = withFileWriter
