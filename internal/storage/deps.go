package storage

import "os"

// fileWriter abstracts the filesystem operations used for atomic writes.
type fileWriter interface {
	CreateTemp(dir, pattern string) (*os.File, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// Compile-time interface verification.
var _ fileWriter = osFileWriter{}

// osFileWriter implements fileWriter using the os package.
type osFileWriter struct{}

func (osFileWriter) CreateTemp(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (osFileWriter) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (osFileWriter) Remove(name string) error {
	return os.Remove(name)
}
