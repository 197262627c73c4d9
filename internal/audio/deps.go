package audio

import (
	"io"
	"os"
)

// fileOpener opens replay files for decoding.
type fileOpener interface {
	Open(name string) (io.ReadSeekCloser, error)
}

// --- Default implementation using real OS functions ---

// osFileOpener implements fileOpener using os.Open.
type osFileOpener struct{}

func (osFileOpener) Open(name string) (io.ReadSeekCloser, error) {
	return os.Open(name) // #nosec G304 -- path is the user-selected replay file
}
