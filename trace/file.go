package trace

import (
	"fmt"
	"io"
	"os"
)

// StdinPath is the path that makes Open read the trace from standard input.
const StdinPath = "-"

// A File is a Source backed by an open trace file. It must be closed.
type File struct {
	*Reader

	path   string
	closer io.Closer
}

// Open opens the trace at path.
func Open(path string) (*File, error) {
	if path == StdinPath {
		return &File{
			Reader: NewReader(os.Stdin),
			path:   path,
			closer: io.NopCloser(nil),
		}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	return &File{
		Reader: NewReader(f),
		path:   path,
		closer: f,
	}, nil
}

// Path returns the path the trace was opened from.
func (f *File) Path() string {
	return f.path
}

// Close releases the underlying file.
func (f *File) Close() error {
	return f.closer.Close()
}
