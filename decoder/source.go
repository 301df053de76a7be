package decoder

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source is where an image comes from. Open may be called more than once,
// for example once to probe metadata and once to decode.
type Source interface {
	Open() (io.ReadSeekCloser, error)

	// Name identifies the source in logs and errors.
	Name() string
}

// FileSource returns a Source reading the file at path.
func FileSource(path string) Source {
	return fileSource(filepath.Clean(path))
}

type fileSource string

func (s fileSource) Open() (io.ReadSeekCloser, error) {
	f, err := os.Open(string(s))
	if err != nil {
		return nil, fmt.Errorf("decoder: open file: %w", err)
	}
	return f, nil
}

func (s fileSource) Name() string {
	return string(s)
}

// BytesSource returns a Source serving an in-memory encoded image.
func BytesSource(name string, data []byte) Source {
	return &bytesSource{name: name, data: data}
}

type bytesSource struct {
	name string
	data []byte
}

func (s *bytesSource) Open() (io.ReadSeekCloser, error) {
	return nopCloser{bytes.NewReader(s.data)}, nil
}

func (s *bytesSource) Name() string {
	return s.name
}

type nopCloser struct {
	io.ReadSeeker
}

func (nopCloser) Close() error { return nil }
