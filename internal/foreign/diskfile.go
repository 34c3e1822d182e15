package foreign

import (
	"bufio"
	"io"
	"os"
)

// DiskFileOpener is the default FileOpener: it creates (or truncates)
// the named file on disk and buffers writes to it.
type DiskFileOpener struct{}

// Open creates name, truncating it if it already exists.
func (DiskFileOpener) Open(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &bufferedFile{f: f, w: bufio.NewWriter(f)}, nil
}

// bufferedFile flushes its buffer before closing the underlying file, so
// a caller that only ever calls Close sees every byte written.
type bufferedFile struct {
	f *os.File
	w *bufio.Writer
}

func (b *bufferedFile) Write(p []byte) (int, error) { return b.w.Write(p) }

func (b *bufferedFile) Close() error {
	if err := b.w.Flush(); err != nil {
		b.f.Close()
		return err
	}
	return b.f.Close()
}
