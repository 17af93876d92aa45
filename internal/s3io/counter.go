package s3io

import (
	"io"
)

// ReadCounter wraps a reader and tracks how many bytes have passed
// through it. Used to report the bytes actually sent on an upload.
type ReadCounter interface {
	Read(p []byte) (int, error)
	Close() error

	TotalBytes() int64
}

// WriteCounter is the writer-side equivalent, used on downloads.
type WriteCounter interface {
	Write(p []byte) (int, error)
	Close() error

	TotalBytes() int64
}

func NewReadCounter(in io.Reader) ReadCounter {
	return &readCounter{in: in}
}

func NewWriteCounter(out io.Writer) WriteCounter {
	return &writeCounter{out: out}
}

type readCounter struct {
	in    io.Reader
	bytes int64
}

func (rc *readCounter) Read(p []byte) (int, error) {
	size, err := rc.in.Read(p)
	rc.bytes += int64(size)

	return size, err
}

func (rc *readCounter) Close() error {
	rc.in = nil
	return nil
}

func (rc *readCounter) TotalBytes() int64 {
	return rc.bytes
}

type writeCounter struct {
	out   io.Writer
	bytes int64
}

func (wc *writeCounter) Write(p []byte) (int, error) {
	size, err := wc.out.Write(p)
	wc.bytes += int64(size)

	return size, err
}

func (wc *writeCounter) Close() error {
	wc.out = nil
	return nil
}

func (wc *writeCounter) TotalBytes() int64 {
	return wc.bytes
}
