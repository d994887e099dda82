package streamio

import (
	"io"
	"iter"
)

// Ensure Reader satisfies the standard interfaces.
var _ io.ReadCloser = (*Reader)(nil)

// Reader exposes a pull sequence of byte chunks as an io.ReadCloser
// that can be consumed exactly once, sequentially, start to finish.
// After exhaustion or Close, Read returns io.EOF.
type Reader struct {
	next func() ([]byte, bool)
	stop func()
	buf  []byte
	done bool
}

// NewReader wraps a pull sequence of chunks. The sequence is advanced
// only on demand; no chunk is requested before the consumer reads.
func NewReader(seq iter.Seq[[]byte]) *Reader {
	next, stop := iter.Pull(seq)
	return &Reader{next: next, stop: stop}
}

// FromBytes returns a single-consumption reader over one chunk.
func FromBytes(b []byte) *Reader {
	return NewReader(func(yield func([]byte) bool) {
		yield(b)
	})
}

// Read copies the next bytes of the sequence into p.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.done {
			return 0, io.EOF
		}
		chunk, ok := r.next()
		if !ok {
			r.finish()
			return 0, io.EOF
		}
		r.buf = chunk
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// Close releases the underlying sequence. Subsequent reads return io.EOF.
func (r *Reader) Close() error {
	r.buf = nil
	r.finish()
	return nil
}

func (r *Reader) finish() {
	if r.done {
		return
	}
	r.done = true
	r.stop()
}
