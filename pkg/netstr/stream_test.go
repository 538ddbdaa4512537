package netstr

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"code.hybscloud.com/iox"
	"github.com/stretchr/testify/require"
)

// chunkReader delivers chunks in order and reports iox.ErrWouldBlock before
// each one, so every chunk boundary is a suspension point.
type chunkReader struct {
	chunks [][]byte
	ready  bool
}

func newChunkReader(chunks ...[]byte) *chunkReader {
	return &chunkReader{chunks: chunks}
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	if !r.ready {
		r.ready = true
		return 0, iox.ErrWouldBlock
	}
	c := r.chunks[0]
	n := copy(p, c)
	if n < len(c) {
		r.chunks[0] = c[n:]
	} else {
		r.chunks = r.chunks[1:]
		r.ready = false
	}
	return n, nil
}

// split cuts s into pieces of at most size bytes.
func split(s string, size int) [][]byte {
	var out [][]byte
	for len(s) > 0 {
		n := min(size, len(s))
		out = append(out, []byte(s[:n]))
		s = s[n:]
	}
	return out
}

// idleReader never has data.
type idleReader struct{ calls int }

func (r *idleReader) Read(p []byte) (int, error) {
	r.calls++
	return 0, nil
}

// errReader fails every read.
type errReader struct{ err error }

func (r errReader) Read(p []byte) (int, error) {
	return 0, r.err
}

// sink is a configurable io.Writer with an optional Flush.
type sink struct {
	buf       bytes.Buffer
	limit     int  // max bytes accepted per Write, 0 for no limit
	block     bool // report ErrWouldBlock before every accepted Write
	blocked   bool
	reject    bool // accept nothing and return no error
	writeErr  error
	flushes   int
	flushErr  error
	flushWait int // flush calls that report ErrWouldBlock before succeeding
}

func (s *sink) Write(p []byte) (int, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	if s.reject {
		return 0, nil
	}
	if s.block && !s.blocked {
		s.blocked = true
		return 0, iox.ErrWouldBlock
	}
	s.blocked = false
	if s.limit > 0 && len(p) > s.limit {
		p = p[:s.limit]
	}
	return s.buf.Write(p)
}

// flushSink adds Flush to sink.
type flushSink struct {
	sink
}

func (s *flushSink) Flush() error {
	s.flushes++
	if s.flushWait > 0 {
		s.flushWait--
		return iox.ErrWouldBlock
	}
	return s.flushErr
}

// drive steps op to completion and counts how often it suspended.
func drive(t *testing.T, op Op) (blocks int, err error) {
	t.Helper()
	for i := 0; i < 1_000_000; i++ {
		err = op.Step()
		if !errors.Is(err, ErrWouldBlock) {
			return blocks, err
		}
		blocks++
	}
	require.FailNow(t, "operation never finished")
	return blocks, nil
}
