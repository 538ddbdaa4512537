package netstr

import (
	"bufio"
	"io"
)

// source is the read side of one stream, shared by every operation run on it.
type source struct {
	r      io.Reader
	br     io.ByteReader // set when r implements it, see newSource
	offset int64
	err    error // error that arrived together with data, reported on the next read
	one    [1]byte
}

// newSource uses ReadByte when r has it, except on *bufio.Reader. Its ReadByte
// gives up with io.ErrNoProgress after repeated (0, nil) reads from the
// underlying reader, while its Read makes a single attempt.
func newSource(r io.Reader) *source {
	s := &source{r: r}
	if _, ok := r.(*bufio.Reader); ok {
		return s
	}
	if br, ok := r.(io.ByteReader); ok {
		s.br = br
	}
	return s
}

// readByte reads exactly one byte. A reader that returns neither data nor an
// error reports ErrWouldBlock.
func (s *source) readByte() (byte, error) {
	if err := s.takeErr(); err != nil {
		return 0, err
	}
	if s.br != nil {
		b, err := s.br.ReadByte()
		if err != nil {
			return 0, err
		}
		s.offset++
		return b, nil
	}

	n, err := s.r.Read(s.one[:])
	if n == 1 {
		s.offset++
		s.keepErr(err)
		return s.one[0], nil
	}
	if err == nil {
		return 0, ErrWouldBlock
	}
	return 0, err
}

// read reads at most len(p) bytes. Progress is reported before any error
// that came with it.
func (s *source) read(p []byte) (int, error) {
	if err := s.takeErr(); err != nil {
		return 0, err
	}
	n, err := s.r.Read(p)
	if n > 0 {
		s.offset += int64(n)
		s.keepErr(err)
		return n, nil
	}
	if err == nil {
		return 0, ErrWouldBlock
	}
	return 0, err
}

func (s *source) keepErr(err error) {
	if err != nil && !isWouldBlock(err) {
		s.err = err
	}
}

func (s *source) takeErr() error {
	err := s.err
	s.err = nil
	return err
}
