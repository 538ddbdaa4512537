package netstr

import (
	"fmt"
	"io"
)

type stage uint8

const (
	stageHeader stage = iota
	stageBody
	stageTerminator
	stageDone
)

// target receives the payload of a frame. The three read operations differ
// only in their target.
type target interface {
	// reserve is called once the length is known and before any payload
	// byte is read.
	reserve(length int) error

	// window returns where the payload bytes after the first got bytes go,
	// capped at the declared length. It is empty once the payload is complete.
	window(got int) []byte
}

// reader runs header, payload and terminator in order for any target.
type reader struct {
	src   *source
	hdr   header
	dst   target
	stage stage
	got   int
	err   error // terminal error, never ErrWouldBlock
}

func (r *reader) step() error {
	if r.err != nil {
		return r.err
	}

	for {
		switch r.stage {
		case stageHeader:
			if err := r.hdr.step(r.src); err != nil {
				return r.fail(err)
			}
			if err := r.dst.reserve(r.hdr.length); err != nil {
				return r.fail(err)
			}
			r.stage = stageBody

		case stageBody:
			w := r.dst.window(r.got)
			if len(w) == 0 {
				r.stage = stageTerminator
				continue
			}
			n, err := r.src.read(w)
			r.got += n
			if err != nil {
				if err == io.EOF {
					err = &FormatError{
						Offset: r.src.offset,
						Reason: fmt.Sprintf("unexpected EOF: expected %d bytes, got %d", r.hdr.length, r.got),
						Err:    io.ErrUnexpectedEOF,
					}
				}
				return r.fail(err)
			}

		case stageTerminator:
			b, err := r.src.readByte()
			if err != nil {
				if err == io.EOF {
					err = &FormatError{
						Offset: r.src.offset,
						Reason: "unexpected EOF: expected ','",
						Err:    io.ErrUnexpectedEOF,
					}
				}
				return r.fail(err)
			}
			if b != ',' {
				return r.fail(&FormatError{
					Offset: r.src.offset,
					Reason: fmt.Sprintf("expected ',', got %q", rune(b)),
					Byte:   b,
					Err:    ErrTerminator,
				})
			}
			r.stage = stageDone

		case stageDone:
			return nil
		}
	}
}

func (r *reader) fail(err error) error {
	if !isWouldBlock(err) {
		r.err = err
	}
	return err
}

func (r *reader) done() bool {
	return r.stage == stageDone
}

// borrowed fills a buffer owned by the caller and never writes past the
// declared length.
type borrowed struct {
	buf    []byte
	length int
}

func (b *borrowed) reserve(length int) error {
	if len(b.buf) < length {
		return ErrBufferTooSmall
	}
	b.length = length
	return nil
}

func (b *borrowed) window(got int) []byte {
	return b.buf[got:b.length]
}

// ReadOp reads one netstring into a caller-supplied buffer.
//
// The buffer is borrowed until the operation completes or fails. If the
// declared length exceeds len(buf), Step fails with ErrBufferTooSmall before
// any payload byte is read.
type ReadOp struct {
	r   reader
	dst borrowed
}

// NewReadOp creates an operation that reads one netstring from r into buf.
func NewReadOp(r io.Reader, buf []byte, opts ...Option) *ReadOp {
	return newReadOp(newSource(r), buf, newConfig(opts))
}

func newReadOp(src *source, buf []byte, cfg *config) *ReadOp {
	op := &ReadOp{dst: borrowed{buf: buf}}
	op.r = reader{src: src, hdr: header{cfg: cfg}, dst: &op.dst}
	return op
}

// Step advances the read until it completes, fails, or would block.
// It returns nil on completion and ErrWouldBlock while the source has no data.
// io.EOF means the stream ended cleanly before the frame began.
func (op *ReadOp) Step() error {
	return op.r.step()
}

// Len returns the payload length once Step has returned nil.
// The payload is buf[:Len()].
func (op *ReadOp) Len() int {
	if !op.r.done() {
		return 0
	}
	return op.r.hdr.length
}
