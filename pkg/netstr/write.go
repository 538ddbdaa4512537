package netstr

import (
	"fmt"
	"io"
)

// maxOverhead is the largest length field plus ':' and ','.
const maxOverhead = maxDigits + 1

// Flusher is implemented by sinks that buffer, such as *bufio.Writer.
// A WriteOp flushes such a sink once the whole frame has been written.
type Flusher interface {
	Flush() error
}

// WriteOp writes one netstring to an io.Writer.
//
// The frame is encoded into one buffer when the operation is created, so the
// payload slice may be reused as soon as NewWriteOp returns.
type WriteOp struct {
	w       io.Writer
	frame   []byte
	written int
	flushed bool
	err     error
}

// NewWriteOp creates an operation that writes data as "<len>:<data>,".
func NewWriteOp(w io.Writer, data []byte) *WriteOp {
	frame := fmt.Appendf(make([]byte, 0, len(data)+maxOverhead), "%d:", len(data))
	frame = append(frame, data...)
	frame = append(frame, ',')
	return &WriteOp{w: w, frame: frame}
}

// NewKeyedWriteOp creates an operation that writes a keyed netstring, where
// key is the first payload byte: "<1+len>:<key><data>,".
func NewKeyedWriteOp(w io.Writer, key byte, data []byte) *WriteOp {
	frame := fmt.Appendf(make([]byte, 0, len(data)+1+maxOverhead), "%d:", 1+len(data))
	frame = append(frame, key)
	frame = append(frame, data...)
	frame = append(frame, ',')
	return &WriteOp{w: w, frame: frame}
}

// Step writes the unwritten rest of the frame and then flushes the sink.
// It returns nil on completion and ErrWouldBlock while the sink is busy.
// A sink that accepts zero bytes without an error fails the operation with
// ErrWriteRejected.
func (op *WriteOp) Step() error {
	if op.err != nil {
		return op.err
	}

	for op.written < len(op.frame) {
		n, err := op.w.Write(op.frame[op.written:])
		op.written += n
		if err != nil {
			return op.fail(err)
		}
		if n == 0 {
			return op.fail(ErrWriteRejected)
		}
	}

	if !op.flushed {
		if f, ok := op.w.(Flusher); ok {
			if err := f.Flush(); err != nil {
				return op.fail(err)
			}
		}
		op.flushed = true
	}
	return nil
}

func (op *WriteOp) fail(err error) error {
	if !isWouldBlock(err) {
		op.err = err
	}
	return err
}

// Written returns how many frame bytes the sink has accepted so far.
func (op *WriteOp) Written() int {
	return op.written
}

// Len returns the size of the encoded frame.
func (op *WriteOp) Len() int {
	return len(op.frame)
}
