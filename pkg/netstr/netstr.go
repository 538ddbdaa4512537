package netstr

import "io"

// Decoder reads netstrings from an io.Reader.
//
// If r also implements io.ByteReader (*bytes.Reader, *strings.Reader) the
// length field and terminator are read through ReadByte. Such a reader must
// report a pending stream as ErrWouldBlock, since ReadByte cannot return
// (0, nil). A *bufio.Reader is always read through Read, so it may wrap a
// source that reports pending as (0, nil). For network streams, wrap your
// io.Reader in bufio.Reader:
//
//	dec := netstr.NewDecoder(bufio.NewReader(conn))
//
// When the reader returns ErrWouldBlock the decoder waits and retries, see
// RetryDelay. Callers that must not block use NewReadOp, NewAllocOp and
// NewSkipOp directly.
//
// A Decoder is not safe for concurrent use. After any framing error the
// stream position is unknown, and every later call returns the same error.
type Decoder struct {
	src *source
	cfg *config
	err error // sticky framing error
}

// NewDecoder creates a new netstring decoder.
//
// Optional configuration can be provided via Option functions.
//
// Example:
//
//	dec := netstr.NewDecoder(bufio.NewReader(conn), netstr.SkipASCIIWhitespace())
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{
		src: newSource(r),
		cfg: newConfig(opts),
	}
}

// Reset discards the decoder state, including a sticky error, and reads
// from r from now on.
func (d *Decoder) Reset(r io.Reader) {
	d.src = newSource(r)
	d.err = nil
}

// Offset returns the number of bytes consumed from the stream.
func (d *Decoder) Offset() int64 {
	return d.src.offset
}

// Encoder writes netstrings to an io.Writer.
//
// The encoder writes each netstring with as few Write calls as the writer
// allows. If w implements Flusher (bufio.Writer does) it is flushed after
// every netstring:
//
//	enc := netstr.NewEncoder(bufio.NewWriter(conn))
type Encoder struct {
	w   io.Writer
	cfg *config
	err error // sticky write error
}

// NewEncoder creates a new netstring encoder that writes to w.
// Only RetryDelay applies to an Encoder.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, cfg: newConfig(opts)}
}
