package netstr

import (
	"context"
	"io"
)

// ReadFrame reads the next netstring into buf and returns the payload length.
// The payload is buf[:n].
//
// If the netstring is longer than buf, ReadFrame returns ErrBufferTooSmall and
// the decoder becomes unusable. Returns io.EOF when the stream ends.
func (d *Decoder) ReadFrame(buf []byte) (int, error) {
	op := newReadOp(d.src, buf, d.cfg)
	if err := d.run(op); err != nil {
		return 0, err
	}
	return op.Len(), nil
}

// Decode reads the next standard netstring (no key) and returns its payload
// in a newly allocated slice.
//
// Returns io.EOF when the stream ends.
func (d *Decoder) Decode() ([]byte, error) {
	op := newAllocOp(d.src, d.cfg)
	if err := d.run(op); err != nil {
		return nil, err
	}
	return op.Bytes(), nil
}

// DecodeKeyed reads the next keyed netstring and returns its key and payload.
//
// The first byte of the netstring is the key, and the remaining bytes are the payload.
// Returns io.EOF when the stream ends.
func (d *Decoder) DecodeKeyed() (key byte, value []byte, err error) {
	payload, err := d.Decode()
	if err != nil {
		return 0, nil, err
	}

	// Length must be at least 1 (for the key)
	if len(payload) < 1 {
		return 0, nil, &FormatError{
			Offset: d.src.offset,
			Reason: "keyed netstring must have length >= 1",
		}
	}
	return payload[0], payload[1:], nil
}

// Skip consumes the next netstring without keeping its payload.
//
// The terminator is verified, so after a nil return the decoder sits on the
// next frame boundary and can keep reading. Returns io.EOF when the stream ends.
func (d *Decoder) Skip() error {
	return d.run(newSkipOp(d.src, d.cfg))
}

func (d *Decoder) run(op Op) error {
	if d.err != nil {
		return d.err
	}
	err := Run(context.Background(), op, d.cfg.retryDelay)
	if err != nil && err != io.EOF {
		d.err = err
	}
	return err
}
