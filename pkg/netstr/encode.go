package netstr

import "context"

// Encode writes a standard netstring (no key) containing data.
//
// The netstring format is: <length>:<data>,
//
// Example:
//
//	enc.Encode([]byte("hello")) // writes "5:hello,"
func (e *Encoder) Encode(data []byte) error {
	return e.run(NewWriteOp(e.w, data))
}

// EncodeKeyed writes a keyed netstring with the given key and data.
//
// The key is prepended to the data as the first byte of the payload.
// The netstring format is: <length>:<key><data>,
//
// Example:
//
//	enc.EncodeKeyed('t', []byte("token")) // writes "6:ttoken,"
func (e *Encoder) EncodeKeyed(key byte, data []byte) error {
	return e.run(NewKeyedWriteOp(e.w, key, data))
}

// EncodeString is a convenience method that encodes a string as a standard netstring.
func (e *Encoder) EncodeString(s string) error {
	return e.Encode([]byte(s))
}

// EncodeKeyedString is a convenience method that encodes a string as a keyed netstring.
func (e *Encoder) EncodeKeyedString(key byte, s string) error {
	return e.EncodeKeyed(key, []byte(s))
}

func (e *Encoder) run(op *WriteOp) error {
	if e.err != nil {
		return e.err
	}
	if err := Run(context.Background(), op, e.cfg.retryDelay); err != nil {
		e.err = err
		return err
	}
	return nil
}
