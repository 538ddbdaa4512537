package netstr

import (
	"fmt"
	"io"
	"math"
)

// maxAlloc is the largest payload AllocOp tries to allocate. Larger lengths
// are valid frames but make([]byte) would panic on them.
const maxAlloc = min(math.MaxInt, 1<<47)

// owned allocates the payload buffer once the length is known.
type owned struct {
	buf []byte
}

func (o *owned) reserve(length int) error {
	if length > maxAlloc {
		return fmt.Errorf("%w: cannot allocate %d bytes", ErrTooLarge, length)
	}
	o.buf = make([]byte, length)
	return nil
}

func (o *owned) window(got int) []byte {
	return o.buf[got:]
}

// AllocOp reads one netstring into a buffer it allocates itself.
//
// The allocation is exactly the declared length, so a peer can make it
// allocate as much as its length field claims. Use MaxLength when reading
// from untrusted peers.
type AllocOp struct {
	r   reader
	dst owned
}

// NewAllocOp creates an operation that reads one netstring from r.
func NewAllocOp(r io.Reader, opts ...Option) *AllocOp {
	return newAllocOp(newSource(r), newConfig(opts))
}

func newAllocOp(src *source, cfg *config) *AllocOp {
	op := &AllocOp{}
	op.r = reader{src: src, hdr: header{cfg: cfg}, dst: &op.dst}
	return op
}

// Step advances the read. See ReadOp.Step.
func (op *AllocOp) Step() error {
	return op.r.step()
}

// Bytes returns the payload once Step has returned nil, and nil before.
// The caller owns the returned slice.
func (op *AllocOp) Bytes() []byte {
	if !op.r.done() {
		return nil
	}
	return op.dst.buf
}
