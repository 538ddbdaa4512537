package netstr

import "io"

// discard drops payload bytes through a fixed scratch buffer.
type discard struct {
	scratch [scratchSize]byte
	length  int
}

func (d *discard) reserve(length int) error {
	d.length = length
	return nil
}

func (d *discard) window(got int) []byte {
	rem := d.length - got
	if rem > len(d.scratch) {
		rem = len(d.scratch)
	}
	return d.scratch[:rem]
}

// SkipOp consumes one netstring without keeping its payload. Memory use does
// not depend on the declared length.
//
// The terminator is still verified, so a completed skip leaves the stream on
// a frame boundary and the next netstring can be read.
type SkipOp struct {
	r   reader
	dst discard
}

// NewSkipOp creates an operation that skips one netstring on r.
func NewSkipOp(r io.Reader, opts ...Option) *SkipOp {
	return newSkipOp(newSource(r), newConfig(opts))
}

func newSkipOp(src *source, cfg *config) *SkipOp {
	op := &SkipOp{}
	op.r = reader{src: src, hdr: header{cfg: cfg}, dst: &op.dst}
	return op
}

// Step advances the skip. See ReadOp.Step.
func (op *SkipOp) Step() error {
	return op.r.step()
}

// Len returns the length of the skipped payload once Step has returned nil.
func (op *SkipOp) Len() int {
	if !op.r.done() {
		return 0
	}
	return op.r.hdr.length
}
