package netstr

import (
	"fmt"
	"io"
	"math"
)

// header decodes the "<length>:" prefix of a netstring one byte per read.
// All progress lives in the struct so decoding can stop after any byte and
// resume on the next call.
type header struct {
	cfg    *config
	digits [maxDigits]byte
	n      int // digits accumulated so far
	length int
	done   bool
}

// step consumes length bytes until the separator has been checked.
//
// It returns io.EOF if the stream ended before the first length byte, which
// is the normal end of a netstring stream.
func (h *header) step(s *source) error {
	for !h.done {
		b, err := s.readByte()
		if err != nil {
			if err == io.EOF && h.n > 0 {
				return &FormatError{
					Offset: s.offset,
					Reason: "unexpected EOF in length field",
					Err:    io.ErrUnexpectedEOF,
				}
			}
			return err
		}

		// Skip filler before the first digit
		if h.n == 0 && h.cfg.skipPredicate != nil && h.cfg.skipPredicate(b) {
			continue
		}

		h.digits[h.n] = b
		if isDigit(b) && h.n < maxDigits-1 {
			h.n++
			continue
		}

		// b is the candidate separator, either the first non-digit or the
		// byte that filled the accumulator.
		if err := h.parse(s, b); err != nil {
			return err
		}
		h.done = true
	}
	return nil
}

func (h *header) parse(s *source, separator byte) error {
	digits := h.digits[:h.n]

	length := 0
	for _, c := range digits {
		d := int(c - '0')
		if length > (math.MaxInt-d)/10 {
			return &FormatError{
				Offset: s.offset,
				Reason: fmt.Sprintf("integer overflow while parsing length %q", digits),
				Err:    ErrOverflow,
			}
		}
		length = length*10 + d
	}

	if separator != ':' {
		return &FormatError{
			Offset: s.offset,
			Reason: fmt.Sprintf("expected ':', got %q", rune(separator)),
			Byte:   separator,
			Err:    ErrSeparator,
		}
	}

	if h.cfg.strict {
		if len(digits) == 0 {
			return &FormatError{
				Offset: s.offset,
				Reason: "length field is empty",
			}
		}
		if len(digits) > 1 && digits[0] == '0' {
			return &FormatError{
				Offset: s.offset,
				Reason: "length field has leading zero",
			}
		}
	}

	if h.cfg.maxLength > 0 && length > h.cfg.maxLength {
		return ErrTooLarge
	}

	h.length = length
	return nil
}
