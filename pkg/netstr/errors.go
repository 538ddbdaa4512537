package netstr

import (
	"errors"
	"fmt"
	"io"

	"code.hybscloud.com/iox"
)

// Sentinel errors
var (
	// ErrInvalidFormat indicates a malformed netstring. Every *FormatError
	// matches it.
	ErrInvalidFormat = errors.New("netstr: invalid format")

	// ErrOverflow indicates the length digits do not fit in an int.
	ErrOverflow = errors.New("netstr: integer overflow while parsing length")

	// ErrSeparator indicates the byte after the length digits was not ':'.
	ErrSeparator = errors.New("netstr: malformed separator")

	// ErrTerminator indicates the byte after the payload was not ','.
	ErrTerminator = errors.New("netstr: malformed terminator")

	// ErrTooLarge indicates a netstring length exceeds the configured maximum.
	ErrTooLarge = errors.New("netstr: length exceeds maximum")

	// ErrBufferTooSmall indicates the declared length exceeds the capacity of
	// the caller's buffer. The length prefix has been consumed, the payload
	// has not, so the stream can no longer be framed.
	ErrBufferTooSmall = errors.New("netstr: buffer too small for netstring")

	// ErrWriteRejected indicates the sink accepted zero bytes while part of
	// the frame was still unwritten.
	ErrWriteRejected = fmt.Errorf("netstr: write rejected: %w", io.ErrShortWrite)

	// ErrWouldBlock is returned by Step when the source or sink has no data
	// or capacity right now. It is not a failure: call Step again later.
	ErrWouldBlock = iox.ErrWouldBlock
)

// FormatError provides detailed information about a parsing error.
type FormatError struct {
	Offset int64  // Byte offset in the stream where the error was detected
	Reason string // Human-readable explanation
	Byte   byte   // Offending byte for separator and terminator errors
	Err    error  // Specific cause, such as ErrSeparator or io.ErrUnexpectedEOF
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("netstr: format error at offset %d: %s", e.Offset, e.Reason)
}

func (e *FormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidFormat}
	}
	return []error{e.Err, ErrInvalidFormat}
}

func isWouldBlock(err error) bool {
	return errors.Is(err, ErrWouldBlock)
}
