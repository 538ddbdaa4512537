package netstr

import (
	"time"
	"unicode"
)

const (
	// maxDigits is len("18446744073709551615") plus one slot for the separator.
	maxDigits = 21

	// scratchSize is the chunk size used when discarding a payload.
	scratchSize = 1024
)

// config holds decoder configuration.
type config struct {
	skipPredicate SkipPredicate
	strict        bool
	maxLength     int
	retryDelay    time.Duration
}

func newConfig(opts []Option) *config {
	cfg := &config{
		skipPredicate: nil, // nil means skip nothing
		maxLength:     0,   // 0 means no limit
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a Decoder, an Encoder or a single operation.
type Option func(*config)

// SkipPredicate reports whether a byte found before the length digits
// should be dropped.
type SkipPredicate func(b byte) bool

// SkipNone drops nothing before the length field. This is the default.
func SkipNone() Option {
	return func(c *config) {
		c.skipPredicate = nil
	}
}

// SkipASCIIWhitespace drops space, \t, \n, \r, \v and \f before the length digits.
func SkipASCIIWhitespace() Option {
	return SkipBytes(func(b byte) bool {
		switch b {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			return true
		}
		return false
	})
}

// SkipUnicodeWhitespace drops any byte that is a Unicode space when read as
// a Latin-1 rune, which adds NEL (0x85) and NBSP (0xA0) to the ASCII set.
func SkipUnicodeWhitespace() Option {
	return SkipBytes(func(b byte) bool {
		return unicode.IsSpace(rune(b))
	})
}

// SkipBytes drops bytes matching fn before the length digits.
// Bytes inside the payload are never dropped.
func SkipBytes(fn SkipPredicate) Option {
	return func(c *config) {
		c.skipPredicate = fn
	}
}

// Lenient enables tolerance for whitespace between netstrings.
// Whitespace (space, tab, \n, \r) is skipped before the length digits.
// Whitespace inside the payload is always preserved.
//
// This is useful for debugging producers that use echo or println,
// which add trailing newlines.
func Lenient() Option {
	return SkipBytes(isWhitespace)
}

// Strict rejects length fields that are empty or carry leading zeros.
// By default any digit run is accepted and an empty run means length 0.
func Strict() Option {
	return func(c *config) {
		c.strict = true
	}
}

// MaxLength sets the maximum allowed netstring length in bytes.
// Netstrings with length fields exceeding this value return ErrTooLarge
// before any payload byte is read.
//
// Default: 0, no limit. Set it when reading from untrusted peers with
// Decode, which allocates the declared length.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

// RetryDelay sets how long a Decoder or Encoder waits after the stream
// reports ErrWouldBlock. Zero yields the goroutine and retries immediately.
func RetryDelay(d time.Duration) Option {
	return func(c *config) {
		c.retryDelay = d
	}
}

// isWhitespace returns true if b is a whitespace character.
// Whitespace is defined as: space, tab, \n, \r
func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
