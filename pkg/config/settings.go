package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/epithet-ssh/netstr/pkg/netstr"
)

// Settings is the decoder configuration shared by the netstr commands.
type Settings struct {
	MaxLength  int    `json:"max_length"`
	Strict     bool   `json:"strict"`
	Lenient    bool   `json:"lenient"`
	Whitespace string `json:"whitespace"` // "", "none", "ascii" or "unicode"
	RetryDelay string `json:"retry_delay"`
}

// Validate reports settings that cannot be turned into decoder options.
func (s Settings) Validate() error {
	if s.MaxLength < 0 {
		return errors.New("max_length must not be negative")
	}
	switch s.Whitespace {
	case "", "none", "ascii", "unicode":
	default:
		return fmt.Errorf("unknown whitespace mode %q", s.Whitespace)
	}
	if s.Lenient && s.Whitespace != "" {
		return errors.New("lenient and whitespace are mutually exclusive")
	}
	if s.RetryDelay != "" {
		d, err := time.ParseDuration(s.RetryDelay)
		if err != nil {
			return fmt.Errorf("invalid retry_delay: %w", err)
		}
		if d < 0 {
			return errors.New("retry_delay must not be negative")
		}
	}
	return nil
}

// Options converts the settings into decoder options.
func (s Settings) Options() ([]netstr.Option, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var opts []netstr.Option
	if s.MaxLength > 0 {
		opts = append(opts, netstr.MaxLength(s.MaxLength))
	}
	if s.Strict {
		opts = append(opts, netstr.Strict())
	}
	if s.Lenient {
		opts = append(opts, netstr.Lenient())
	}
	switch s.Whitespace {
	case "none":
		opts = append(opts, netstr.SkipNone())
	case "ascii":
		opts = append(opts, netstr.SkipASCIIWhitespace())
	case "unicode":
		opts = append(opts, netstr.SkipUnicodeWhitespace())
	}
	if s.RetryDelay != "" {
		d, _ := time.ParseDuration(s.RetryDelay)
		opts = append(opts, netstr.RetryDelay(d))
	}
	return opts, nil
}
