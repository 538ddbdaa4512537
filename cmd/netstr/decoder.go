package main

import (
	"bufio"
	"io"
	"time"

	"github.com/epithet-ssh/netstr/pkg/config"
	"github.com/epithet-ssh/netstr/pkg/netstr"
)

// DecoderFlags are the framing options shared by decode and count.
type DecoderFlags struct {
	MaxLength  int           `help:"Reject netstrings longer than this many bytes (0 for no limit)" default:"1048576"`
	Strict     bool          `help:"Reject empty length fields and leading zeros"`
	Lenient    bool          `help:"Allow spaces, tabs, CR and LF between netstrings"`
	Whitespace string        `help:"Filler allowed between netstrings: none, ascii or unicode"`
	RetryDelay time.Duration `help:"Wait this long before retrying a stream that has no data"`
}

func (f DecoderFlags) settings() config.Settings {
	s := config.Settings{
		MaxLength:  f.MaxLength,
		Strict:     f.Strict,
		Lenient:    f.Lenient,
		Whitespace: f.Whitespace,
	}
	if f.RetryDelay > 0 {
		s.RetryDelay = f.RetryDelay.String()
	}
	return s
}

func (f DecoderFlags) decoder(r io.Reader) (*netstr.Decoder, error) {
	opts, err := f.settings().Options()
	if err != nil {
		return nil, err
	}
	return netstr.NewDecoder(bufio.NewReader(r), opts...), nil
}
