package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/epithet-ssh/netstr/pkg/netstr"
)

// EncodeCLI wraps values as netstrings.
type EncodeCLI struct {
	Lines  bool     `help:"Encode each line of stdin as its own netstring (newline not included)" short:"l"`
	Key    string   `help:"Write keyed netstrings with this single-byte key" short:"k"`
	Values []string `arg:"" optional:"" help:"Values to encode; stdin is read when none are given"`
}

func (c *EncodeCLI) Run(logger *slog.Logger, s *streams) error {
	if len(c.Key) > 1 {
		return fmt.Errorf("key must be a single byte, got %q", c.Key)
	}

	w := bufio.NewWriter(s.out)
	enc := netstr.NewEncoder(w)
	frames, total := 0, 0
	emit := func(payload []byte) error {
		var err error
		if c.Key != "" {
			err = enc.EncodeKeyed(c.Key[0], payload)
		} else {
			err = enc.Encode(payload)
		}
		if err != nil {
			return fmt.Errorf("failed to write netstring %d: %w", frames, err)
		}
		frames++
		total += len(payload)
		return nil
	}

	switch {
	case len(c.Values) > 0:
		for _, v := range c.Values {
			if err := emit([]byte(v)); err != nil {
				return err
			}
		}
	case c.Lines:
		sc := bufio.NewScanner(s.in)
		sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
		for sc.Scan() {
			if err := emit(sc.Bytes()); err != nil {
				return err
			}
		}
		if err := sc.Err(); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	default:
		data, err := io.ReadAll(s.in)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if err := emit(data); err != nil {
			return err
		}
	}

	logger.Debug("encoded netstrings", "frames", frames, "payload_bytes", total)
	return nil
}
