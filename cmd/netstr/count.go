package main

import (
	"fmt"
	"io"
	"log/slog"
)

// CountCLI validates netstrings without keeping their payloads.
type CountCLI struct {
	DecoderFlags `embed:""`
}

func (c *CountCLI) Run(logger *slog.Logger, s *streams) error {
	dec, err := c.decoder(s.in)
	if err != nil {
		return err
	}

	frames := 0
	for {
		err := dec.Skip()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("netstring %d at offset %d: %w", frames, dec.Offset(), err)
		}
		frames++
	}

	logger.Info("counted netstrings", "frames", frames, "bytes", dec.Offset())
	_, err = fmt.Fprintln(s.out, frames)
	return err
}
