package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/epithet-ssh/netstr/pkg/netstr"
)

// DecodeCLI unwraps netstrings from stdin.
type DecodeCLI struct {
	DecoderFlags `embed:""`

	BufferSize int    `help:"Read each payload into a fixed buffer of this many bytes instead of allocating" short:"b"`
	Skip       int    `help:"Discard the first N netstrings" short:"s"`
	Delimiter  string `help:"Written after each payload, Go escapes allowed" short:"d" default:"\\n"`
	Keyed      bool   `help:"Treat the first payload byte as a key and print key<TAB>value" short:"k"`
}

func (c *DecodeCLI) Run(logger *slog.Logger, s *streams) error {
	if c.BufferSize < 0 || c.Skip < 0 {
		return errors.New("buffer-size and skip must not be negative")
	}
	delim, err := unescape(c.Delimiter)
	if err != nil {
		return fmt.Errorf("invalid delimiter: %w", err)
	}
	dec, err := c.decoder(s.in)
	if err != nil {
		return err
	}

	for i := 0; i < c.Skip; i++ {
		if err := dec.Skip(); err != nil {
			if err == io.EOF {
				logger.Info("input ended while skipping", "skipped", i)
				return nil
			}
			return fmt.Errorf("failed to skip netstring %d at offset %d: %w", i, dec.Offset(), err)
		}
	}

	out := bufio.NewWriter(s.out)
	defer out.Flush()

	var buf []byte
	if c.BufferSize > 0 {
		buf = make([]byte, c.BufferSize)
	}

	frames := 0
	for {
		payload, err := c.next(dec, buf)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("netstring %d at offset %d: %w", c.Skip+frames, dec.Offset(), err)
		}
		if c.Keyed && len(payload) == 0 {
			return fmt.Errorf("netstring %d: keyed netstring must have length >= 1", c.Skip+frames)
		}
		if err := c.write(out, payload, delim); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		frames++
	}

	logger.Info("decoded netstrings", "frames", frames, "skipped", c.Skip, "offset", dec.Offset())
	return out.Flush()
}

// write prints one payload, as key<TAB>value when keyed, followed by delim.
func (c *DecodeCLI) write(out *bufio.Writer, payload []byte, delim string) error {
	if c.Keyed {
		if err := out.WriteByte(payload[0]); err != nil {
			return err
		}
		if err := out.WriteByte('\t'); err != nil {
			return err
		}
		payload = payload[1:]
	}
	if _, err := out.Write(payload); err != nil {
		return err
	}
	_, err := out.WriteString(delim)
	return err
}

func (c *DecodeCLI) next(dec *netstr.Decoder, buf []byte) ([]byte, error) {
	if buf == nil {
		return dec.Decode()
	}
	n, err := dec.ReadFrame(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// unescape interprets Go escapes such as \t or \x00 in s.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	return strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
}
