// Package plugin runs helper commands that speak keyed netstrings.
//
// Protocol:
//   - stdin: the current state as one keyed netstring ('s'), or "0:," when there is none
//   - stdout: keyed netstrings in any order, 'v' value, 's' new state, 'e' error message
//   - stderr: diagnostics, included in the error when the command fails
//   - exit 0: success, non-zero: failure
//
// Exactly one of 'v' and 'e' must be present.
package plugin

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/cbroglie/mustache"
	"github.com/epithet-ssh/netstr/pkg/netstr"
)

// MaxFrameSize is the largest netstring accepted from a plugin (10 MiB).
// This prevents malicious or buggy plugins from exhausting memory.
const MaxFrameSize = 10 * 1024 * 1024

// Keys of the frames a plugin writes on stdout.
const (
	// KeyValue carries the plugin's result.
	KeyValue = 'v'
	// KeyState carries state to send back on the next run. It is also the
	// key of the frame written to the plugin's stdin.
	KeyState = 's'
	// KeyError carries a message explaining why the plugin produced no value.
	KeyError = 'e'
)

// Output is what a plugin reported on stdout.
type Output struct {
	Value []byte
	State []byte
	Error string
}

// Plugin is a configured plugin command line.
//
// Concurrency: Plugin is safe for concurrent use. Run holds the lock for the
// whole command execution and state update.
type Plugin struct {
	cmdLine string // Immutable after New()
	logger  *slog.Logger

	lock  sync.Mutex // Protects state
	state []byte
}

// New creates a Plugin with an unrendered command line. The command line is a
// mustache template rendered against the attrs passed to Run.
func New(logger *slog.Logger, cmdLine string) *Plugin {
	return &Plugin{cmdLine: cmdLine, logger: logger}
}

// State returns a copy of the state the plugin last reported.
func (p *Plugin) State() []byte {
	p.lock.Lock()
	defer p.lock.Unlock()
	return bytes.Clone(p.state)
}

// SetState replaces the state sent to the next Run.
func (p *Plugin) SetState(state []byte) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.state = bytes.Clone(state)
}

// Run executes the plugin with the current state and keeps the new state if
// the plugin reported one. An 'e' frame is returned in Output.Error, not as
// an error.
func (p *Plugin) Run(ctx context.Context, attrs any) (*Output, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	cmdLine, err := mustache.Render(p.cmdLine, attrs)
	if err != nil {
		return nil, fmt.Errorf("failed to render command template: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", cmdLine)
	cmd.Stdin = bytes.NewReader(EncodeInput(p.state))
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start plugin command: %w", err)
	}

	output, decodeErr := DecodeOutputFrom(stdout)
	if decodeErr != nil {
		// Drain so the child is not blocked on a full pipe.
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("plugin command failed: %w: %s", err, stderr.String())
	}
	if decodeErr != nil {
		return nil, decodeErr
	}

	if output.State != nil {
		p.state = output.State
	}
	p.logger.Debug("plugin finished", "value_bytes", len(output.Value), "state_bytes", len(output.State), "error", output.Error)
	return output, nil
}

// EncodeInput frames the state written to a plugin's stdin.
func EncodeInput(state []byte) []byte {
	var buf bytes.Buffer
	enc := netstr.NewEncoder(&buf)
	if len(state) == 0 {
		_ = enc.Encode(nil)
	} else {
		_ = enc.EncodeKeyed(KeyState, state)
	}
	return buf.Bytes()
}

// DecodeOutput parses a complete plugin stdout.
func DecodeOutput(data []byte) (*Output, error) {
	return DecodeOutputFrom(bytes.NewReader(data))
}

// DecodeOutputFrom reads keyed netstrings from r until EOF and validates them.
func DecodeOutputFrom(r io.Reader) (*Output, error) {
	dec := netstr.NewDecoder(r, netstr.MaxLength(MaxFrameSize))
	output := &Output{}
	var haveValue, haveError bool

	for {
		key, value, err := dec.DecodeKeyed()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode plugin output: %w", err)
		}

		switch key {
		case KeyValue:
			if haveValue {
				return nil, errors.New("protocol violation: multiple value fields")
			}
			haveValue = true
			output.Value = value
		case KeyState:
			output.State = value
		case KeyError:
			if haveError {
				return nil, errors.New("protocol violation: multiple error fields")
			}
			haveError = true
			output.Error = string(value)
		default:
			return nil, fmt.Errorf("protocol violation: unknown key %q", key)
		}
	}

	switch {
	case haveValue && haveError:
		return nil, errors.New("protocol violation: cannot have both value and error")
	case !haveValue && !haveError:
		return nil, errors.New("protocol violation: must have either value or error field")
	}
	return output, nil
}
