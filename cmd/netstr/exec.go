package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/epithet-ssh/netstr/pkg/plugin"
)

// ExecCLI runs a plugin command that speaks keyed netstrings.
type ExecCLI struct {
	Command   string            `arg:"" help:"Plugin command line, rendered as a mustache template"`
	Var       map[string]string `help:"Template variable (key=value), can be repeated" short:"V"`
	StateFile string            `help:"Load plugin state from and save it to this file" short:"S"`
}

func (c *ExecCLI) Run(logger *slog.Logger, s *streams) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	p := plugin.New(logger, c.Command)
	if c.StateFile != "" {
		state, err := os.ReadFile(c.StateFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("no saved plugin state", "path", c.StateFile)
		case err != nil:
			return fmt.Errorf("failed to read state file: %w", err)
		default:
			p.SetState(state)
		}
	}

	output, err := p.Run(ctx, c.Var)
	if err != nil {
		return err
	}
	if output.Error != "" {
		return fmt.Errorf("plugin reported error: %s", output.Error)
	}

	if c.StateFile != "" && output.State != nil {
		if err := os.WriteFile(c.StateFile, output.State, 0600); err != nil {
			return fmt.Errorf("failed to write state file: %w", err)
		}
		logger.Info("saved plugin state", "path", c.StateFile, "bytes", len(output.State))
	}

	_, err = s.out.Write(output.Value)
	return err
}
