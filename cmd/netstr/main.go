package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
)

// CLI is the root of the netstr command line.
type CLI struct {
	Config  []string `help:"Config files or glob patterns (YAML, JSON, TOML, CUE), unified in order" short:"c" sep:";"`
	Verbose int      `help:"Increase log verbosity (-v info, -vv debug)" short:"v" type:"counter"`
	LogFile string   `help:"Write logs to this file instead of stderr"`
	NoColor bool     `help:"Disable colored log output"`

	Encode EncodeCLI `cmd:"" help:"Encode values as netstrings"`
	Decode DecodeCLI `cmd:"" help:"Decode netstrings into raw payloads"`
	Count  CountCLI  `cmd:"" help:"Validate netstrings and print how many were read"`
	Exec   ExecCLI   `cmd:"" help:"Run a plugin that answers in keyed netstrings"`
}

// streams are the process stdio, bound into every command.
type streams struct {
	in  io.Reader
	out io.Writer
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("netstr"),
		kong.Description("Encode, decode and validate netstrings (<len>:<payload>,)."),
		kong.UsageOnError(),
		kong.Resolvers(configResolver()),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	logger, closeLog, err := cli.logger(os.Stderr)
	kctx.FatalIfErrorf(err)

	err = kctx.Run(logger, &streams{in: os.Stdin, out: os.Stdout})
	if err != nil {
		logger.Error("command failed", "command", kctx.Command(), "error", err)
		closeLog()
		os.Exit(1)
	}
	closeLog()
}

// logger builds the tint logger selected by the global flags. The returned
// func closes the log file, if any.
func (c *CLI) logger(stderr io.Writer) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	switch {
	case c.Verbose >= 2:
		level = slog.LevelDebug
	case c.Verbose == 1:
		level = slog.LevelInfo
	}

	out := stderr
	closeLog := func() {}
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeLog = func() { _ = f.Close() }
	}

	handler := tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    c.NoColor || c.LogFile != "",
	})
	return slog.New(handler), closeLog, nil
}
