package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(tint.NewHandler(t.Output(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
	}))
}

func parse(t *testing.T, args ...string) (*CLI, string) {
	t.Helper()
	var cli CLI
	parser, err := newParser(&cli)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, kctx.Command()
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse_Defaults(t *testing.T) {
	cli, cmd := parse(t, "decode")
	require.Equal(t, "decode", cmd)
	require.Equal(t, 1<<20, cli.Decode.MaxLength)
	require.Equal(t, `\n`, cli.Decode.Delimiter)
	require.False(t, cli.Decode.Strict)
	require.Zero(t, cli.Verbose)
}

func TestParse_ConfigResolver(t *testing.T) {
	path := writeConfig(t, "netstr.yaml", `
verbose: 2
strict: true
decode:
  max-length: 64
  buffer_size: 32
count:
  lenient: true
`)

	cli, cmd := parse(t, "--config", path, "decode")
	require.Equal(t, "decode", cmd)
	require.Equal(t, 2, cli.Verbose)
	require.Equal(t, 64, cli.Decode.MaxLength)
	require.Equal(t, 32, cli.Decode.BufferSize)
	require.True(t, cli.Decode.Strict)
	require.False(t, cli.Decode.Lenient)
}

func TestParse_FlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, "netstr.toml", `
[count]
max-length = 64
`)

	cli, _ := parse(t, "-c", path, "count", "--max-length", "10")
	require.Equal(t, 10, cli.Count.MaxLength)
}

func TestParse_ConfigUnified(t *testing.T) {
	a := writeConfig(t, "a.json", `{"decode": {"keyed": true}}`)
	b := writeConfig(t, "b.cue", `decode: skip: 2`)

	cli, _ := parse(t, "--config", a+";"+b, "decode")
	require.True(t, cli.Decode.Keyed)
	require.Equal(t, 2, cli.Decode.Skip)
}

func TestParse_ConfigMissingIsIgnored(t *testing.T) {
	cli, _ := parse(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "count")
	require.Equal(t, 1<<20, cli.Count.MaxLength)
}

func TestCLI_LoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netstr.log")
	cli := &CLI{Verbose: 1, LogFile: path}

	logger, closeLog, err := cli.logger(&bytes.Buffer{})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "frames", 3)
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "shown")
	require.Contains(t, string(data), "frames=3")
	require.NotContains(t, string(data), "hidden")
}

func TestCLI_LoggerLevel(t *testing.T) {
	var stderr bytes.Buffer
	logger, closeLog, err := (&CLI{NoColor: true}).logger(&stderr)
	require.NoError(t, err)
	defer closeLog()

	logger.Info("quiet")
	logger.Warn("loud")
	require.False(t, strings.Contains(stderr.String(), "quiet"))
	require.Contains(t, stderr.String(), "loud")
}
