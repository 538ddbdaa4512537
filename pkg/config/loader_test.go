package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue"
	"github.com/epithet-ssh/netstr/pkg/config"
	"github.com/epithet-ssh/netstr/pkg/netstr"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func loadSettings(t *testing.T, path string) config.Settings {
	t.Helper()
	val, err := config.LoadValue(path)
	require.NoError(t, err)

	var cfg config.Settings
	require.NoError(t, val.Decode(&cfg))
	return cfg
}

func TestLoadValue_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "netstr.yaml", `
max_length: 4096
strict: true
retry_delay: "5ms"
`},
		{"json", "netstr.json", `{"max_length": 4096, "strict": true, "retry_delay": "5ms"}`},
		{"toml", "netstr.toml", `
max_length = 4096
strict = true
retry_delay = "5ms"
`},
		{"cue", "netstr.cue", `
max_length: 4096
strict:     true
retry_delay: "5ms"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := loadSettings(t, writeFile(t, tt.file, tt.content))
			require.Equal(t, 4096, cfg.MaxLength)
			require.True(t, cfg.Strict)
			require.False(t, cfg.Lenient)
			require.Equal(t, "5ms", cfg.RetryDelay)
		})
	}
}

func TestLoadValue_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte("package netstr\n\nmax_length: 10\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.cue"), []byte("package netstr\n\nlenient: true\n"), 0644))

	cfg := loadSettings(t, dir)
	require.Equal(t, 10, cfg.MaxLength)
	require.True(t, cfg.Lenient)
}

func TestLoadValue_RelativeDirectory(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "cfgdir")
	require.NoError(t, os.Mkdir(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.cue"), []byte("package netstr\n\nstrict: true\n"), 0644))
	t.Chdir(parent)

	cfg := loadSettings(t, "cfgdir")
	require.True(t, cfg.Strict)
}

func TestLoadValue_Missing(t *testing.T) {
	_, err := config.LoadValue(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorContains(t, err, "failed to stat path")
}

func TestLoadValue_InvalidTOML(t *testing.T) {
	_, err := config.LoadValue(writeFile(t, "bad.toml", "max_length = = 3"))
	require.ErrorContains(t, err, "failed to parse TOML")
}

func TestLoadAndUnifyPaths_MixedFormats(t *testing.T) {
	a := writeFile(t, "a.yaml", "verbose: 2\n")
	b := writeFile(t, "b.toml", "[decode]\nmax-length = 64\n")

	val, err := config.LoadAndUnifyPaths([]string{a, b})
	require.NoError(t, err)

	v, err := val.LookupPath(cue.ParsePath("verbose")).Int64()
	require.NoError(t, err)
	require.Equal(t, int64(2), v)

	// Hyphenated keys need a quoted selector.
	n, err := val.LookupPath(cue.MakePath(cue.Str("decode"), cue.Str("max-length"))).Int64()
	require.NoError(t, err)
	require.Equal(t, int64(64), n)
}

func TestLoadAndUnifyPaths_Conflict(t *testing.T) {
	a := writeFile(t, "a.yaml", "strict: true\n")
	b := writeFile(t, "b.yaml", "strict: false\n")

	_, err := config.LoadAndUnifyPaths([]string{a, b})
	require.ErrorContains(t, err, "conflicting config")
}

func TestLoadAndUnifyPaths_MissingSkipped(t *testing.T) {
	dir := t.TempDir()
	val, err := config.LoadAndUnifyPaths([]string{filepath.Join(dir, "none.yaml"), filepath.Join(dir, "*.toml")})
	require.NoError(t, err)
	require.True(t, val.Exists())
	require.False(t, val.LookupPath(cue.ParsePath("strict")).Exists())
}

func TestLoadAndUnifyPaths_Glob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("decode:\n  strict: true\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("count:\n  lenient: true\n"), 0644))

	val, err := config.LoadAndUnifyPaths([]string{filepath.Join(dir, "*.yaml")})
	require.NoError(t, err)

	strict, err := val.LookupPath(cue.ParsePath("decode.strict")).Bool()
	require.NoError(t, err)
	require.True(t, strict)

	lenient, err := val.LookupPath(cue.ParsePath("count.lenient")).Bool()
	require.NoError(t, err)
	require.True(t, lenient)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Settings
		wantErr string
	}{
		{"zero value", config.Settings{}, ""},
		{"full", config.Settings{MaxLength: 10, Strict: true, Whitespace: "ascii", RetryDelay: "1ms"}, ""},
		{"negative max", config.Settings{MaxLength: -1}, "max_length"},
		{"unknown whitespace", config.Settings{Whitespace: "tabs"}, "unknown whitespace"},
		{"lenient and whitespace", config.Settings{Lenient: true, Whitespace: "none"}, "mutually exclusive"},
		{"bad delay", config.Settings{RetryDelay: "soon"}, "invalid retry_delay"},
		{"negative delay", config.Settings{RetryDelay: "-1s"}, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSettings_Options(t *testing.T) {
	cfg := config.Settings{MaxLength: 4, Whitespace: "ascii"}
	opts, err := cfg.Options()
	require.NoError(t, err)

	dec := netstr.NewDecoder(bytes.NewReader([]byte(" 2:ok,\n5:hello,")), opts...)
	data, err := dec.Decode()
	require.NoError(t, err)
	require.Equal(t, "ok", string(data))

	_, err = dec.Decode()
	require.Equal(t, netstr.ErrTooLarge, err)
}

func TestSettings_OptionsStrict(t *testing.T) {
	opts, err := config.Settings{Strict: true}.Options()
	require.NoError(t, err)

	_, err = netstr.NewDecoder(bytes.NewReader([]byte("05:hello,")), opts...).Decode()
	require.ErrorIs(t, err, netstr.ErrInvalidFormat)
}

func TestSettings_OptionsInvalid(t *testing.T) {
	_, err := config.Settings{Whitespace: "all"}.Options()
	require.Error(t, err)
}
