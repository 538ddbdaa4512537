// Package config loads netstr tool configuration.
// It supports YAML, JSON, TOML and CUE file formats using CUE as the underlying value model.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/encoding/yaml"
	"github.com/pelletier/go-toml/v2"
)

// LoadValue loads configuration from a file and returns a CUE value.
// This allows dynamic path-based lookups without requiring Go struct definitions.
//
// For .cue files: Uses CUE's load.Instances to support CUE packages with imports and modules.
// For .yaml/.yml/.json/.toml files: Uses direct parsing for standalone data files.
// For directories: Loads all .cue files as a package (supports imports between files).
func LoadValue(path string) (cue.Value, error) {
	return loadValue(cuecontext.New(), path)
}

// LoadAndUnifyPaths expands each glob pattern, loads every matching file with
// LoadValue and unifies the results. Patterns that match nothing are skipped.
// Later files may add keys but must not contradict earlier ones. With no
// matching files the result is an empty struct.
func LoadAndUnifyPaths(patterns []string) (cue.Value, error) {
	ctx := cuecontext.New()
	val := ctx.CompileString("{}")
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return cue.Value{}, fmt.Errorf("invalid config pattern %q: %w", pattern, err)
		}
		for _, path := range matches {
			v, err := loadValue(ctx, path)
			if err != nil {
				return cue.Value{}, fmt.Errorf("%s: %w", path, err)
			}
			val = val.Unify(v)
			if err := val.Validate(); err != nil {
				return cue.Value{}, fmt.Errorf("conflicting config in %s: %w", path, err)
			}
		}
	}
	return val, nil
}

func loadValue(ctx *cue.Context, path string) (cue.Value, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to stat path: %w", err)
	}

	// Handle directories and .cue files using load.Instances
	if fileInfo.IsDir() || strings.HasSuffix(strings.ToLower(path), ".cue") {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("failed to resolve path: %w", err)
		}

		// A directory is loaded as the package in it, a file by its absolute path.
		cfg := &load.Config{
			Dir:       filepath.Dir(absPath),
			DataFiles: true,
		}
		args := []string{absPath}
		if fileInfo.IsDir() {
			cfg.Dir = absPath
			args = []string{"."}
		}

		instances := load.Instances(args, cfg)
		if len(instances) == 0 {
			return cue.Value{}, fmt.Errorf("no instances loaded from %s", path)
		}

		inst := instances[0]
		if inst.Err != nil {
			return cue.Value{}, fmt.Errorf("failed to load config: %w", inst.Err)
		}

		val := ctx.BuildInstance(inst)
		if err := val.Err(); err != nil {
			return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
		}
		return val, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		val := ctx.CompileBytes(data)
		if err := val.Err(); err != nil {
			return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
		}
		return val, nil
	case ".toml":
		return buildTOML(ctx, data)
	default:
		// .yaml, .yml and anything unknown
		return buildYAML(ctx, data)
	}
}

func buildYAML(ctx *cue.Context, data []byte) (cue.Value, error) {
	file, err := yaml.Extract("", data)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to parse config: %w", err)
	}

	val := ctx.BuildFile(file)
	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
	}
	return val, nil
}

func buildTOML(ctx *cue.Context, data []byte) (cue.Value, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return cue.Value{}, fmt.Errorf("failed to parse TOML: %w", err)
	}

	val := ctx.Encode(doc)
	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
	}
	return val, nil
}
