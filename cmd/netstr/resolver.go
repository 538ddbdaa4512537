package main

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"github.com/alecthomas/kong"
	"github.com/epithet-ssh/netstr/pkg/config"
)

// configResolver supplies flag values from the files named by --config.
// A flag is looked up as <command>.<flag> first and then as <flag>, under
// both its hyphenated and underscored spelling.
func configResolver() kong.Resolver {
	var (
		loaded  bool
		val     cue.Value
		loadErr error
	)
	return kong.ResolverFunc(func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if flag.Name == "config" || flag.Name == "help" {
			return nil, nil
		}
		if !loaded {
			loaded = true
			val, loadErr = config.LoadAndUnifyPaths(configPatterns(kctx))
		}
		if loadErr != nil {
			return nil, loadErr
		}

		for _, path := range lookupPaths(parent, flag.Name) {
			v := val.LookupPath(path)
			if !v.Exists() {
				continue
			}
			s, err := flagValue(v)
			if err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
			return s, nil
		}
		return nil, nil
	})
}

func configPatterns(kctx *kong.Context) []string {
	for _, f := range kctx.Flags() {
		if f.Name != "config" {
			continue
		}
		if patterns, ok := kctx.FlagValue(f).([]string); ok {
			return patterns
		}
	}
	return nil
}

func lookupPaths(parent *kong.Path, name string) []cue.Path {
	names := []string{name}
	if alt := strings.ReplaceAll(name, "-", "_"); alt != name {
		names = append(names, alt)
	}

	var paths []cue.Path
	if parent != nil && parent.Command != nil {
		for _, n := range names {
			paths = append(paths, cue.MakePath(cue.Str(parent.Command.Name), cue.Str(n)))
		}
	}
	for _, n := range names {
		paths = append(paths, cue.MakePath(cue.Str(n)))
	}
	return paths
}

// flagValue renders v the way it would be written on the command line.
func flagValue(v cue.Value) (string, error) {
	switch v.Kind() {
	case cue.StringKind:
		return v.String()
	case cue.BoolKind:
		b, err := v.Bool()
		return strconv.FormatBool(b), err
	case cue.IntKind:
		n, err := v.Int64()
		return strconv.FormatInt(n, 10), err
	case cue.FloatKind:
		f, err := v.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64), err
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return "", err
		}
		var items []string
		for iter.Next() {
			s, err := flagValue(iter.Value())
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return strings.Join(items, ","), nil
	default:
		return "", fmt.Errorf("unsupported value kind %s", v.Kind())
	}
}
