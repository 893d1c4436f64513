package main

import (
	"context"
	"errors"

	"github.com/tinytelemetry/secdash/internal/logsource"
)

// PreloadPlugin is a small plugin primitive for wiring startup inputs.
type PreloadPlugin interface {
	Name() string
	Enabled() bool
	Build(ctx context.Context) (logsource.Source, error)
}

// PreloadConfig defines startup input selection.
type PreloadConfig struct {
	File     string
	MaxBytes int64
	// StdinPiped overrides stdin detection; nil uses logsource.StdinPiped.
	StdinPiped func() bool
}

func buildPreloadPlugins(cfg PreloadConfig) []PreloadPlugin {
	piped := cfg.StdinPiped
	if piped == nil {
		piped = logsource.StdinPiped
	}
	return []PreloadPlugin{
		filePreloadPlugin{path: cfg.File, maxBytes: cfg.MaxBytes},
		stdinPreloadPlugin{piped: piped, maxBytes: cfg.MaxBytes},
	}
}

// selectPreloadSource returns the first enabled plugin's source.
// A file always wins over piped stdin.
func selectPreloadSource(ctx context.Context, plugins []PreloadPlugin) (logsource.Source, error) {
	for _, p := range plugins {
		if !p.Enabled() {
			continue
		}
		return p.Build(ctx)
	}
	return nil, errNoPreload
}

var errNoPreload = errors.New("no preload input configured")

type filePreloadPlugin struct {
	path     string
	maxBytes int64
}

func (p filePreloadPlugin) Name() string { return "file" }

func (p filePreloadPlugin) Enabled() bool { return p.path != "" }

func (p filePreloadPlugin) Build(_ context.Context) (logsource.Source, error) {
	return logsource.NewFileSource(p.path, p.maxBytes), nil
}

type stdinPreloadPlugin struct {
	piped    func() bool
	maxBytes int64
}

func (p stdinPreloadPlugin) Name() string { return "stdin" }

func (p stdinPreloadPlugin) Enabled() bool { return p.piped() }

func (p stdinPreloadPlugin) Build(_ context.Context) (logsource.Source, error) {
	return logsource.NewStdinSource(p.maxBytes), nil
}
