package assetpipe

import (
	"context"
	"fmt"
	"os"

	"github.com/aweris/assetpipe/internal/codec"
	"github.com/aweris/assetpipe/internal/compression"
)

// Name identifies the plugin in logs.
const Name = "assetpipe"

type stage struct {
	name    string
	backend Backend
}

// Plugin holds the frozen configuration and the instantiated backends. It is
// safe for concurrent use and can serve any number of builds.
type Plugin struct {
	cfg        Config
	stages     []stage
	filter     *Filter
	compressor *compression.Compressor
	opts       *PluginOptions
}

// New resolves user options over the defaults, validates the result and
// instantiates every backend exactly once.
func New(user Options, opts ...PluginOption) (*Plugin, error) {
	options := defaultPluginOptions()
	for _, opt := range opts {
		opt(options)
	}
	if options.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		options.WorkDir = wd
	}

	cfg := Resolve(DefaultConfig(), user)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	registry := codec.Builtins()
	for _, nf := range user.BackendFactories {
		if nf.Factory != nil {
			registry.Register(nf.Name, nf.Factory)
		}
	}

	stages := make([]stage, 0, len(cfg.Backends))
	for _, b := range cfg.Backends {
		factory, ok := registry.Lookup(b.Name)
		if !ok {
			return nil, fmt.Errorf("%w: no factory for backend %q", ErrInvalidConfig, b.Name)
		}
		stages = append(stages, stage{name: b.Name, backend: factory(b.Options.Clone())})
	}

	compressor, err := compression.New(cfg.Precompress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return &Plugin{
		cfg:        cfg,
		stages:     stages,
		filter:     NewFilter(cfg.Include, cfg.Exclude, options.WorkDir),
		compressor: compressor,
		opts:       options,
	}, nil
}

// Config returns a copy of the resolved configuration.
func (p *Plugin) Config() Config { return p.cfg.Clone() }

// Filter returns the include/exclude predicate.
func (p *Plugin) Filter() *Filter { return p.filter }

// BuildStart begins a build pass. Each pass gets its own registry, so assets
// from an earlier pass are never emitted again.
func (p *Plugin) BuildStart(ctx context.Context) *Build {
	if p.cfg.Verbose {
		if p.cfg.Disable {
			p.opts.Logger.Warn().Msg("Skipping image optimizations.")
		} else {
			p.opts.Logger.Info().Msg("Optimizing images...")
		}
	}
	return newBuild(p)
}

// Close releases encoder resources.
func (p *Plugin) Close() error {
	return p.compressor.Close()
}
