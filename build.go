package assetpipe

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"golang.org/x/sync/singleflight"

	"github.com/aweris/assetpipe/internal/digest"
	"github.com/aweris/assetpipe/internal/store"
)

// Module describes a processed asset and the code that replaces its import.
type Module struct {
	Source     string // absolute source path
	Name       string // logical name used for [name]
	OutputPath string // slash-separated path under the output root
	Hash       string
	URL        string // PublicPath + OutputPath
	Code       string
	InputSize  int
	OutputSize int
}

// Output names where a build is emitted. Dir wins over File; with only File
// set, its directory is used.
type Output struct {
	Dir  string
	File string
}

func (o Output) Root() string {
	if o.Dir != "" {
		return o.Dir
	}
	if o.File != "" {
		return filepath.Dir(o.File)
	}
	return ""
}

// Build is one build pass. Loads may run concurrently; Finalize must only be
// called once every Load has returned.
type Build struct {
	plugin   *Plugin
	registry *store.Registry
	cache    *store.Cache
	loads    singleflight.Group
	logger   zerolog.Logger
}

func newBuild(p *Plugin) *Build {
	return &Build{
		plugin:   p,
		registry: store.NewRegistry(),
		cache:    store.NewCache(p.opts.CacheSize),
		logger:   p.opts.Logger,
	}
}

// Len returns the number of assets pending emission.
func (b *Build) Len() int { return b.registry.Len() }

// Asset returns the final bytes registered under an output path.
func (b *Build) Asset(outputPath string) ([]byte, bool) {
	return b.registry.Get(outputPath)
}

// Load processes the asset at id. It returns nil, nil when the path is not
// subject to processing.
func (b *Build) Load(ctx context.Context, id string) (*Module, error) {
	path := b.absolute(id)
	if !b.plugin.filter.Match(path) {
		return nil, nil
	}
	if b.registry.Sealed() {
		return nil, ErrFinalized
	}

	// Callers sharing a load wait on their own ctx; the shared work outlives
	// any one of them.
	ch := b.loads.DoChan(path, func() (any, error) {
		return b.load(context.WithoutCancel(ctx), path)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		m := *res.Val.(*Module)
		return &m, nil
	}
}

// LoadAll loads ids concurrently. A failing asset does not stop the others;
// all failures are returned joined, next to the modules that succeeded.
func (b *Build) LoadAll(ctx context.Context, ids []string) ([]*Module, error) {
	results := make([]*Module, len(ids))

	p := pool.New().
		WithMaxGoroutines(b.plugin.opts.Concurrency).
		WithErrors().
		WithContext(ctx)
	for i, id := range ids {
		p.Go(func(ctx context.Context) error {
			m, err := b.Load(ctx, id)
			if err != nil {
				b.logger.Error().Err(err).Str("asset", id).Msg("Load failed")
				return err
			}
			results[i] = m
			return nil
		})
	}
	err := p.Wait()

	return slices.DeleteFunc(results, func(m *Module) bool { return m == nil }), err
}

// Finalize seals the build and writes every registered asset below the
// output root. It is a no-op when EmitFiles is off.
func (b *Build) Finalize(ctx context.Context, out Output) error {
	b.registry.Seal()

	cfg := b.plugin.cfg
	if !cfg.EmitFiles {
		b.logger.Debug().Int("assets", b.registry.Len()).Msg("Emission disabled")
		return nil
	}

	root := out.Root()
	if root == "" {
		return fmt.Errorf("%w: no output directory", ErrInvalidConfig)
	}
	root = b.absolute(root)

	e := &emitter{
		fs:          b.plugin.opts.Fs,
		compressor:  b.plugin.compressor,
		concurrency: b.plugin.opts.Concurrency,
		logger:      b.logger,
	}
	return e.emit(ctx, b.registry, root)
}

func (b *Build) absolute(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(b.plugin.opts.WorkDir, path)
}

func (b *Build) load(ctx context.Context, path string) (*Module, error) {
	cfg := b.plugin.cfg

	raw, err := afero.ReadFile(b.plugin.opts.Fs, path)
	if err != nil {
		return nil, &Error{Kind: KindRead, Path: path, Err: err}
	}

	final, err := b.optimize(ctx, path, raw)
	if err != nil {
		return nil, err
	}

	hash, err := digest.Fingerprint(cfg.HashAlgorithm, final, cfg.HashLength)
	if err != nil {
		return nil, err
	}
	name := deriveName(path, cfg.PreserveTree, b.plugin.opts.WorkDir)
	outputPath := resolvePath(cfg.FileName, name, hash, filepath.Ext(path))

	replaced, err := b.registry.Put(outputPath, final)
	if err != nil {
		return nil, ErrFinalized
	}
	if replaced {
		b.logger.Debug().Str("output", outputPath).Str("source", path).Msg("Output path reused, keeping latest")
	}

	if cfg.Verbose && !cfg.Disable {
		b.report(outputPath, len(raw), len(final))
	}

	url := cfg.PublicPath + outputPath
	return &Module{
		Source:     path,
		Name:       name,
		OutputPath: outputPath,
		Hash:       hash,
		URL:        url,
		Code:       moduleCode(url),
		InputSize:  len(raw),
		OutputSize: len(final),
	}, nil
}

func (b *Build) optimize(ctx context.Context, path string, raw []byte) ([]byte, error) {
	if b.plugin.cfg.Disable {
		return raw, nil
	}
	key, err := digest.Sum(digest.SHA256, raw)
	if err != nil {
		return nil, err
	}
	if out, ok := b.cache.Get(key); ok {
		return out, nil
	}
	out, err := b.plugin.transform(ctx, path, raw)
	if err != nil {
		return nil, err
	}
	b.cache.Add(key, out)
	return out, nil
}

func (b *Build) report(outputPath string, before, after int) {
	smaller, pct := sizeDelta(before, after)
	event := b.logger.Info().Str("asset", outputPath).Int("before", before).Int("after", after)
	if smaller {
		event.Msgf("Optimized %s: ~%d%% smaller", outputPath, pct)
	} else {
		event.Msgf("Optimized %s: ~%d%% bigger", outputPath, pct)
	}
}

// sizeDelta returns whether after is smaller than before and the rounded
// percentage difference relative to before.
func sizeDelta(before, after int) (smaller bool, pct int) {
	if before == 0 {
		return false, 0
	}
	ratio := float64(after) / float64(before)
	return after < before, int(math.Round(math.Abs(1-ratio) * 100))
}

// moduleCode exports the asset URL resolved against the importing module's
// location, so relative and absolute public paths both work at runtime.
func moduleCode(url string) string {
	return "export default new URL(" + strconv.Quote(url) + ", import.meta.url).href;"
}
