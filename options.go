package assetpipe

import (
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/aweris/assetpipe/internal/logging"
)

// Options is the user layer of configuration. Nil pointers, nil slices and
// nil values inside Backends mean "not set" and leave the default in place.
// An empty, non-nil slice does override: Exclude: []string{} clears excludes.
type Options struct {
	Disable       *bool
	Verbose       *bool
	EmitFiles     *bool
	HashLength    *int
	HashAlgorithm *string
	Include       []string
	Exclude       []string
	FileName      *string
	PublicPath    *string
	PreserveTree  *PreserveTree
	Precompress   []string

	// Backends holds per-backend option overrides keyed by backend name.
	Backends map[string]BackendOptions

	// BackendFactories adds backends or replaces built-ins by name.
	BackendFactories []NamedFactory
}

// Bool returns a pointer to v, for Options literals.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for Options literals.
func Int(v int) *int { return &v }

// String returns a pointer to v, for Options literals.
func String(v string) *string { return &v }

// PluginOptions configures how a plugin runs, as opposed to what it produces.
type PluginOptions struct {
	Logger      zerolog.Logger
	Fs          afero.Fs
	WorkDir     string
	Concurrency int
	CacheSize   int
}

// PluginOption is a functional option for configuring New.
type PluginOption func(*PluginOptions)

func defaultPluginOptions() *PluginOptions {
	return &PluginOptions{
		Logger:      logging.GetLogger(Name),
		Fs:          afero.NewOsFs(),
		Concurrency: runtime.NumCPU(),
		CacheSize:   256,
	}
}

// WithLogger sets the logger used for banners, reports and diagnostics.
func WithLogger(logger zerolog.Logger) PluginOption {
	return func(o *PluginOptions) { o.Logger = logger }
}

// WithFs sets the filesystem assets are read from and emitted to.
func WithFs(fs afero.Fs) PluginOption {
	return func(o *PluginOptions) { o.Fs = fs }
}

// WithWorkingDir sets the directory relative paths, patterns and
// PreserveTree are resolved against. Defaults to the process working directory.
func WithWorkingDir(dir string) PluginOption {
	return func(o *PluginOptions) { o.WorkDir = dir }
}

// WithConcurrency sets the number of assets loaded or emitted in parallel.
func WithConcurrency(n int) PluginOption {
	return func(o *PluginOptions) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithCacheSize bounds the per-build cache of transformed content.
// Zero disables it.
func WithCacheSize(n int) PluginOption {
	return func(o *PluginOptions) {
		if n >= 0 {
			o.CacheSize = n
		}
	}
}
