package assetpipe

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aweris/assetpipe/internal/codec"
	"github.com/aweris/assetpipe/internal/compression"
	"github.com/aweris/assetpipe/internal/digest"
)

const (
	DefaultInclude    = "**/*.{svg,png,jpg,jpeg,gif}"
	DefaultFileName   = "[name]-[hash][extname]"
	DefaultHashLength = 16
)

// Hash algorithms accepted in Config.HashAlgorithm.
const (
	HashSHA1   = digest.SHA1
	HashSHA256 = digest.SHA256
	HashBLAKE3 = digest.BLAKE3
)

// Precompress formats accepted in Config.Precompress.
const (
	PrecompressGzip = compression.Gzip
	PrecompressZstd = compression.Zstd
)

// PreserveTree controls whether the source directory layout is kept in output
// names. Zero value: only the base name is used. Enabled with an empty Root:
// paths are taken relative to the working directory. Enabled with a Root:
// paths are taken relative to that directory.
type PreserveTree struct {
	Enabled bool
	Root    string
}

// BackendConfig is the resolved configuration of one pipeline stage.
type BackendConfig struct {
	Name    string
	Options BackendOptions
}

// Config is the resolved configuration of a plugin. A plugin never changes
// it after construction; Plugin.Config hands out copies.
type Config struct {
	Disable       bool
	Verbose       bool
	EmitFiles     bool
	HashLength    int
	HashAlgorithm string
	Include       []string
	Exclude       []string
	FileName      string
	PublicPath    string
	PreserveTree  PreserveTree
	Precompress   []string
	Backends      []BackendConfig // pipeline order
}

// DefaultConfig returns a fresh copy of the defaults.
func DefaultConfig() Config {
	defaults := codec.DefaultOptions()
	names := codec.Builtins().Names()

	backends := make([]BackendConfig, 0, len(names))
	for _, name := range names {
		backends = append(backends, BackendConfig{Name: name, Options: defaults[name]})
	}

	return Config{
		EmitFiles:     true,
		HashLength:    DefaultHashLength,
		HashAlgorithm: HashSHA1,
		Include:       []string{DefaultInclude},
		FileName:      DefaultFileName,
		Backends:      backends,
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := c
	out.Include = slices.Clone(c.Include)
	out.Exclude = slices.Clone(c.Exclude)
	out.Precompress = slices.Clone(c.Precompress)
	out.Backends = make([]BackendConfig, len(c.Backends))
	for i, b := range c.Backends {
		out.Backends[i] = BackendConfig{Name: b.Name, Options: b.Options.Clone()}
	}
	return out
}

// Backend returns the options of the named backend.
func (c Config) Backend(name string) (BackendOptions, bool) {
	for _, b := range c.Backends {
		if b.Name == name {
			return b.Options, true
		}
	}
	return nil, false
}

// Resolve layers user options over defaults. Absent user values (nil pointers,
// nil slices, nil map values) never override a default. Backends keep the
// defaults' order, followed by new names from user.BackendFactories in the
// order given. Each backend's options are its defaults shallow-merged with the
// user's sub-object of the same name.
//
// Resolve does not validate; see Config.Validate.
func Resolve(defaults Config, user Options) Config {
	cfg := defaults.Clone()

	if user.Disable != nil {
		cfg.Disable = *user.Disable
	}
	if user.Verbose != nil {
		cfg.Verbose = *user.Verbose
	}
	if user.EmitFiles != nil {
		cfg.EmitFiles = *user.EmitFiles
	}
	if user.HashLength != nil {
		cfg.HashLength = *user.HashLength
	}
	if user.HashAlgorithm != nil {
		cfg.HashAlgorithm = *user.HashAlgorithm
	}
	if user.Include != nil {
		cfg.Include = slices.Clone(user.Include)
	}
	if user.Exclude != nil {
		cfg.Exclude = slices.Clone(user.Exclude)
	}
	if user.FileName != nil {
		cfg.FileName = *user.FileName
	}
	if user.PublicPath != nil {
		cfg.PublicPath = *user.PublicPath
	}
	if user.PreserveTree != nil {
		cfg.PreserveTree = *user.PreserveTree
	}
	if user.Precompress != nil {
		cfg.Precompress = slices.Clone(user.Precompress)
	}

	base := make(map[string]BackendOptions, len(cfg.Backends))
	names := make([]string, 0, len(cfg.Backends)+len(user.BackendFactories))
	for _, b := range cfg.Backends {
		base[b.Name] = b.Options
		names = append(names, b.Name)
	}
	for _, nf := range user.BackendFactories {
		if nf.Factory == nil || slices.Contains(names, nf.Name) {
			continue
		}
		names = append(names, nf.Name)
	}

	cfg.Backends = make([]BackendConfig, 0, len(names))
	for _, name := range names {
		opts := base[name].Clone()
		maps.Copy(opts, user.Backends[name].DropNil())
		cfg.Backends = append(cfg.Backends, BackendConfig{Name: name, Options: opts})
	}
	return cfg
}

// Validate reports every setting that would make processing fail.
func (c Config) Validate() error {
	var errs []error
	if c.HashLength <= 0 {
		errs = append(errs, fmt.Errorf("hashLength must be positive, got %d", c.HashLength))
	}
	if !digest.Valid(c.HashAlgorithm) {
		errs = append(errs, fmt.Errorf("unknown hash algorithm %q", c.HashAlgorithm))
	}
	if c.FileName == "" {
		errs = append(errs, errors.New("fileName must not be empty"))
	}
	for _, f := range c.Precompress {
		if !compression.Valid(f) {
			errs = append(errs, fmt.Errorf("unknown precompress format %q", f))
		}
	}
	for _, p := range slices.Concat(c.Include, c.Exclude) {
		if p != "" && !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid glob pattern %q", p))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
