package assetpipe

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/aweris/assetpipe/internal/codec"
)

// OptionsFromMap converts loosely typed configuration (decoded JSON, YAML or
// viper settings) into Options. Keys are matched case-insensitively. Any other
// key holding a map is taken as the option overrides of the backend with that
// name; its keys are matched case-insensitively onto the option names of the
// built-in backends. Nil values are treated as unset.
func OptionsFromMap(m map[string]any) (Options, error) {
	var opts Options
	var err error

	for key, v := range m {
		if v == nil {
			continue
		}
		switch strings.ToLower(key) {
		case "disable":
			opts.Disable, err = boolPtr(v)
		case "verbose":
			opts.Verbose, err = boolPtr(v)
		case "emitfiles", "emit_files":
			opts.EmitFiles, err = boolPtr(v)
		case "hashlength", "hash_length":
			var n int
			if n, err = cast.ToIntE(v); err == nil {
				opts.HashLength = &n
			}
		case "hashalgorithm", "hash_algorithm":
			opts.HashAlgorithm, err = stringPtr(v)
		case "include":
			opts.Include, err = patterns(v)
		case "exclude":
			opts.Exclude, err = patterns(v)
		case "filename", "file_name":
			opts.FileName, err = stringPtr(v)
		case "publicpath", "public_path":
			opts.PublicPath, err = stringPtr(v)
		case "preservetree", "preserve_tree":
			var pt PreserveTree
			if pt, err = preserveTree(v); err == nil {
				opts.PreserveTree = &pt
			}
		case "precompress":
			opts.Precompress, err = patterns(v)
		default:
			sub, ok := v.(map[string]any)
			if !ok {
				continue
			}
			if opts.Backends == nil {
				opts.Backends = make(map[string]BackendOptions)
			}
			name := strings.ToLower(key)
			opts.Backends[name] = codec.CanonicalOptions(name, BackendOptions(sub))
		}
		if err != nil {
			return Options{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, key, err)
		}
	}
	return opts, nil
}

func boolPtr(v any) (*bool, error) {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func stringPtr(v any) (*string, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// patterns accepts a single string or a list. An empty string yields an
// empty, non-nil list.
func patterns(v any) ([]string, error) {
	if s, ok := v.(string); ok {
		if s == "" {
			return []string{}, nil
		}
		return []string{s}, nil
	}
	list, err := cast.ToStringSliceE(v)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// preserveTree accepts a bool, or a string naming the root directory.
// The strings "true" and "false" are read as booleans.
func preserveTree(v any) (PreserveTree, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(s) {
		case "", "false":
			return PreserveTree{}, nil
		case "true":
			return PreserveTree{Enabled: true}, nil
		}
		return PreserveTree{Enabled: true, Root: s}, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return PreserveTree{}, err
	}
	return PreserveTree{Enabled: b}, nil
}
