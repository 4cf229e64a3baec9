package codec

import (
	"slices"
	"strings"
)

// Built-in backend names.
const (
	JPEG = "jpeg"
	PNG  = "png"
	GIF  = "gif"
	SVG  = "svg"
)

// Registry maps backend names to factories and remembers registration order.
// Re-registering a name replaces its factory but keeps its position.
type Registry struct {
	names     []string
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Builtins returns a registry holding jpeg, png, gif and svg, in that order.
func Builtins() *Registry {
	r := NewRegistry()
	r.Register(JPEG, NewJPEG)
	r.Register(PNG, NewPNG)
	r.Register(GIF, NewGIF)
	r.Register(SVG, NewSVG)
	return r
}

// DefaultOptions returns fresh default options for each built-in backend.
func DefaultOptions() map[string]Options {
	return map[string]Options{
		JPEG: {"quality": 80},
		PNG:  {"compressionLevel": "best"},
		GIF:  {"optimizationLevel": 3},
		SVG:  {"precision": 1, "multipass": true},
	}
}

// optionKeys lists the option names each built-in backend reads.
var optionKeys = map[string][]string{
	JPEG: {"quality", "maxWidth", "maxHeight"},
	PNG:  {"compressionLevel", "maxWidth", "maxHeight"},
	GIF:  {"optimizationLevel"},
	SVG:  {"precision", "multipass"},
}

// CanonicalOptions returns a copy of opts whose keys are matched
// case-insensitively onto the option names the named built-in backend reads.
// Unknown keys and options of other backends are kept as given.
func CanonicalOptions(backend string, opts Options) Options {
	out := make(Options, len(opts))
	for k, v := range opts {
		for _, known := range optionKeys[backend] {
			if strings.EqualFold(k, known) {
				k = known
				break
			}
		}
		out[k] = v
	}
	return out
}

func (r *Registry) Register(name string, f Factory) {
	if _, ok := r.factories[name]; !ok {
		r.names = append(r.names, name)
	}
	r.factories[name] = f
}

func (r *Registry) Lookup(name string) (Factory, bool) {
	f, ok := r.factories[name]
	return f, ok
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}
