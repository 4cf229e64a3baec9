package assetpipe

import "github.com/aweris/assetpipe/internal/codec"

// Backend transforms the bytes of an asset. Implementations must pass through
// content they do not handle. Re-exported from internal/codec.
type Backend = codec.Backend

// BackendFunc adapts a function to Backend.
type BackendFunc = codec.Func

// BackendFactory creates a Backend from its resolved options. It is called
// once per plugin, never per asset.
type BackendFactory = codec.Factory

// BackendOptions holds the settings of one backend.
type BackendOptions = codec.Options

// Built-in backend names.
const (
	BackendJPEG = codec.JPEG
	BackendPNG  = codec.PNG
	BackendGIF  = codec.GIF
	BackendSVG  = codec.SVG
)

// NamedFactory registers a factory under a backend name. Using a built-in
// name replaces that backend; a new name appends a backend to the pipeline.
type NamedFactory struct {
	Name    string
	Factory BackendFactory
}
