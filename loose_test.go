package assetpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOptionsFromMap(t *testing.T) {
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(`
hashLength: 8
emitFiles: "false"
include: "src/**/*.png"
exclude: ""
fileName: "[name][extname]"
preserveTree: src/assets
precompress: [gzip]
jpeg:
  quality: 70
  progressive: null
publicPath: null
`), &raw))

	opts, err := OptionsFromMap(raw)
	require.NoError(t, err)

	assert.Equal(t, Int(8), opts.HashLength)
	assert.Equal(t, Bool(false), opts.EmitFiles)
	assert.Equal(t, []string{"src/**/*.png"}, opts.Include)
	assert.Equal(t, []string{}, opts.Exclude)
	assert.Equal(t, String("[name][extname]"), opts.FileName)
	assert.Equal(t, &PreserveTree{Enabled: true, Root: "src/assets"}, opts.PreserveTree)
	assert.Equal(t, []string{"gzip"}, opts.Precompress)
	assert.Nil(t, opts.PublicPath)
	assert.Nil(t, opts.Disable)

	cfg := Resolve(DefaultConfig(), opts)
	jpeg, _ := cfg.Backend(BackendJPEG)
	assert.Equal(t, BackendOptions{"quality": 70}, jpeg)
	assert.Empty(t, cfg.Exclude)
}

func TestOptionsFromMapLowercaseKeys(t *testing.T) {
	opts, err := OptionsFromMap(map[string]any{
		"hashlength":     "12",
		"hash_algorithm": "blake3",
		"preservetree":   true,
		"verbose":        "true",
		"SVG":            map[string]any{"precision": 3},
	})
	require.NoError(t, err)

	assert.Equal(t, Int(12), opts.HashLength)
	assert.Equal(t, String(HashBLAKE3), opts.HashAlgorithm)
	assert.Equal(t, &PreserveTree{Enabled: true}, opts.PreserveTree)
	assert.Equal(t, Bool(true), opts.Verbose)
	assert.Equal(t, BackendOptions{"precision": 3}, opts.Backends[BackendSVG])
}

func TestOptionsFromMapBackendKeysIgnoreCase(t *testing.T) {
	opts, err := OptionsFromMap(map[string]any{
		"png":  map[string]any{"compressionlevel": "none"},
		"jpeg": map[string]any{"maxwidth": 64},
	})
	require.NoError(t, err)

	cfg := Resolve(DefaultConfig(), opts)
	png, _ := cfg.Backend(BackendPNG)
	assert.Equal(t, BackendOptions{"compressionLevel": "none"}, png)
	jpeg, _ := cfg.Backend(BackendJPEG)
	assert.Equal(t, BackendOptions{"quality": 80, "maxWidth": 64}, jpeg)
}

func TestOptionsFromMapErrors(t *testing.T) {
	_, err := OptionsFromMap(map[string]any{"hashLength": "abc"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "hashLength")

	_, err = OptionsFromMap(map[string]any{"disable": "maybe"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPreserveTreeForms(t *testing.T) {
	tests := []struct {
		in   any
		want PreserveTree
	}{
		{false, PreserveTree{}},
		{true, PreserveTree{Enabled: true}},
		{"true", PreserveTree{Enabled: true}},
		{"False", PreserveTree{}},
		{"", PreserveTree{}},
		{"assets", PreserveTree{Enabled: true, Root: "assets"}},
	}
	for _, tt := range tests {
		got, err := preserveTree(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%v", tt.in)
	}
}
