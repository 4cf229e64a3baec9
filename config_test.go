package assetpipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMergePrecedence(t *testing.T) {
	t.Run("set scalar overrides only that key", func(t *testing.T) {
		want := DefaultConfig()
		want.HashLength = 8

		assert.Equal(t, want, Resolve(DefaultConfig(), Options{HashLength: Int(8)}))
	})

	t.Run("absent values keep defaults", func(t *testing.T) {
		assert.Equal(t, DefaultConfig(), Resolve(DefaultConfig(), Options{}))
		assert.Equal(t, DefaultConfig(), Resolve(DefaultConfig(), Options{
			Backends: map[string]BackendOptions{BackendJPEG: {"quality": nil}},
		}))
	})

	t.Run("empty slice overrides", func(t *testing.T) {
		cfg := Resolve(DefaultConfig(), Options{Include: []string{}})
		assert.Empty(t, cfg.Include)
		assert.NotNil(t, cfg.Include)
	})
}

func TestResolveBackendOptions(t *testing.T) {
	cfg := Resolve(DefaultConfig(), Options{
		Backends: map[string]BackendOptions{
			BackendJPEG: {"quality": 60, "maxWidth": nil},
			BackendSVG:  {"multipass": false},
			"unknown":   {"x": 1},
		},
	})

	jpeg, ok := cfg.Backend(BackendJPEG)
	require.True(t, ok)
	assert.Equal(t, BackendOptions{"quality": 60}, jpeg)

	svg, ok := cfg.Backend(BackendSVG)
	require.True(t, ok)
	assert.Equal(t, BackendOptions{"precision": 1, "multipass": false}, svg)

	_, ok = cfg.Backend("unknown")
	assert.False(t, ok)
}

func TestResolveBackendFactories(t *testing.T) {
	passthrough := func(BackendOptions) Backend {
		return BackendFunc(func(_ context.Context, b []byte) ([]byte, error) { return b, nil })
	}

	cfg := Resolve(DefaultConfig(), Options{
		BackendFactories: []NamedFactory{
			{Name: "webp", Factory: passthrough},
			{Name: BackendPNG, Factory: passthrough},
			{Name: "avif", Factory: nil},
			{Name: "zz", Factory: passthrough},
		},
		Backends: map[string]BackendOptions{"webp": {"quality": 75}},
	})

	var names []string
	for _, b := range cfg.Backends {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{BackendJPEG, BackendPNG, BackendGIF, BackendSVG, "webp", "zz"}, names)

	webp, _ := cfg.Backend("webp")
	assert.Equal(t, BackendOptions{"quality": 75}, webp)
	zz, _ := cfg.Backend("zz")
	assert.Equal(t, BackendOptions{}, zz)
}

func TestDefaultConfigIsFresh(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include[0] = "changed"
	cfg.Backends[0].Options["quality"] = 1

	again := DefaultConfig()
	assert.Equal(t, DefaultInclude, again.Include[0])
	assert.Equal(t, 80, again.Backends[0].Options["quality"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    Options
		wantErr string
	}{
		{"defaults", Options{}, ""},
		{"zero hash length", Options{HashLength: Int(0)}, "hashLength"},
		{"unknown algorithm", Options{HashAlgorithm: String("md5")}, "md5"},
		{"empty file name", Options{FileName: String("")}, "fileName"},
		{"bad pattern", Options{Include: []string{"src/[a"}}, "src/[a"},
		{"bad precompress", Options{Precompress: []string{"brotli"}}, "brotli"},
		{"blake3", Options{HashAlgorithm: String(HashBLAKE3)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Resolve(DefaultConfig(), tt.user).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewInstantiatesFactoriesOnce(t *testing.T) {
	calls := 0
	var got BackendOptions
	factory := func(opts BackendOptions) Backend {
		calls++
		got = opts
		return BackendFunc(func(_ context.Context, b []byte) ([]byte, error) { return b, nil })
	}

	p, err := New(Options{
		BackendFactories: []NamedFactory{{Name: "custom", Factory: factory}},
		Backends:         map[string]BackendOptions{"custom": {"level": 2}},
	}, WithWorkingDir("/work"))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, 1, calls)
	assert.Equal(t, BackendOptions{"level": 2}, got)
	assert.Len(t, p.stages, 5)
	assert.Equal(t, "custom", p.stages[4].name)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(Options{HashLength: Int(-1)}, WithWorkingDir("/work"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestPluginConfigIsCopy(t *testing.T) {
	p, err := New(Options{}, WithWorkingDir("/work"))
	require.NoError(t, err)
	defer p.Close()

	cfg := p.Config()
	cfg.HashLength = 3
	cfg.Backends[0].Options["quality"] = 5

	assert.Equal(t, DefaultHashLength, p.Config().HashLength)
	assert.Equal(t, 80, p.Config().Backends[0].Options["quality"])
}
