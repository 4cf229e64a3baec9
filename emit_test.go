package assetpipe

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultyFs fails writes and directory creation for paths containing the
// configured fragments.
type faultyFs struct {
	afero.Fs
	failWrite string
	failMkdir string
}

func (f faultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.failWrite != "" && flag&os.O_WRONLY != 0 && strings.Contains(name, f.failWrite) {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f faultyFs) MkdirAll(path string, perm os.FileMode) error {
	if f.failMkdir != "" && strings.Contains(path, f.failMkdir) {
		return errors.New("permission denied")
	}
	return f.Fs.MkdirAll(path, perm)
}

func loadAndFinalize(t *testing.T, fs afero.Fs, user Options, ids ...string) error {
	t.Helper()
	p := newTestPlugin(t, fs, user)
	b := p.BuildStart(context.Background())
	_, err := b.LoadAll(context.Background(), ids)
	require.NoError(t, err)
	return b.Finalize(context.Background(), Output{Dir: "/dist"})
}

func TestEmitWriteFailureIsIsolated(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeFile(t, mem, "/work/a.png", []byte("aaa"))
	writeFile(t, mem, "/work/b.png", []byte("bbb"))
	fs := faultyFs{Fs: mem, failWrite: "/dist/b.png"}

	err := loadAndFinalize(t, fs, Options{FileName: String("[name][extname]")}, "a.png", "b.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWrite)
	assert.False(t, errors.Is(err, ErrDirCreate))
	assert.ErrorContains(t, err, "b.png")

	got, err := afero.ReadFile(mem, "/dist/a.png")
	require.NoError(t, err)
	assert.Equal(t, "aaa", string(got))
}

func TestEmitDirCreateFailure(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeFile(t, mem, "/work/icons/x.png", []byte("x"))
	writeFile(t, mem, "/work/y.png", []byte("y"))
	fs := faultyFs{Fs: mem, failMkdir: "/dist/icons"}

	err := loadAndFinalize(t, fs, Options{
		FileName:     String("[name][extname]"),
		PreserveTree: &PreserveTree{Enabled: true},
	}, "icons/x.png", "y.png")
	assert.ErrorIs(t, err, ErrDirCreate)

	ok, _ := afero.Exists(mem, "/dist/y.png")
	assert.True(t, ok)
}

func TestEmitPrecompressedVariants(t *testing.T) {
	mem := afero.NewMemMapFs()
	svg := `<svg xmlns="http://www.w3.org/2000/svg">` + strings.Repeat(`<rect x="1" y="1" width="2" height="2"/>`, 20) + `</svg>`
	writeFile(t, mem, "/work/shape.svg", []byte(svg))
	writeFile(t, mem, "/work/tiny.png", []byte("tiny"))

	err := loadAndFinalize(t, mem, Options{
		Disable:     Bool(true),
		FileName:    String("[name][extname]"),
		Precompress: []string{PrecompressGzip, PrecompressZstd},
	}, "shape.svg", "tiny.png")
	require.NoError(t, err)

	for _, path := range []string{"/dist/shape.svg", "/dist/shape.svg.gz", "/dist/shape.svg.zst", "/dist/tiny.png"} {
		ok, _ := afero.Exists(mem, path)
		assert.True(t, ok, path)
	}
	for _, path := range []string{"/dist/tiny.png.gz", "/dist/tiny.png.zst"} {
		ok, _ := afero.Exists(mem, path)
		assert.False(t, ok, path)
	}
}

func TestEmitCanceled(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeFile(t, mem, "/work/a.png", []byte("a"))

	p := newTestPlugin(t, mem, Options{})
	b := p.BuildStart(context.Background())
	_, err := b.Load(context.Background(), "a.png")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = b.Finalize(ctx, Output{Dir: "/dist"})
	assert.ErrorIs(t, err, context.Canceled)
}
