package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Output writes files below a root directory.
type Output struct {
	fs   afero.Fs
	root string
}

func NewOutput(fs afero.Fs, root string) *Output {
	return &Output{fs: fs, root: root}
}

func (o *Output) Root() string { return o.root }

// Path returns the destination of a slash-separated relative path.
func (o *Output) Path(rel string) string {
	return filepath.Join(o.root, filepath.FromSlash(rel))
}

// MkdirFor creates the directory chain holding rel.
func (o *Output) MkdirFor(rel string) error {
	dir := filepath.Dir(o.Path(rel))
	if err := o.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// Write replaces the file at rel with data. The directory must exist.
func (o *Output) Write(rel string, data []byte) error {
	path := o.Path(rel)
	if err := afero.WriteFile(o.fs, path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Exists reports whether rel is present under the root.
func (o *Output) Exists(rel string) (bool, error) {
	_, err := o.fs.Stat(o.Path(rel))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
