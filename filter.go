package assetpipe

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides which paths are processed. A path matching any exclude
// pattern is skipped; otherwise it must match an include pattern, or the
// include list must be empty.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter builds a filter. Patterns that are neither absolute nor start
// with "*" are resolved against cwd. Empty patterns are ignored.
func NewFilter(include, exclude []string, cwd string) *Filter {
	return &Filter{
		include: normalizePatterns(include, cwd),
		exclude: normalizePatterns(exclude, cwd),
	}
}

func normalizePatterns(patterns []string, cwd string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "*") && !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}
		out = append(out, matchForm(p))
	}
	return out
}

// matchForm converts a path or pattern to forward slashes without a
// leading root slash so that "**/" patterns match absolute paths.
func matchForm(p string) string {
	return strings.TrimPrefix(filepath.ToSlash(p), "/")
}

// Match reports whether the absolute path should be processed.
func (f *Filter) Match(path string) bool {
	if strings.ContainsRune(path, 0) {
		return false
	}
	name := matchForm(path)

	for _, p := range f.exclude {
		if ok, _ := doublestar.Match(p, name); ok {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, p := range f.include {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
