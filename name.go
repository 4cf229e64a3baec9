package assetpipe

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	nameToken    = regexp.MustCompile(`(?i)\[name\]`)
	hashToken    = regexp.MustCompile(`(?i)\[hash\]`)
	extnameToken = regexp.MustCompile(`(?i)\[extname\]`)
)

// deriveName returns the logical name of an asset: its base name without
// extension, prefixed by its directory relative to the preserved root when
// tree preservation is on. Paths outside the root keep their full directory.
func deriveName(path string, tree PreserveTree, cwd string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	if !tree.Enabled {
		return base
	}

	root := cwd
	if tree.Root != "" {
		root = tree.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(cwd, root)
		}
	}
	prefix := filepath.Clean(root)
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	rel := strings.TrimPrefix(path, prefix)
	return filepath.Join(filepath.Dir(rel), base)
}

// resolvePath expands the first occurrence of each token in template and
// returns a cleaned, slash-separated relative path.
func resolvePath(template, name, hash, extname string) string {
	s := replaceFirst(nameToken, template, name)
	s = replaceFirst(hashToken, s, hash)
	s = replaceFirst(extnameToken, s, extname)
	return strings.ReplaceAll(filepath.Clean(s), `\`, "/")
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
