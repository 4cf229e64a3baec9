package assetpipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveName(t *testing.T) {
	tests := []struct {
		name string
		path string
		tree PreserveTree
		want string
	}{
		{"base name only", "/work/src/assets/icons/logo.svg", PreserveTree{}, "logo"},
		{"relative to cwd", "/work/src/assets/icons/logo.svg", PreserveTree{Enabled: true}, "src/assets/icons/logo"},
		{"relative to root", "/work/src/assets/icons/logo.svg", PreserveTree{Enabled: true, Root: "src/assets"}, "icons/logo"},
		{"absolute root", "/work/src/assets/icons/logo.svg", PreserveTree{Enabled: true, Root: "/work/src"}, "assets/icons/logo"},
		{"root with trailing slash", "/work/src/logo.svg", PreserveTree{Enabled: true, Root: "src/"}, "logo"},
		{"outside root keeps directory", "/elsewhere/logo.png", PreserveTree{Enabled: true}, "/elsewhere/logo"},
		{"filesystem root", "/work/a/logo.svg", PreserveTree{Enabled: true, Root: "/"}, "work/a/logo"},
		{"multiple dots", "/work/a.min.svg", PreserveTree{}, "a.min"},
		{"no extension", "/work/LICENSE", PreserveTree{}, "LICENSE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveName(tt.path, tt.tree, "/work"))
		})
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"default template", "[name]-[hash][extname]", "icons/logo-abcd1234.svg"},
		{"case insensitive", "[NAME].[Hash][ExtName]", "icons/logo.abcd1234.svg"},
		{"first occurrence only", "[name]/[name][extname]", "icons/logo/[name].svg"},
		{"prefix directory", "static/[hash]/[name][extname]", "static/abcd1234/icons/logo.svg"},
		{"no tokens", "static//img/./x.png", "static/img/x.png"},
		{"backslashes", `static\img\[name][extname]`, "static/img/icons/logo.svg"},
		{"parent segments", "../[name][extname]", "../icons/logo.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolvePath(tt.template, "icons/logo", "abcd1234", ".svg"))
		})
	}
}

func TestSizeDelta(t *testing.T) {
	smaller, pct := sizeDelta(200, 150)
	assert.True(t, smaller)
	assert.Equal(t, 25, pct)

	smaller, pct = sizeDelta(100, 110)
	assert.False(t, smaller)
	assert.Equal(t, 10, pct)

	_, pct = sizeDelta(0, 10)
	assert.Equal(t, 0, pct)
}

func TestModuleCode(t *testing.T) {
	assert.Equal(t,
		`export default new URL("/static/logo-1234.png", import.meta.url).href;`,
		moduleCode("/static/logo-1234.png"))
	assert.Equal(t,
		`export default new URL("a\"b.png", import.meta.url).href;`,
		moduleCode(`a"b.png`))
}
