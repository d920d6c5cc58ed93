package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/vsigposs/bkt/dir/file", NormalizePath(`\vsigposs\bkt\dir/file`))
	assert.Equal(t, "/vsigposs/bkt//a/../b", NormalizePath("/vsigposs/bkt//a/../b"))
}

func TestEnsurePrefix(t *testing.T) {
	tests := map[string]string{
		"/vsigposs/": "/vsigposs/",
		"vsigposs":   "/vsigposs/",
		`\vsix\`:     "/vsix/",
		"/":          "/",
		"":           "/",
	}

	for input, expected := range tests {
		assert.Equal(t, expected, EnsurePrefix(input), input)
	}
}

func TestToRelativePath(t *testing.T) {
	rel, ok := ToRelativePath("/vsigposs/bkt/key", "/vsigposs/")
	assert.True(t, ok)
	assert.Equal(t, "bkt/key", rel)

	rel, ok = ToRelativePath("/VSIGPOSS/bkt", "/vsigposs/")
	assert.True(t, ok)
	assert.Equal(t, "bkt", rel)

	_, ok = ToRelativePath("/vsis3/bkt/key", "/vsigposs/")
	assert.False(t, ok)

	_, ok = ToRelativePath("/vsi", "/vsigposs/")
	assert.False(t, ok)
}

func TestIsDescendant(t *testing.T) {
	assert.True(t, IsDescendant("/b/a", "/b/a"))
	assert.True(t, IsDescendant("/b/a/x", "/b/a"))
	assert.True(t, IsDescendant("/b/a/", "/b/a"))
	assert.False(t, IsDescendant("/b/ax", "/b/a"))
	assert.False(t, IsDescendant("/c", "/b/a"))
}

func TestChildName(t *testing.T) {
	tests := []struct {
		dir, path string
		name      string
		nested    bool
	}{
		{"/m/b", "/m/b/a.tif", "a.tif", false},
		{"/m/b/", "/m/b/dir/b.tif", "dir", true},
		{"/m/b", "/m/b/dir/", "dir", false},
		{"/m/b", "/m/b/", "", false},
		{"/m/b", "/m/bx/a", "", false},
		{"/m/b", "/m/b", "", false},
	}

	for _, tt := range tests {
		name, nested := ChildName(tt.dir, tt.path)
		assert.Equal(t, tt.name, name, tt.path)
		assert.Equal(t, tt.nested, nested, tt.path)
	}
}

func TestContentTypeOf(t *testing.T) {
	assert.Equal(t, ContentTypeTIFF, ContentTypeOf("/vsigposs/bkt/scene.TIF"))
	assert.Equal(t, ContentTypeGeoJSON, ContentTypeOf("bkt/roads.geojson"))
	assert.Equal(t, ContentTypeDirectory, ContentTypeOf("bkt/dir/"))
	assert.Equal(t, ContentTypeStream, ContentTypeOf("bkt/blob"))

	dir := &FileStat{Path: "/vsigposs/bkt/a.tif", Mode: ModeDirectory}
	assert.Equal(t, ContentTypeDirectory, dir.ContentType())
}
