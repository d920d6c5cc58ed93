package ossvfs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T, paths ...string) *directoryIndex {
	t.Helper()

	idx := newDirectoryIndex(nil)
	loaded, err := idx.populate(0, func() (map[string]*FileEntry, error) {
		entries := make(map[string]*FileEntry, len(paths))
		for _, path := range paths {
			entries[path] = newFileEntry(path, false, int64(len(path)), time.Time{})
		}
		return entries, nil
	})
	require.NoError(t, err)
	require.True(t, loaded)
	return idx
}

func TestDirectoryIndex_Populate(t *testing.T) {
	idx := newTestIndex(t, "/m/b/x")

	loaded, err := idx.populate(0, func() (map[string]*FileEntry, error) {
		t.Fatal("populate must not reload a non-empty index")
		return nil, nil
	})
	require.NoError(t, err)
	assert.False(t, loaded)

	empty := newDirectoryIndex(nil)
	_, err = empty.populate(0, func() (map[string]*FileEntry, error) {
		return nil, errors.New("listing failed")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestDirectoryIndex_OpenAndStat(t *testing.T) {
	idx := newTestIndex(t, "/m/b/f", "/m/b/f/", "/m/b/d/")

	t.Run("open prefers the file entry", func(t *testing.T) {
		entry, isDir, ok := idx.open("/m/b/f")
		require.True(t, ok)
		assert.False(t, isDir)
		assert.Equal(t, int64(len("/m/b/f")), entry.Length())
		assert.Equal(t, int64(2), entry.RefCount())
		assert.False(t, entry.release())
	})

	t.Run("stat prefers the directory entry", func(t *testing.T) {
		entry, isDir, ok := idx.stat("/m/b/f")
		require.True(t, ok)
		assert.True(t, isDir)
		assert.Equal(t, int64(len("/m/b/f/")), entry.Length())
		assert.Equal(t, int64(1), entry.RefCount())
	})

	t.Run("directory only", func(t *testing.T) {
		_, isDir, ok := idx.open("/m/b/d")
		require.True(t, ok)
		assert.True(t, isDir)

		_, isDir, ok = idx.stat("/m/b/d")
		require.True(t, ok)
		assert.True(t, isDir)
	})

	t.Run("missing", func(t *testing.T) {
		_, _, ok := idx.open("/m/b/none")
		assert.False(t, ok)
		_, _, ok = idx.stat("/m/b/none")
		assert.False(t, ok)
	})
}

func TestDirectoryIndex_Children(t *testing.T) {
	idx := newTestIndex(t, "/m/b/a", "/m/b/a.txt", "/m/b/a/x", "/m/b/a/y/z", "/m/b/c/")

	children := idx.children("/m/b", 0)
	assert.Equal(t, []dirEntry{
		{name: "a", isDir: true},
		{name: "a.txt"},
		{name: "c", isDir: true},
	}, children)

	children = idx.children("/m/b/a/", 0)
	assert.Equal(t, []dirEntry{
		{name: "x"},
		{name: "y", isDir: true},
	}, children)

	assert.Len(t, idx.children("/m/b", 1), 1)
	assert.Empty(t, idx.children("/m/q", 0))
}

func TestDirectoryIndex_Rename(t *testing.T) {
	idx := newTestIndex(t, "/m/b/a", "/m/b/a/x", "/m/b/ax")

	t.Run("into own subtree", func(t *testing.T) {
		require.True(t, idx.rename("/m/b/a", "/m/b/a/sub"))

		for _, path := range []string{"/m/b/a/sub", "/m/b/a/sub/x", "/m/b/ax"} {
			_, _, ok := idx.stat(path)
			assert.True(t, ok, path)
		}
		assert.Equal(t, 3, idx.Len())
	})

	t.Run("missing source", func(t *testing.T) {
		assert.False(t, idx.rename("/m/b/nope", "/m/b/z"))
	})
}

func TestDirectoryIndex_Drop(t *testing.T) {
	idx := newTestIndex(t, "/m/b/x", "/m/b/y")

	held, _, ok := idx.open("/m/b/x")
	require.True(t, ok)
	assert.Equal(t, int64(2), held.RefCount())

	assert.Equal(t, 1, idx.drop())
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, int64(1), held.RefCount())

	assert.True(t, held.release())
}

func TestDirectoryIndex_Mkdir(t *testing.T) {
	idx := newTestIndex(t, "/m/b/d/")

	assert.False(t, idx.mkdir("/m/b/d"))
	assert.True(t, idx.mkdir("/m/b/e"))

	implied := newTestIndex(t, "/m/b/dir/b.tif")
	assert.False(t, implied.mkdir("/m/b/dir"), "parent of an indexed entry already exists")
	assert.False(t, implied.mkdir("/m/b"))
	assert.Equal(t, 1, implied.Len())

	removed, notEmpty := idx.rmdir("/m/b/e")
	assert.True(t, removed)
	assert.False(t, notEmpty)

	removed, _ = idx.rmdir("/m/b/d")
	assert.True(t, removed)
}
