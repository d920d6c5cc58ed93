package ossvfs

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mwantia/ossvfs/data"
	"github.com/tidwall/btree"
)

// directoryIndex maps normalized absolute virtual paths to entries.
// Every operation holds mu for its full duration.
type directoryIndex struct {
	mu       sync.Mutex
	entries  *btree.Map[string, *FileEntry]
	loadedAt time.Time
	metrics  *Metrics
}

func newDirectoryIndex(metrics *Metrics) *directoryIndex {
	return &directoryIndex{
		entries: btree.NewMap[string, *FileEntry](0),
		metrics: metrics,
	}
}

// Len returns the number of entries.
func (idx *directoryIndex) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.entries.Len()
}

// populate runs load once if the index is empty. load runs with the index
// locked, so concurrent callers wait and observe the populated index.
// If ttl is positive, an index older than ttl is dropped first.
func (idx *directoryIndex) populate(ttl time.Duration, load func() (map[string]*FileEntry, error)) (bool, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if ttl > 0 && idx.entries.Len() > 0 && time.Since(idx.loadedAt) > ttl {
		idx.dropLocked()
	}
	if idx.entries.Len() > 0 {
		return false, nil
	}

	entries, err := load()
	if err != nil {
		return false, err
	}

	for path, entry := range entries {
		if previous, replaced := idx.entries.Set(path, entry); replaced {
			previous.release()
		}
	}
	idx.loadedAt = time.Now()
	idx.metrics.indexSize(idx.entries.Len())

	return true, nil
}

// open looks up path+"/" and then path, taking a reference on a hit.
// The file entry wins if both exist. The second result reports whether the
// match should be treated as a directory.
func (idx *directoryIndex) open(path string) (*FileEntry, bool, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	entry, isDir, ok := idx.lookupLocked(path)
	if ok {
		entry.acquire()
	}
	return entry, isDir, ok
}

func (idx *directoryIndex) lookupLocked(path string) (*FileEntry, bool, bool) {
	if entry, ok := idx.entries.Get(path); ok {
		return entry, entry.isDirectory, true
	}
	if entry, ok := idx.entries.Get(path + "/"); ok {
		return entry, true, true
	}
	return nil, false, false
}

// stat is lookup with the directory variant checked first, so a path
// listed both as "x" and "x/" is reported as a directory.
func (idx *directoryIndex) stat(path string) (*FileEntry, bool, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if entry, ok := idx.entries.Get(path + "/"); ok {
		return entry, true, true
	}
	if entry, ok := idx.entries.Get(path); ok {
		return entry, entry.isDirectory, true
	}
	return nil, false, false
}

// hasDescendants reports whether any entry lives below path.
func (idx *directoryIndex) hasDescendants(path string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.hasDescendantsLocked(path)
}

func (idx *directoryIndex) hasDescendantsLocked(path string) bool {
	root := strings.TrimSuffix(path, "/") + "/"
	found := false
	idx.entries.Ascend(root, func(key string, _ *FileEntry) bool {
		if !strings.HasPrefix(key, root) {
			return false
		}
		// The trailing slash entry of the directory itself does not count
		if key != root {
			found = true
		}
		return !found
	})
	return found
}

// dirEntry is one name returned by children.
type dirEntry struct {
	name  string
	isDir bool
}

// children returns the unique names one level below dir, sorted by name.
// Names that only exist as parents of deeper entries are reported as directories.
func (idx *directoryIndex) children(dir string, max int) []dirEntry {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	root := strings.TrimSuffix(dir, "/") + "/"
	names := make(map[string]bool)

	idx.entries.Ascend(root, func(key string, entry *FileEntry) bool {
		if !strings.HasPrefix(key, root) {
			return false
		}

		name, nested := data.ChildName(root, key)
		if name == "" {
			return true
		}
		names[name] = names[name] || nested || entry.isDirectory || strings.HasSuffix(key, "/")
		return true
	})

	result := make([]dirEntry, 0, len(names))
	for _, name := range slices.Sorted(maps.Keys(names)) {
		if max > 0 && len(result) >= max {
			break
		}
		result = append(result, dirEntry{name: name, isDir: names[name]})
	}
	return result
}

// rename moves oldPath and everything below it to newPath, keeping entry identity.
// Entries already present at a destination are unlinked first.
// Returns false if nothing exists at or below oldPath.
func (idx *directoryIndex) rename(oldPath, newPath string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	type move struct {
		from, to string
		entry    *FileEntry
	}

	var moves []move
	idx.entries.Ascend(oldPath, func(key string, entry *FileEntry) bool {
		if !strings.HasPrefix(key, oldPath) {
			return false
		}
		if data.IsDescendant(key, oldPath) {
			moves = append(moves, move{
				from:  key,
				to:    newPath + key[len(oldPath):],
				entry: entry,
			})
		}
		return true
	})

	if len(moves) == 0 {
		return false
	}

	for _, m := range moves {
		idx.entries.Delete(m.from)
	}
	for _, m := range moves {
		if existing, ok := idx.entries.Get(m.to); ok {
			idx.entries.Delete(m.to)
			existing.release()
		}

		m.entry.path = m.to
		idx.entries.Set(m.to, m.entry)
	}

	idx.metrics.indexSize(idx.entries.Len())
	return true
}

// unlink removes the entry at path (or its trailing slash variant)
// and drops the index reference.
func (idx *directoryIndex) unlink(path string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.unlinkLocked(path)
}

func (idx *directoryIndex) unlinkLocked(path string) bool {
	entry, ok := idx.entries.Delete(path)
	if !ok {
		if entry, ok = idx.entries.Delete(path + "/"); !ok {
			return false
		}
	}

	entry.release()
	idx.metrics.indexSize(idx.entries.Len())
	return true
}

// mkdir inserts a directory entry at path unless one of its variants exists
// or path is already implied by entries below it.
func (idx *directoryIndex) mkdir(path string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, _, ok := idx.lookupLocked(path); ok {
		return false
	}
	if idx.hasDescendantsLocked(path) {
		return false
	}

	idx.entries.Set(path, newFileEntry(path, true, 0, time.Time{}))
	idx.metrics.indexSize(idx.entries.Len())
	return true
}

// rmdir removes the directory entry at path if nothing lives below it.
func (idx *directoryIndex) rmdir(path string) (removed, notEmpty bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.hasDescendantsLocked(path) {
		return false, true
	}
	return idx.unlinkLocked(path), false
}

// drop releases the index reference of every entry and empties the index.
// Returns the number of entries that were freed immediately.
func (idx *directoryIndex) drop() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.dropLocked()
}

func (idx *directoryIndex) dropLocked() int {
	freed := 0
	idx.entries.Scan(func(_ string, entry *FileEntry) bool {
		if entry.release() {
			freed++
		}
		return true
	})

	idx.entries = btree.NewMap[string, *FileEntry](0)
	idx.loadedAt = time.Time{}
	idx.metrics.indexSize(0)

	return freed
}
