package data

import (
	"strings"
)

// NormalizePath converts all backslashes into forward slashes.
// No other cleaning is applied, since object keys may legally contain
// sequences like "//" or "..".
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// EnsurePrefix makes sure the mount prefix ends with exactly one slash
// and starts with a leading slash.
func EnsurePrefix(prefix string) string {
	prefix = "/" + strings.Trim(NormalizePath(prefix), "/")
	if prefix == "/" {
		return prefix
	}
	return prefix + "/"
}

// HasPrefix checks if path lives below the mount prefix.
// The comparison is case-insensitive.
func HasPrefix(path, prefix string) bool {
	return len(path) >= len(prefix) && strings.EqualFold(path[:len(prefix)], prefix)
}

// ToRelativePath removes the mount prefix from path.
// Returns false if path does not live below prefix.
func ToRelativePath(path, prefix string) (string, bool) {
	if !HasPrefix(path, prefix) {
		return "", false
	}
	return path[len(prefix):], true
}

// IsDescendant reports whether path equals root or is nested below it.
// "/b/ax" is not a descendant of "/b/a".
func IsDescendant(path, root string) bool {
	if !strings.HasPrefix(path, root) {
		return false
	}
	rest := path[len(root):]
	return rest == "" || rest[0] == '/' || strings.HasSuffix(root, "/")
}

// ChildName returns the first path segment of path below dir.
// The second result reports whether the child is nested deeper than one level.
// An empty name is returned if path is not below dir.
func ChildName(dir, path string) (string, bool) {
	dir = strings.TrimSuffix(dir, "/")
	if len(path) <= len(dir)+1 || !strings.HasPrefix(path, dir) || path[len(dir)] != '/' {
		return "", false
	}

	rest := path[len(dir)+1:]
	name, _, nested := strings.Cut(rest, "/")
	// A trailing slash marks a directory object, not a deeper level
	if nested && strings.TrimSuffix(rest, "/") == name {
		nested = false
	}

	return name, nested
}
