package data

import "io/fs"

// FileMode represents file mode and permission bits.
// The type bits share their layout with io/fs.FileMode.
type FileMode uint32

const (
	ModeDir  FileMode = 1 << 31 // d: directory
	ModePerm FileMode = 0777    // Unix permission bits

	ModeRegularFile FileMode = 0444
	ModeDirectory   FileMode = ModeDir | 0555
)

// IsDir reports whether m describes a directory.
func (m FileMode) IsDir() bool {
	return m&ModeDir != 0
}

// IsRegular reports whether m describes a regular file.
func (m FileMode) IsRegular() bool {
	return m&ModeDir == 0
}

// Perm returns the Unix permission bits in m.
func (m FileMode) Perm() FileMode {
	return m & ModePerm
}

// FS converts m into the equivalent io/fs.FileMode.
func (m FileMode) FS() fs.FileMode {
	mode := fs.FileMode(m.Perm())
	if m.IsDir() {
		mode |= fs.ModeDir
	}
	return mode
}

// String returns a textual representation of the mode in ls -l format.
func (m FileMode) String() string {
	return m.FS().String()
}
