package data

import (
	"io/fs"
	"path"
	"strings"
	"time"
)

// FileStat describes a single virtual file or directory.
type FileStat struct {
	// Normalized absolute virtual path
	Path string `json:"path"`

	// Unix-style mode and permissions
	Mode FileMode `json:"mode"`

	// Size in bytes (0 for directories)
	Size int64 `json:"size"`

	ModifyTime time.Time `json:"modify_time"`
}

// Name returns the base name of the file or directory.
func (s *FileStat) Name() string {
	return path.Base(strings.TrimSuffix(s.Path, "/"))
}

func (s *FileStat) IsDir() bool {
	return s.Mode.IsDir()
}

func (s *FileStat) ModTime() time.Time {
	return s.ModifyTime
}

func (s *FileStat) Sys() any {
	return nil
}

// FileInfo exposes the stat as an io/fs.FileInfo.
func (s *FileStat) FileInfo() fs.FileInfo {
	return fileInfo{s}
}

var _ fs.FileInfo = fileInfo{}

type fileInfo struct {
	*FileStat
}

func (fi fileInfo) Mode() fs.FileMode {
	return fi.FileStat.Mode.FS()
}

func (fi fileInfo) Size() int64 {
	return fi.FileStat.Size
}
