package ossvfs

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/mwantia/ossvfs/data"
	"github.com/mwantia/ossvfs/data/errors"
	"github.com/mwantia/ossvfs/objstore"
)

// FileHandle is an open, read-only view of one FileEntry.
// The cursor and EOF flag are private to the handle, the content buffer
// is shared with every other handle on the same entry.
type FileHandle struct {
	mu  sync.Mutex
	ctx context.Context

	fs     *FileSystem
	entry  *FileEntry
	helper *HandleHelper
	client objstore.Client

	path   string
	isDir  bool
	offset int64
	eof    bool
	closed bool
}

var (
	_ io.ReadSeekCloser = (*FileHandle)(nil)
	_ io.ReaderAt       = (*FileHandle)(nil)
	_ io.Writer         = (*FileHandle)(nil)
)

func newFileHandle(ctx context.Context, fs *FileSystem, entry *FileEntry, helper *HandleHelper, client objstore.Client, path string, isDir bool) *FileHandle {
	return &FileHandle{
		ctx: context.WithoutCancel(ctx),

		fs:     fs,
		entry:  entry,
		helper: helper,
		client: client,

		path:  path,
		isDir: isDir,
	}
}

// Name returns the virtual path the handle was opened with.
func (h *FileHandle) Name() string {
	return h.path
}

// Helper returns the connection parameters bound at open.
func (h *FileHandle) Helper() *HandleHelper {
	return h.helper
}

// ReadElements reads up to count elements of size bytes into p and returns
// the number of complete elements read. Reading past the end sets the EOF flag.
func (h *FileHandle) ReadElements(p []byte, size, count int) (int, error) {
	if size <= 0 || count <= 0 {
		return 0, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, errors.Closed("read", h.path)
	}

	if count > math.MaxInt/size {
		h.eof = true
		return 0, nil
	}

	want := size * count
	if want > len(p) {
		want = len(p) - len(p)%size
	}

	n, err := h.readLocked(p[:want])
	if err != nil {
		return 0, err
	}
	return n / size, nil
}

// Read implements io.Reader.
func (h *FileHandle) Read(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, errors.Closed("read", h.path)
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := h.readLocked(p)
	if err != nil {
		return n, err
	}
	if n == 0 && h.eof {
		return 0, io.EOF
	}
	return n, nil
}

func (h *FileHandle) readLocked(p []byte) (int, error) {
	length := h.entry.length
	if h.isDir || h.offset >= length {
		h.eof = true
		return 0, nil
	}

	want := int64(len(p))
	if remaining := length - h.offset; want > remaining {
		want = remaining
		h.eof = true
	}
	if want == 0 {
		return 0, nil
	}

	buf, err := h.buffer()
	if err != nil {
		h.eof = false
		return 0, err
	}

	n := copy(p[:want], buf[h.offset:])
	h.offset += int64(n)
	return n, nil
}

// ReadAt implements io.ReaderAt without moving the cursor.
func (h *FileHandle) ReadAt(p []byte, off int64) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, errors.Closed("read", h.path)
	}
	if off < 0 {
		return 0, errors.Invalid("read", h.path)
	}
	if h.isDir || off >= h.entry.length {
		return 0, io.EOF
	}

	buf, err := h.buffer()
	if err != nil {
		return 0, err
	}

	n := copy(p, buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (h *FileHandle) buffer() ([]byte, error) {
	return h.entry.buffer(h.ctx, h.client, h.helper.Bucket(), h.helper.ObjectKey(), h.fs.maxBuffer, h.fs.metrics)
}

// Seek implements io.Seeker and clears the EOF flag.
func (h *FileHandle) Seek(offset int64, whence int) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0, errors.Closed("seek", h.path)
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = h.offset + offset
	case io.SeekEnd:
		target = h.entry.length + offset
	default:
		return h.offset, errors.Invalid("seek", h.path)
	}

	if target < 0 {
		return h.offset, errors.Invalid("seek", h.path)
	}

	h.offset = target
	h.eof = false
	return h.offset, nil
}

// Tell returns the current cursor position.
func (h *FileHandle) Tell() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.offset
}

// Eof reports whether a read reached the end of the file.
func (h *FileHandle) Eof() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.eof
}

func (h *FileHandle) Write(p []byte) (int, error) {
	return 0, errors.Unsupported("write", h.path)
}

func (h *FileHandle) Truncate(size int64) error {
	return errors.Unsupported("truncate", h.path)
}

// Stat describes the open entry.
func (h *FileHandle) Stat() (*data.FileStat, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errors.Closed("stat", h.path)
	}
	return newFileStat(h.path, h.entry, h.isDir), nil
}

// Close releases the entry reference and zeroes the secret of the helper.
func (h *FileHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return errors.Closed("close", h.path)
	}
	h.closed = true

	freed := h.entry.release()
	h.helper.Release()
	h.fs.metrics.handleClosed()

	h.fs.log.Debug("Close: closed '%s' (entry %s, freed %t)", h.path, h.entry.ID(), freed)
	return nil
}
