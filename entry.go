package ossvfs

import (
	"context"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/ossvfs/data"
	"github.com/mwantia/ossvfs/data/errors"
	"github.com/mwantia/ossvfs/objstore"
)

// UnboundedLength is the declared maximum length of entries created without one.
const UnboundedLength int64 = math.MaxInt64

// FileEntry is the in-memory record of one remote object or directory.
//
// The directory index holds one reference, every open FileHandle holds
// another. The content buffer is filled at most once and never modified
// afterwards, so it can be read without holding any lock.
type FileEntry struct {
	id uuid.UUID

	// path is only accessed while holding the index lock
	path string

	isDirectory       bool
	length            int64
	declaredMaxLength int64
	modifiedTime      time.Time

	refs atomic.Int64

	fillMu     sync.Mutex
	cachedData atomic.Pointer[[]byte]
}

func newFileEntry(path string, isDirectory bool, length int64, modified time.Time) *FileEntry {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	if modified.IsZero() {
		modified = time.Now()
	}

	entry := &FileEntry{
		id:                id,
		path:              path,
		isDirectory:       isDirectory,
		length:            length,
		declaredMaxLength: UnboundedLength,
		modifiedTime:      modified,
	}
	if !isDirectory {
		entry.declaredMaxLength = length
	}

	entry.refs.Store(1)
	return entry
}

func (e *FileEntry) ID() string {
	return e.id.String()
}

func (e *FileEntry) Length() int64 {
	return e.length
}

func (e *FileEntry) IsDirectory() bool {
	return e.isDirectory
}

func (e *FileEntry) ModifiedTime() time.Time {
	return e.modifiedTime
}

// RefCount returns the number of current holders.
func (e *FileEntry) RefCount() int64 {
	return e.refs.Load()
}

// Cached reports whether the content buffer has been filled.
func (e *FileEntry) Cached() bool {
	return e.cachedData.Load() != nil
}

func (e *FileEntry) acquire() {
	e.refs.Add(1)
}

// release drops one reference and frees the buffer with the last one.
// Returns true if this was the last reference.
func (e *FileEntry) release() bool {
	if e.refs.Add(-1) > 0 {
		return false
	}

	e.fillMu.Lock()
	e.cachedData.Store(nil)
	e.fillMu.Unlock()

	return true
}

// buffer returns the complete object content, fetching it on first use.
// Concurrent callers wait for a single fill. A failed fill leaves the entry
// unfilled so that a later read can try again.
func (e *FileEntry) buffer(ctx context.Context, client objstore.Client, bucket, key string, maxSize int64, m *Metrics) ([]byte, error) {
	if buf := e.cachedData.Load(); buf != nil {
		return *buf, nil
	}

	e.fillMu.Lock()
	defer e.fillMu.Unlock()

	if buf := e.cachedData.Load(); buf != nil {
		return *buf, nil
	}

	if e.length < 0 || e.length > int64(math.MaxInt) || (maxSize > 0 && e.length > maxSize) {
		m.fillFailed()
		return nil, errors.Allocation(e.length, bucket+"/"+key)
	}

	buf := make([]byte, e.length)
	if e.length > 0 {
		if err := fill(ctx, client, bucket, key, buf); err != nil {
			m.fillFailed()
			return nil, errors.Transport(err, "GetObject", bucket, key)
		}
	}

	e.cachedData.Store(&buf)
	m.filled(e.length)

	return buf, nil
}

// maxStalledReads bounds consecutive empty reads without an error.
const maxStalledReads = 100

// fill reads the whole object into buf, looping over short reads.
func fill(ctx context.Context, client objstore.Client, bucket, key string, buf []byte) error {
	body, err := client.GetObject(ctx, bucket, key, 0, int64(len(buf))-1)
	if err != nil {
		return err
	}
	defer body.Close()

	total, stalled := 0, 0
	for total < len(buf) {
		n, err := body.Read(buf[total:])
		if n < 0 {
			return data.ErrTransport
		}
		total += n

		if n == 0 && err == nil {
			if stalled++; stalled >= maxStalledReads {
				return io.ErrNoProgress
			}
			continue
		}
		stalled = 0

		if err == io.EOF {
			if total < len(buf) {
				return io.ErrUnexpectedEOF
			}
			break
		}
		if err != nil {
			return err
		}
	}

	return nil
}
