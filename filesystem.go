package ossvfs

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mwantia/ossvfs/config"
	"github.com/mwantia/ossvfs/credentials"
	"github.com/mwantia/ossvfs/data"
	"github.com/mwantia/ossvfs/data/errors"
	"github.com/mwantia/ossvfs/log"
	"github.com/mwantia/ossvfs/objstore"
	"github.com/mwantia/ossvfs/objstore/awss3"
	"github.com/mwantia/ossvfs/objstore/minio"
	"github.com/pbnjay/memory"
)

// Supported values for OSSVFS_CLIENT.
const (
	ClientMinio = "minio"
	ClientAWS   = "aws"
)

// FileSystem exposes the objects of remote buckets as a read-only tree
// below a single mount prefix.
type FileSystem struct {
	prefix string
	log    *log.Logger

	cfg      *config.Config
	values   config.Values
	resolver *credentials.Resolver
	factory  objstore.Factory
	metrics  *Metrics

	index     *directoryIndex
	indexTTL  time.Duration
	maxBuffer int64
	closed    atomic.Bool
}

func New(opts ...FileSystemOption) (*FileSystem, error) {
	options := newDefaultFileSystemOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, errors.Configuration(err, "invalid filesystem option")
		}
	}

	logger := options.Logger
	if logger == nil {
		logger = log.NewLogger("ossvfs", options.LogLevel, options.LogFile, options.NoTerminalLog)
	}

	cfg := options.Config
	if cfg == nil {
		cfg = config.Default()
	}

	factory := options.Factory
	if factory == nil {
		var err error
		if factory, err = selectFactory(cfg.Fetch(options.Values, config.KeyClient, ClientMinio)); err != nil {
			return nil, err
		}
	}

	metrics, err := NewMetrics(options.Registerer)
	if err != nil {
		return nil, errors.Configuration(err, "unable to register metrics")
	}

	return &FileSystem{
		prefix: data.EnsurePrefix(options.Prefix),
		log:    logger,

		cfg:      cfg,
		values:   options.Values,
		resolver: credentials.NewResolver(cfg, options.Cache, logger.Named("credentials")),
		factory:  factory,
		metrics:  metrics,

		index:     newDirectoryIndex(metrics),
		indexTTL:  options.IndexTTL,
		maxBuffer: options.MaxBufferSize,
	}, nil
}

func selectFactory(client string) (objstore.Factory, error) {
	switch strings.ToLower(client) {
	case "", ClientMinio:
		return minio.Factory, nil
	case ClientAWS:
		return awss3.Factory, nil
	default:
		return nil, errors.Configuration(nil, "unknown %s '%s'", config.KeyClient, client)
	}
}

// Prefix returns the mount prefix, always ending with a slash.
func (fs *FileSystem) Prefix() string {
	return fs.prefix
}

func (fs *FileSystem) Metrics() *Metrics {
	return fs.metrics
}

// Open opens path for reading. The access string follows fopen conventions,
// any of 'w', 'a' or '+' is rejected since the filesystem is read-only.
func (fs *FileSystem) Open(ctx context.Context, path, access string) (*FileHandle, error) {
	if strings.ContainsAny(access, "wa+") {
		return nil, errors.Unsupported("open", path)
	}
	return fs.OpenFile(ctx, path, data.ParseAccess(access))
}

// OpenFile is Open with explicit access flags.
func (fs *FileSystem) OpenFile(ctx context.Context, path string, flags data.AccessMode) (*FileHandle, error) {
	if flags.RequestsUpdate() {
		return nil, errors.Unsupported("open", path)
	}
	if fs.closed.Load() {
		return nil, errors.Closed("open", path)
	}

	path = data.NormalizePath(path)
	uri, ok := data.ToRelativePath(path, fs.prefix)
	if !ok {
		return nil, errors.MalformedPath(path, fs.prefix)
	}

	helper, err := BuildFromURI(uri, fs.prefix, false, fs.resolver, fs.values)
	if err != nil {
		return nil, err
	}

	client, err := fs.factory.InitContext(ctx, helper.ContextConfig())
	if err != nil {
		helper.Release()
		return nil, errors.Configuration(err, "unable to create object store client for '%s'", helper.Bucket())
	}

	if err := fs.load(ctx, client, helper); err != nil {
		helper.Release()
		return nil, err
	}

	key := fs.prefix + uri
	entry, isDir, ok := fs.index.open(key)
	if !ok {
		helper.Release()
		fs.log.Debug("Open: '%s' does not exist", key)
		return nil, errors.NotExist("open", path)
	}

	fs.metrics.handleOpened()
	fs.log.Debug("Open: opened '%s' (entry %s, refs %d)", key, entry.ID(), entry.RefCount())

	return newFileHandle(ctx, fs, entry, helper, client, key, isDir), nil
}

// Load populates the directory index from the bucket addressed by path,
// unless it already holds entries. Open calls it implicitly.
func (fs *FileSystem) Load(ctx context.Context, path string) error {
	path = data.NormalizePath(path)
	uri, ok := data.ToRelativePath(path, fs.prefix)
	if !ok {
		return errors.MalformedPath(path, fs.prefix)
	}

	helper, err := BuildFromURI(uri, fs.prefix, true, fs.resolver, fs.values)
	if err != nil {
		return err
	}
	defer helper.Release()

	// The mount root addresses no bucket
	if helper.Bucket() == "" {
		return nil
	}

	client, err := fs.factory.InitContext(ctx, helper.ContextConfig())
	if err != nil {
		return errors.Configuration(err, "unable to create object store client for '%s'", helper.Bucket())
	}

	return fs.load(ctx, client, helper)
}

func (fs *FileSystem) load(ctx context.Context, client objstore.Client, helper *HandleHelper) error {
	bucket := helper.Bucket()
	listPrefix := strings.TrimSuffix(helper.ObjectKey(), "/")

	loaded, err := fs.index.populate(fs.indexTTL, func() (map[string]*FileEntry, error) {
		objects, err := client.ListObjects(ctx, bucket, listPrefix)
		fs.metrics.listed(err)
		if err != nil {
			return nil, errors.Transport(err, "ListObjects", bucket, listPrefix)
		}

		entries := make(map[string]*FileEntry, len(objects))
		for _, object := range objects {
			path := fs.prefix + bucket + "/" + object.Key
			isDir := strings.HasSuffix(object.Key, "/")

			size := object.Size
			if isDir {
				size = 0
			}
			entries[path] = newFileEntry(path, isDir, size, object.LastModified)
		}
		return entries, nil
	})
	if err != nil {
		fs.log.Warn("Open: unable to list '%s/%s' - %v", bucket, listPrefix, err)
		return err
	}

	if loaded {
		fs.log.Debug("Open: indexed %d entries from '%s/%s'", fs.index.Len(), bucket, listPrefix)
	}
	return nil
}

// resolve normalizes path and checks that it lives below the mount prefix.
// The returned path never ends with a slash, except for the mount root.
func (fs *FileSystem) resolve(op, path string) (string, error) {
	path = data.NormalizePath(path)

	rel, ok := data.ToRelativePath(path, fs.prefix)
	if !ok {
		if !strings.EqualFold(path+"/", fs.prefix) {
			return "", errors.NotMounted(path, fs.prefix)
		}
		rel = ""
	}

	rel = strings.TrimSuffix(rel, "/")
	if rel == "" {
		return fs.prefix, nil
	}
	return fs.prefix + rel, nil
}

func (fs *FileSystem) isRoot(path string) bool {
	return path == fs.prefix
}

// Stat describes path. Paths that only exist as parents of indexed objects
// are reported as directories.
func (fs *FileSystem) Stat(ctx context.Context, path string) (*data.FileStat, error) {
	key, err := fs.resolve("stat", path)
	if err != nil {
		return nil, err
	}

	if fs.isRoot(key) {
		return &data.FileStat{
			Path: key,
			Mode: data.ModeDirectory,
		}, nil
	}

	entry, isDir, ok := fs.index.stat(key)
	if ok {
		return newFileStat(key, entry, isDir), nil
	}

	if fs.index.hasDescendants(key) {
		return &data.FileStat{
			Path: key,
			Mode: data.ModeDirectory,
		}, nil
	}

	return nil, errors.NotExist("stat", path)
}

func newFileStat(path string, entry *FileEntry, isDir bool) *data.FileStat {
	if isDir {
		return &data.FileStat{
			Path: path,
			Mode: data.ModeDirectory,
		}
	}

	return &data.FileStat{
		Path:       path,
		Mode:       data.ModeRegularFile,
		Size:       entry.length,
		ModifyTime: entry.modifiedTime,
	}
}

// ReadDir returns the sorted names directly below path.
// A positive max limits the number of returned names.
func (fs *FileSystem) ReadDir(ctx context.Context, path string, max int) ([]string, error) {
	entries, err := fs.readDir(path, max)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.name)
	}
	return names, nil
}

// ReadDirStat is ReadDir returning a FileStat per child.
func (fs *FileSystem) ReadDirStat(ctx context.Context, path string, max int) ([]*data.FileStat, error) {
	entries, err := fs.readDir(path, max)
	if err != nil {
		return nil, err
	}

	key, _ := fs.resolve("readdir", path)
	base := strings.TrimSuffix(key, "/") + "/"

	stats := make([]*data.FileStat, 0, len(entries))
	for _, child := range entries {
		childPath := base + child.name
		if entry, isDir, ok := fs.index.stat(childPath); ok {
			stats = append(stats, newFileStat(childPath, entry, isDir || child.isDir))
			continue
		}

		stats = append(stats, &data.FileStat{
			Path: childPath,
			Mode: data.ModeDirectory,
		})
	}
	return stats, nil
}

func (fs *FileSystem) readDir(path string, max int) ([]dirEntry, error) {
	key, err := fs.resolve("readdir", path)
	if err != nil {
		return nil, err
	}

	entries := fs.index.children(key, max)
	if len(entries) > 0 || fs.isRoot(key) {
		return entries, nil
	}

	entry, isDir, ok := fs.index.stat(key)
	switch {
	case !ok:
		return nil, errors.NotExist("readdir", path)
	case !isDir && !entry.isDirectory:
		return nil, errors.NotDirectory("readdir", path)
	}
	return entries, nil
}

// Rename moves oldPath and every entry nested below it to newPath.
// Entries at the destination are unlinked. "/b/ax" is not moved by renaming "/b/a".
func (fs *FileSystem) Rename(ctx context.Context, oldPath, newPath string) error {
	from, err := fs.resolve("rename", oldPath)
	if err != nil {
		return err
	}
	to, err := fs.resolve("rename", newPath)
	if err != nil {
		return err
	}

	if from == to {
		return nil
	}
	if fs.isRoot(from) || fs.isRoot(to) {
		return errors.Invalid("rename", oldPath)
	}

	if !fs.index.rename(from, to) {
		return errors.NotExist("rename", oldPath)
	}

	fs.log.Debug("Rename: moved '%s' to '%s'", from, to)
	return nil
}

// Unlink removes path from the index. Open handles keep their entry alive.
func (fs *FileSystem) Unlink(ctx context.Context, path string) error {
	key, err := fs.resolve("unlink", path)
	if err != nil {
		return err
	}

	if !fs.index.unlink(key) {
		return errors.NotExist("unlink", path)
	}

	fs.log.Debug("Unlink: removed '%s'", key)
	return nil
}

// Mkdir creates a directory entry in the index. Nothing is created remotely.
func (fs *FileSystem) Mkdir(ctx context.Context, path string) error {
	key, err := fs.resolve("mkdir", path)
	if err != nil {
		return err
	}

	if fs.isRoot(key) || !fs.index.mkdir(key) {
		return errors.Exist("mkdir", path)
	}

	fs.log.Debug("Mkdir: created '%s'", key)
	return nil
}

// Rmdir removes an empty directory entry.
func (fs *FileSystem) Rmdir(ctx context.Context, path string) error {
	key, err := fs.resolve("rmdir", path)
	if err != nil {
		return err
	}
	if fs.isRoot(key) {
		return errors.Invalid("rmdir", path)
	}

	removed, notEmpty := fs.index.rmdir(key)
	switch {
	case notEmpty:
		return errors.DirectoryNotEmpty("rmdir", path)
	case !removed:
		return errors.NotExist("rmdir", path)
	}

	fs.log.Debug("Rmdir: removed '%s'", key)
	return nil
}

// FreeSpace reports the free physical memory, since all content is buffered in memory.
// Returns -1 if the amount cannot be determined.
func (fs *FileSystem) FreeSpace(path string) (int64, error) {
	free := memory.FreeMemory()
	if free == 0 {
		return -1, errors.Unsupported("freespace", path)
	}
	if free > uint64(UnboundedLength) {
		return UnboundedLength, nil
	}
	return int64(free), nil
}

// Refresh drops the directory index, the next Open lists the bucket again.
// Entries still referenced by open handles stay readable.
func (fs *FileSystem) Refresh(ctx context.Context) {
	freed := fs.index.drop()
	fs.log.Debug("Refresh: dropped directory index (%d entries freed)", freed)
}

// ClearCache drops all credentials cached from profile files.
func (fs *FileSystem) ClearCache() {
	fs.resolver.Cache().Clear()
}

// Close releases every entry held by the index and rejects further opens.
func (fs *FileSystem) Close() error {
	if !fs.closed.CompareAndSwap(false, true) {
		return errors.Closed("close", fs.prefix)
	}

	fs.index.drop()
	fs.resolver.Cache().Clear()
	return nil
}
