// Package ossvfs exposes the objects of S3 compatible buckets as a read-only,
// hierarchical filesystem below a single mount prefix such as "/vsigposs/".
//
// Object keys are flat; the filesystem reconstructs directories from the
// slashes inside the keys. The first Open on an empty directory index lists
// the addressed bucket once and keeps the result in memory. Object content
// is fetched completely on the first read of an entry and shared by every
// handle opened on it.
//
//	fs, err := ossvfs.New(ossvfs.WithPrefix("/vsigposs/"))
//	if err != nil {
//		return err
//	}
//	defer fs.Close()
//
//	f, err := fs.Open(ctx, "/vsigposs/bucket/dir/file.tif", "rb")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
// Writes, truncation and any write access mode are rejected with
// data.ErrUnsupported.
package ossvfs
