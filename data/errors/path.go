package errors

import "github.com/mwantia/ossvfs/data"

func MalformedPath(path, prefix string) error {
	return newError(data.ErrMalformedPath, nil, "filename '%s' should be of the form %sbucket/key", path, prefix)
}

func NotMounted(path, prefix string) error {
	return newError(data.ErrNotMounted, nil, "path '%s' is not below '%s'", path, prefix)
}

func NotExist(op, path string) error {
	return pathError(data.ErrNotExist, op, path)
}

func Exist(op, path string) error {
	return pathError(data.ErrExist, op, path)
}

func NotDirectory(op, path string) error {
	return pathError(data.ErrNotDirectory, op, path)
}

func DirectoryNotEmpty(op, path string) error {
	return pathError(data.ErrDirectoryNotEmpty, op, path)
}

func Unsupported(op, path string) error {
	return pathError(data.ErrUnsupported, op, path)
}

func Closed(op, path string) error {
	return pathError(data.ErrClosed, op, path)
}

func Invalid(op, path string) error {
	return pathError(data.ErrInvalid, op, path)
}
