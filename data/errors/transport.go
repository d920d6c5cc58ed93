package errors

import "github.com/mwantia/ossvfs/data"

func Transport(err error, op, bucket, key string) error {
	return newError(data.ErrTransport, err, "%s '%s/%s'", op, bucket, key)
}

func Allocation(size int64, path string) error {
	return newError(data.ErrAllocation, nil, "unable to buffer %d bytes for '%s'", size, path)
}

func InvalidCredentials(format string, args ...any) error {
	return newError(data.ErrInvalidCredentials, nil, format, args...)
}

func Configuration(err error, format string, args ...any) error {
	return newError(data.ErrConfiguration, err, format, args...)
}
