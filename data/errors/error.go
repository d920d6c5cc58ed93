package errors

import (
	"fmt"
	"io/fs"
)

// pathError attaches the operation and path to a sentinel error.
// The sentinel stays reachable through errors.Is.
func pathError(sentinel error, op, path string) error {
	return &fs.PathError{
		Op:   op,
		Path: path,
		Err:  sentinel,
	}
}

func newError(sentinel, err error, format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", sentinel, text, err)
	}

	return fmt.Errorf("%w: %s", sentinel, text)
}
