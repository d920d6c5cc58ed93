package data

import (
	"errors"
	"fmt"
	"sync"
)

// Standard errors returned by the filesystem, its handles and the credential layer.
var (
	// Configuration errors
	ErrConfiguration      = errors.New("vfs: invalid configuration")
	ErrInvalidCredentials = errors.New("vfs: invalid credentials")

	// Path errors
	ErrMalformedPath = errors.New("vfs: malformed path")
	ErrNotMounted    = errors.New("vfs: path not mounted")

	// File operation errors
	ErrNotExist          = errors.New("vfs: file does not exist")
	ErrExist             = errors.New("vfs: file already exists")
	ErrIsDirectory       = errors.New("vfs: is a directory")
	ErrNotDirectory      = errors.New("vfs: not a directory")
	ErrDirectoryNotEmpty = errors.New("vfs: directory not empty")
	ErrReadOnly          = errors.New("vfs: read-only filesystem")
	ErrUnsupported       = fmt.Errorf("vfs: operation not supported: %w", ErrReadOnly)

	// I/O errors
	ErrTransport  = errors.New("vfs: object store transport failure")
	ErrAllocation = errors.New("vfs: buffer allocation failed")
	ErrClosed     = errors.New("vfs: file already closed")
	ErrInvalid    = errors.New("vfs: invalid argument")
)

// Errors collects multiple errors into a single joined error.
type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.errors)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}
