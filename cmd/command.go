// Package cmd contains the command framework used by the ossvfs CLI.
package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/mwantia/ossvfs"
	"github.com/mwantia/ossvfs/data"
)

// API is the part of the filesystem required for command operations.
type API interface {
	// Prefix returns the mount prefix of the filesystem.
	Prefix() string

	// Load lists the bucket addressed by path into the directory index.
	Load(ctx context.Context, path string) error

	// Open opens path for reading.
	Open(ctx context.Context, path, access string) (*ossvfs.FileHandle, error)

	// Stat returns file information for the given path.
	Stat(ctx context.Context, path string) (*data.FileStat, error)

	// ReadDirStat returns the entries directly below path.
	ReadDirStat(ctx context.Context, path string, max int) ([]*data.FileStat, error)

	// FreeSpace returns the number of bytes available for cached content.
	FreeSpace(path string) (int64, error)
}

var _ API = (*ossvfs.FileSystem)(nil)

// Command represents an executable command.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "ls [-l] path")
	Usage() string

	// Execute runs the command with its raw arguments.
	// Output is written into w. Returns exit code (0 = success) and error.
	Execute(ctx context.Context, api API, args []string, w io.Writer) (int, error)
}

// Manager handles command registration and execution.
type Manager struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

func NewManager() *Manager {
	return &Manager{
		cmds: make(map[string]Command),
	}
}

// Register registers a command under its name.
func (m *Manager) Register(cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("command cannot be nil")
	}

	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.cmds[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}

	m.cmds[name] = cmd
	return nil
}

// Commands returns all registered commands sorted by name.
func (m *Manager) Commands() []Command {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmds := make([]Command, 0, len(m.cmds))
	for _, cmd := range m.cmds {
		cmds = append(cmds, cmd)
	}

	slices.SortFunc(cmds, func(a, b Command) int {
		if a.Name() < b.Name() {
			return -1
		}
		if a.Name() > b.Name() {
			return 1
		}
		return 0
	})
	return cmds
}

// Execute runs the command registered as name.
func (m *Manager) Execute(ctx context.Context, api API, name string, args []string, w io.Writer) (int, error) {
	m.mu.RLock()
	cmd, exists := m.cmds[name]
	m.mu.RUnlock()

	if !exists {
		return 127, fmt.Errorf("unknown command '%s'", name)
	}

	return cmd.Execute(ctx, api, args, w)
}
