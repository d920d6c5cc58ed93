package ossvfs

import (
	"fmt"
	"time"

	"github.com/mwantia/ossvfs/config"
	"github.com/mwantia/ossvfs/credentials"
	"github.com/mwantia/ossvfs/log"
	"github.com/mwantia/ossvfs/objstore"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultPrefix is the mount prefix used unless WithPrefix is given.
const DefaultPrefix = "/vsigposs/"

type FileSystemOptions struct {
	Prefix string

	LogLevel      log.LogLevel
	LogFile       string
	NoTerminalLog bool
	Logger        *log.Logger

	Config     *config.Config
	Values     config.Values
	Factory    objstore.Factory
	Cache      *credentials.Cache
	Registerer prometheus.Registerer

	IndexTTL      time.Duration
	MaxBufferSize int64
}

type FileSystemOption func(*FileSystemOptions) error

func newDefaultFileSystemOptions() *FileSystemOptions {
	return &FileSystemOptions{
		Prefix:   DefaultPrefix,
		LogLevel: log.Info,
	}
}

// WithPrefix sets the mount prefix, e.g. "/vsigposs/".
func WithPrefix(prefix string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		if prefix == "" {
			return fmt.Errorf("mount prefix must not be empty")
		}
		opts.Prefix = prefix
		return nil
	}
}

func WithLogLevel(logLevel log.LogLevel) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

func WithoutTerminalLog() FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.LogFile = logFile
		return nil
	}
}

// WithLogger replaces the logger created from level and file options.
func WithLogger(logger *log.Logger) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.Logger = logger
		return nil
	}
}

func WithConfig(cfg *config.Config) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.Config = cfg
		return nil
	}
}

// WithOptions sets explicit values that override every configuration layer.
func WithOptions(values config.Values) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		if opts.Values == nil {
			opts.Values = make(config.Values, len(values))
		}
		for k, v := range values {
			opts.Values[k] = v
		}
		return nil
	}
}

// WithClientFactory sets the factory used to create object store clients.
// Without it the driver is selected through OSSVFS_CLIENT.
func WithClientFactory(factory objstore.Factory) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.Factory = factory
		return nil
	}
}

func WithCredentialCache(cache *credentials.Cache) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.Cache = cache
		return nil
	}
}

// WithMetrics registers the filesystem metrics with reg.
func WithMetrics(reg prometheus.Registerer) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		opts.Registerer = reg
		return nil
	}
}

// WithIndexTTL makes Open re-list the bucket once the index is older than ttl.
func WithIndexTTL(ttl time.Duration) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		if ttl < 0 {
			return fmt.Errorf("index ttl must not be negative")
		}
		opts.IndexTTL = ttl
		return nil
	}
}

// WithMaxBufferSize limits the size of objects that may be cached.
func WithMaxBufferSize(size int64) FileSystemOption {
	return func(opts *FileSystemOptions) error {
		if size < 0 {
			return fmt.Errorf("max buffer size must not be negative")
		}
		opts.MaxBufferSize = size
		return nil
	}
}
