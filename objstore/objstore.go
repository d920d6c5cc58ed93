// Package objstore defines the boundary towards the remote object store.
//
// The filesystem consumes three primitives: initializing a client for a
// resolved region and key pair, listing the objects below a prefix and
// fetching a byte range of one object. Drivers live in sub-packages.
package objstore

import (
	"context"
	"io"
	"time"
)

// ServiceS3 is the only service type understood by the bundled drivers.
const ServiceS3 = "S3"

// DefaultBufferSize is the read and write buffer size hint passed to drivers.
const DefaultBufferSize = 1024

// ObjectInfo describes a single listed object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ETag         string
}

// ContextConfig carries everything a driver needs to create a client.
type ContextConfig struct {
	ServiceType string

	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	RequestPayer string

	// Anonymous disables request signing.
	Anonymous bool
	// Secure selects HTTPS over HTTP.
	Secure bool
	// VirtualHosting selects bucket.endpoint over endpoint/bucket addressing.
	VirtualHosting bool

	ReadBufferSize  int64
	WriteBufferSize int64
}

// Client performs listing and ranged reads against a bucket.
type Client interface {
	// ListObjects returns every object below prefix, following pagination.
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)

	// GetObject opens the inclusive byte range [start, end] of key.
	// Read on the returned object may deliver fewer bytes than requested;
	// callers loop until the range is consumed or an error is reported.
	GetObject(ctx context.Context, bucket, key string, start, end int64) (io.ReadCloser, error)
}

// Factory creates clients bound to one ContextConfig.
type Factory interface {
	InitContext(ctx context.Context, cfg ContextConfig) (Client, error)
}

// FactoryFunc adapts a plain function to the Factory interface.
type FactoryFunc func(ctx context.Context, cfg ContextConfig) (Client, error)

func (f FactoryFunc) InitContext(ctx context.Context, cfg ContextConfig) (Client, error) {
	return f(ctx, cfg)
}
