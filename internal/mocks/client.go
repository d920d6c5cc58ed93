// Package mocks contains testify based mocks for the object store boundary.
package mocks

import (
	"context"
	"io"

	"github.com/mwantia/ossvfs/objstore"
	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of objstore.Client.
type MockClient struct {
	mock.Mock
}

// NewMockClient creates a MockClient whose expectations are asserted on test cleanup.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockClient) ListObjects(ctx context.Context, bucket, prefix string) ([]objstore.ObjectInfo, error) {
	ret := _m.Called(ctx, bucket, prefix)

	var r0 []objstore.ObjectInfo
	if rf, ok := ret.Get(0).(func(context.Context, string, string) []objstore.ObjectInfo); ok {
		r0 = rf(ctx, bucket, prefix)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]objstore.ObjectInfo)
	}

	return r0, ret.Error(1)
}

func (_m *MockClient) GetObject(ctx context.Context, bucket, key string, start, end int64) (io.ReadCloser, error) {
	ret := _m.Called(ctx, bucket, key, start, end)

	var r0 io.ReadCloser
	if rf, ok := ret.Get(0).(func(context.Context, string, string, int64, int64) io.ReadCloser); ok {
		r0 = rf(ctx, bucket, key, start, end)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.ReadCloser)
	}

	return r0, ret.Error(1)
}

// Factory returns a factory that hands out this client and records nothing.
func (_m *MockClient) Factory() objstore.Factory {
	return objstore.FactoryFunc(func(ctx context.Context, cfg objstore.ContextConfig) (objstore.Client, error) {
		return _m, nil
	})
}

// ChunkedBody returns a body that delivers at most chunk bytes per Read.
func ChunkedBody(content []byte, chunk int) io.ReadCloser {
	return io.NopCloser(&chunkedReader{content: content, chunk: chunk})
}

type chunkedReader struct {
	content []byte
	chunk   int
}

func (r *chunkedReader) Read(p []byte) (int, error) {
	if len(r.content) == 0 {
		return 0, io.EOF
	}

	n := min(len(p), r.chunk, len(r.content))
	copy(p, r.content[:n])
	r.content = r.content[n:]
	return n, nil
}
