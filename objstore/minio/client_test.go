package minio

import (
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/mwantia/ossvfs/internal/mocks"
	"github.com/mwantia/ossvfs/objstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, server *mocks.S3Server) objstore.Client {
	t.Helper()

	client, err := Factory.InitContext(t.Context(), objstore.ContextConfig{
		ServiceType: objstore.ServiceS3,
		Region:      "us-east-1",
		Endpoint:    server.Endpoint(),
		Anonymous:   true,
	})
	require.NoError(t, err)
	return client
}

func TestClient_ListObjects(t *testing.T) {
	server := mocks.NewS3Server("bkt", map[string][]byte{
		"dir/a.tif": []byte("0123456789"),
		"dir/b.tif": []byte("abc"),
		"other":     []byte("x"),
	})
	defer server.Close()

	objects, err := newTestClient(t, server).ListObjects(t.Context(), "bkt", "dir")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "dir/a.tif", objects[0].Key)
	assert.Equal(t, int64(10), objects[0].Size)
	assert.True(t, objects[0].LastModified.Equal(server.Modified))
}

func TestClient_ListObjectsRetry(t *testing.T) {
	server := mocks.NewS3Server("bkt", map[string][]byte{"a": []byte("a")})
	defer server.Close()
	server.FailFirst.Store(1)

	objects, err := newTestClient(t, server).ListObjects(t.Context(), "bkt", "")
	require.NoError(t, err)
	assert.Len(t, objects, 1)
}

func TestClient_ListObjectsMissingBucket(t *testing.T) {
	server := mocks.NewS3Server("bkt", nil)
	defer server.Close()

	_, err := newTestClient(t, server).ListObjects(t.Context(), "nope", "")
	assert.Error(t, err)
	assert.Equal(t, "NoSuchBucket", minio.ToErrorResponse(err).Code)
}

func TestClient_GetObject(t *testing.T) {
	server := mocks.NewS3Server("bkt", map[string][]byte{"dir/a.tif": []byte("0123456789")})
	defer server.Close()

	body, err := newTestClient(t, server).GetObject(t.Context(), "bkt", "dir/a.tif", 2, 5)
	require.NoError(t, err)
	defer body.Close()

	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "2345", string(content))
}

func TestNew_UnsupportedService(t *testing.T) {
	_, err := New(objstore.ContextConfig{ServiceType: "GS", Endpoint: "localhost"})
	assert.Error(t, err)
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, isPermanent(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}))
	assert.True(t, isPermanent(minio.ErrorResponse{Code: "Whatever", StatusCode: 403}))
	assert.False(t, isPermanent(minio.ErrorResponse{Code: "SlowDown", StatusCode: 503}))
}
