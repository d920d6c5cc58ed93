package awss3

import (
	"errors"
	"io"
	"net/http"
	"testing"

	smithyhttp "github.com/aws/smithy-go/transport/http"
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
	assert.Equal(t, "dir/b.tif", objects[1].Key)
	assert.Equal(t, int64(3), objects[1].Size)
}

func TestClient_GetObject(t *testing.T) {
	server := mocks.NewS3Server("bkt", map[string][]byte{"dir/a.tif": []byte("0123456789")})
	defer server.Close()

	body, err := newTestClient(t, server).GetObject(t.Context(), "bkt", "dir/a.tif", 0, 9)
	require.NoError(t, err)
	defer body.Close()

	content, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(content))
}

func TestClient_GetObjectMissing(t *testing.T) {
	server := mocks.NewS3Server("bkt", nil)
	defer server.Close()

	_, err := newTestClient(t, server).GetObject(t.Context(), "bkt", "missing", 0, 1)
	assert.Error(t, err)
	assert.True(t, isPermanent(err))
}

func TestIsPermanent(t *testing.T) {
	newResponseError := func(status int) error {
		return &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
			Err:      errors.New("failed"),
		}
	}

	assert.True(t, isPermanent(newResponseError(http.StatusNotFound)))
	assert.False(t, isPermanent(newResponseError(http.StatusServiceUnavailable)))
	assert.False(t, isPermanent(errors.New("connection reset")))
}
