package builtin_test

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mwantia/ossvfs"
	"github.com/mwantia/ossvfs/cmd"
	"github.com/mwantia/ossvfs/cmd/builtin"
	"github.com/mwantia/ossvfs/config"
	"github.com/mwantia/ossvfs/data"
	"github.com/mwantia/ossvfs/internal/mocks"
	"github.com/mwantia/ossvfs/log"
	"github.com/mwantia/ossvfs/objstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var modified = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func newTestSetup(t *testing.T) (*cmd.Manager, *ossvfs.FileSystem, *mocks.MockClient) {
	t.Helper()

	client := mocks.NewMockClient(t)
	client.On("ListObjects", mock.Anything, "bkt", mock.Anything).Return([]objstore.ObjectInfo{
		{Key: "readme.txt", Size: 11, LastModified: modified},
		{Key: "data/big.bin", Size: 2048, LastModified: modified},
	}, nil).Maybe()

	cfg, err := config.New(config.WithValues(map[string]string{config.KeyNoSignRequest: "YES"}))
	require.NoError(t, err)

	fs, err := ossvfs.New(
		ossvfs.WithConfig(cfg),
		ossvfs.WithLogger(log.Discard()),
		ossvfs.WithClientFactory(client.Factory()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })

	manager := cmd.NewManager()
	require.NoError(t, builtin.Register(manager))

	return manager, fs, client
}

func TestRegister(t *testing.T) {
	manager := cmd.NewManager()
	require.NoError(t, builtin.Register(manager))

	var names []string
	for _, c := range manager.Commands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"cat", "df", "ls", "stat"}, names)

	assert.Error(t, builtin.Register(manager), "duplicate registration")
}

func TestLs(t *testing.T) {
	manager, fs, _ := newTestSetup(t)
	var out bytes.Buffer

	code, err := manager.Execute(t.Context(), fs, "ls", []string{"/vsigposs/bkt"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "data\nreadme.txt\n", out.String())

	out.Reset()
	code, err = manager.Execute(t.Context(), fs, "ls", []string{"-lH", "/vsigposs/bkt/data"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "2.0 KiB")
	assert.Contains(t, out.String(), "2024-03-01 10:30 big.bin")
	assert.True(t, strings.HasPrefix(out.String(), "-r--r--r--"))
}

func TestStat(t *testing.T) {
	manager, fs, _ := newTestSetup(t)
	var out bytes.Buffer

	code, err := manager.Execute(t.Context(), fs, "stat", []string{"/vsigposs/bkt/readme.txt"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "Type: regular file (text/plain)")
	assert.Contains(t, out.String(), "Size: 11 (11 B)")

	code, err = manager.Execute(t.Context(), fs, "stat", nil, &out)
	assert.ErrorIs(t, err, cmd.ErrUsage)
	assert.Equal(t, 2, code)
}

func TestCat(t *testing.T) {
	manager, fs, client := newTestSetup(t)
	client.On("GetObject", mock.Anything, "bkt", "readme.txt", int64(0), int64(10)).
		Return(io.NopCloser(strings.NewReader("hello world")), nil).Once()

	var out bytes.Buffer
	code, err := manager.Execute(t.Context(), fs, "cat", []string{"--offset", "6", "/vsigposs/bkt/readme.txt"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "world", out.String())

	out.Reset()
	code, err = manager.Execute(t.Context(), fs, "cat", []string{"--length", "5", "/vsigposs/bkt/readme.txt", "/vsigposs/bkt/missing"}, &out)
	assert.ErrorIs(t, err, data.ErrNotExist)
	assert.Equal(t, 1, code)
	assert.Equal(t, "hello", out.String())
}

func TestUnknownCommand(t *testing.T) {
	manager, fs, _ := newTestSetup(t)

	code, err := manager.Execute(t.Context(), fs, "rm", nil, io.Discard)
	assert.Error(t, err)
	assert.Equal(t, 127, code)
}
