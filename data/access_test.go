package data

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseAccess(t *testing.T) {
	t.Run("read modes", func(t *testing.T) {
		for _, access := range []string{"r", "rb"} {
			mode := ParseAccess(access)
			assert.True(t, mode.IsReadOnly(), access)
			assert.False(t, mode.RequestsUpdate(), access)
		}
	})

	t.Run("update modes", func(t *testing.T) {
		assert.True(t, ParseAccess("w").IsWriteOnly())
		assert.True(t, ParseAccess("r+").IsReadWrite())
		assert.True(t, ParseAccess("ab").RequestsUpdate())
		assert.NotZero(t, ParseAccess("a")&AccessModeAppend)
	})
}

func TestFileMode(t *testing.T) {
	assert.True(t, ModeDirectory.IsDir())
	assert.False(t, ModeDirectory.IsRegular())
	assert.True(t, ModeRegularFile.IsRegular())
	assert.Equal(t, "dr-xr-xr-x", ModeDirectory.String())
	assert.Equal(t, FileMode(0444), ModeRegularFile.Perm())
}

func TestFileStat_FileInfo(t *testing.T) {
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stat := &FileStat{
		Path:       "/vsigposs/bkt/dir/",
		Mode:       ModeDirectory,
		ModifyTime: modified,
	}

	info := stat.FileInfo()
	assert.Equal(t, "dir", info.Name())
	assert.True(t, info.IsDir())
	assert.True(t, info.Mode().IsDir())
	assert.Equal(t, int64(0), info.Size())
	assert.Equal(t, modified, info.ModTime())
}

func TestErrors(t *testing.T) {
	var errs Errors
	assert.NoError(t, errs.Errors())

	errs.Add(nil)
	errs.Add(ErrNotExist)
	errs.Add(ErrClosed)

	assert.Equal(t, 2, errs.Len())
	assert.True(t, errors.Is(errs.Errors(), ErrNotExist))
	assert.True(t, errors.Is(errs.Errors(), ErrClosed))
	assert.True(t, errors.Is(ErrUnsupported, ErrReadOnly))
}
