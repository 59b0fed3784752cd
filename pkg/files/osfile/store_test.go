package osfile

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	origHostname := osHostname
	defer func() { osHostname = origHostname }()

	t.Run("valid_root", func(t *testing.T) {
		osHostname = func() (string, error) {
			return "test-host", nil
		}
		s := NewStore("/tmp")
		assert.NotNil(t, s)
		assert.Equal(t, "/tmp", s.root)
		assert.Equal(t, "test-host", s.title)
	})

	t.Run("hostname_error", func(t *testing.T) {
		osHostname = func() (string, error) {
			return "", errors.New("hostname error")
		}
		s := NewStore("/tmp")
		assert.NotNil(t, s)
		assert.Equal(t, "hostname error", s.title)
	})

	t.Run("empty_root_defaults_to_slash", func(t *testing.T) {
		s := NewStore("")
		assert.Equal(t, "/", s.root)
	})
}

func TestStore_RootURL(t *testing.T) {
	s := NewStore("/tmp")
	u := s.RootURL()
	assert.Equal(t, "file", u.Scheme)
	assert.Equal(t, "/tmp", u.Path)
}

func TestStore_RootTitle(t *testing.T) {
	s := Store{title: "my-host.local"}
	assert.Equal(t, "my-host", s.RootTitle())

	s = Store{title: "my-host"}
	assert.Equal(t, "my-host", s.RootTitle())
}

func TestStore_ReadDir(t *testing.T) {
	origReadDir := osReadDir
	defer func() { osReadDir = origReadDir }()

	s := NewStore("/tmp")

	t.Run("success", func(t *testing.T) {
		osReadDir = func(name string) ([]os.DirEntry, error) {
			return []os.DirEntry{}, nil
		}
		entries, err := s.ReadDir(context.Background(), "/tmp")
		assert.NoError(t, err)
		assert.NotNil(t, entries)
	})

	t.Run("context_cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		entries, err := s.ReadDir(ctx, "/tmp")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Nil(t, entries)
	})

	t.Run("read_error", func(t *testing.T) {
		osReadDir = func(name string) ([]os.DirEntry, error) {
			return nil, errors.New("read error")
		}
		entries, err := s.ReadDir(context.Background(), "/tmp")
		assert.Error(t, err)
		assert.Nil(t, entries)
	})
}

func TestStore_FileLifecycle(t *testing.T) {
	tempDir := filepath.ToSlash(t.TempDir())
	s := NewStore(tempDir)
	ctx := context.Background()

	bookDir := path.Join(tempDir, "Book 1")
	require.NoError(t, s.CreateDir(ctx, bookDir))

	info, err := s.Stat(ctx, bookDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	pagePath := path.Join(bookDir, "0000.png")
	require.NoError(t, s.CreateFile(ctx, pagePath))
	info, err = s.Stat(ctx, pagePath)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())

	w, err := s.Create(ctx, pagePath)
	require.NoError(t, err)
	_, err = w.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := s.Open(ctx, pagePath)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	_ = r.Close()
	assert.Equal(t, "data", string(data))

	entries, err := s.ReadDir(ctx, bookDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s.Delete(ctx, pagePath))
	_, err = s.Stat(ctx, pagePath)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStore_CancelledContext(t *testing.T) {
	s := NewStore("/tmp")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Stat(ctx, "/tmp")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.CreateDir(ctx, "/tmp/x"), context.Canceled)
	assert.ErrorIs(t, s.CreateFile(ctx, "/tmp/x"), context.Canceled)
	_, err = s.Open(ctx, "/tmp/x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "/tmp/x"), context.Canceled)
}

func TestStore_OpenError(t *testing.T) {
	origOsOpen := osOpen
	defer func() { osOpen = origOsOpen }()
	osOpen = func(name string) (*os.File, error) {
		return nil, errors.New("open error")
	}

	s := NewStore("/tmp")
	r, err := s.Open(context.Background(), "/tmp/0000.png")
	assert.Error(t, err)
	assert.Nil(t, r)
}
