package aferofile

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Lifecycle(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/books", 0755))
	s := NewStore(fs, "test")
	ctx := context.Background()

	assert.Equal(t, "test", s.RootTitle())
	assert.Equal(t, "mem", s.RootURL().Scheme)
	assert.Same(t, fs, s.Fs())

	require.NoError(t, s.CreateDir(ctx, "/books/Book 1"))
	require.NoError(t, s.CreateFile(ctx, "/books/Book 1/0000.png"))

	w, err := s.Create(ctx, "/books/Book 1/0001.png")
	require.NoError(t, err)
	_, _ = w.Write([]byte("abc"))
	require.NoError(t, w.Close())

	entries, err := s.ReadDir(ctx, "/books/Book 1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "0000.png", entries[0].Name())
	info, err := entries[1].Info()
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size())

	r, err := s.Open(ctx, "/books/Book 1/0001.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	_ = r.Close()
	assert.Equal(t, "abc", string(data))

	stat, err := s.Stat(ctx, "/books/Book 1")
	require.NoError(t, err)
	assert.True(t, stat.IsDir())

	require.NoError(t, s.Delete(ctx, "/books/Book 1/0001.png"))
	_, err = s.Open(ctx, "/books/Book 1/0001.png")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStore_ReadOnlyFs(t *testing.T) {
	t.Parallel()
	s := NewStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "ro")
	ctx := context.Background()
	assert.Error(t, s.CreateDir(ctx, "/x"))
	assert.Error(t, s.CreateFile(ctx, "/x.png"))
}

func TestStore_CancelledContext(t *testing.T) {
	t.Parallel()
	s := NewStore(afero.NewMemMapFs(), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ReadDir(ctx, "/")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Stat(ctx, "/")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.CreateDir(ctx, "/a"), context.Canceled)
	assert.ErrorIs(t, s.CreateFile(ctx, "/a"), context.Canceled)
	_, err = s.Open(ctx, "/a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "/a"), context.Canceled)
}

func TestMemory_IsShared(t *testing.T) {
	t.Parallel()
	a := Memory()
	b := Memory()
	assert.Same(t, a.Fs(), b.Fs())
	assert.Equal(t, "mem://", a.RootTitle())
}
