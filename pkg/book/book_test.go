package book

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/datatug/pngnote/pkg/files"
	"github.com/datatug/pngnote/pkg/files/aferofile"
	"github.com/datatug/pngnote/pkg/logging"
	"github.com/datatug/pngnote/pkg/outcome"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newBookDir(t *testing.T, names ...string) (afero.Fs, files.Handle) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/root/Book", 0755))
	for _, name := range names {
		require.NoError(t, afero.WriteFile(fs, "/root/Book/"+name, []byte("data"), 0644))
	}
	store := aferofile.NewStore(fs, "test")
	dir, err := files.Stat(context.Background(), store, "/root/Book")
	require.NoError(t, err)
	return fs, dir
}

func TestPageFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0000.png", PageFileName(0))
	assert.Equal(t, "0012.png", PageFileName(12))
	assert.Equal(t, "0003-bg.png", BackgroundFileName(3))
}

func TestParsePageIndex(t *testing.T) {
	t.Parallel()
	for name, expected := range map[string]int{"0000.png": 0, "0002.png": 2, "9999.png": 9999} {
		idx, ok := ParsePageIndex(name)
		assert.True(t, ok, name)
		assert.Equal(t, expected, idx, name)
	}
	for _, name := range []string{"0000-bg.png", "000.png", "00001.png", "abcd.png", "0000.PNG", "0001.png.bak"} {
		_, ok := ParsePageIndex(name)
		assert.False(t, ok, name)
	}
}

func TestLoadBook_FillsGaps(t *testing.T) {
	fs, dir := newBookDir(t, "0000.png", "0002.png", "notes.txt")
	b, err := NewResolver().LoadBook(context.Background(), dir)
	require.NoError(t, err)

	require.Equal(t, 3, b.PageCount())
	for i, p := range b.Pages {
		assert.Equal(t, i, p.Index)
	}
	assert.False(t, b.Pages[0].IsEmpty())
	assert.True(t, b.Pages[1].IsEmpty())
	assert.Equal(t, "/root/Book/0001.png", b.Pages[1].File.Path)
	assert.False(t, b.Pages[2].IsEmpty())
	assert.Nil(t, b.Background)

	exists, err := afero.Exists(fs, "/root/Book/0001.png")
	require.NoError(t, err)
	assert.True(t, exists, "missing page should be created")
}

func TestLoadBook_DirectoryWithPageName(t *testing.T) {
	fs, dir := newBookDir(t, "0000.png", "0002.png")
	require.NoError(t, fs.Mkdir("/root/Book/0001.png", 0755))

	b, err := NewResolver(WithLogger(logging.Discard())).LoadBook(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 3, b.PageCount())
	assert.True(t, b.Pages[1].IsEmpty())
	assert.False(t, b.Pages[1].File.IsDir())
	assert.Equal(t, files.MimeTypePNG, b.Pages[1].File.MimeType)

	isDir, err := afero.IsDir(fs, "/root/Book/0001.png")
	require.NoError(t, err)
	assert.True(t, isDir, "directory is left alone")
}

func TestLoadBook_NoPages(t *testing.T) {
	_, dir := newBookDir(t, "readme.md")
	b, err := NewResolver().LoadBook(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, b.Pages, 1)
	assert.Equal(t, "0000.png", b.Pages[0].File.Name)
	assert.True(t, b.Pages[0].IsEmpty())
	assert.Equal(t, "Book", b.Name())
}

func TestLoadBook_Virtual(t *testing.T) {
	fs, dir := newBookDir(t, "0001.png")
	b, err := NewResolver(WithVirtualPlaceholders()).LoadBook(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, b.Pages, 2)
	assert.True(t, b.Pages[0].IsEmpty())
	exists, _ := afero.Exists(fs, "/root/Book/0000.png")
	assert.False(t, exists)
}

func TestLoadBook_ReadOnlyStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := files.NewMockStore(ctrl)
	store.EXPECT().ReadDir(gomock.Any(), "/b").Return([]os.DirEntry{
		files.NewDirEntry("0001.png", false, files.Size(5)),
	}, nil)
	store.EXPECT().CreateFile(gomock.Any(), "/b/0000.png").Return(files.ErrNotImplemented)

	dir := files.NewHandle(store, "/b", files.NewFileInfo(files.NewDirEntry("b", true)))
	b, err := NewResolver().LoadBook(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, b.Pages, 2)
	assert.True(t, b.Pages[0].IsEmpty())
	assert.Equal(t, files.MimeTypePNG, b.Pages[0].File.MimeType)
}

func TestLoadBook_CreateFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := files.NewMockStore(ctrl)
	store.EXPECT().ReadDir(gomock.Any(), "/b").Return([]os.DirEntry{
		files.NewDirEntry("0001.png", false, files.Size(5)),
	}, nil)
	store.EXPECT().CreateFile(gomock.Any(), "/b/0000.png").Return(os.ErrPermission)

	dir := files.NewHandle(store, "/b", files.NewFileInfo(files.NewDirEntry("b", true)))
	_, err := NewResolver().LoadBook(context.Background(), dir)
	assert.ErrorIs(t, err, ErrCreatePage)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestLoadBook_NotADirectory(t *testing.T) {
	t.Parallel()
	f := files.NewHandle(nil, "/b/0000.png", files.NewFileInfo(files.NewDirEntry("0000.png", false)))
	_, err := NewResolver().LoadBook(context.Background(), f)
	assert.ErrorIs(t, err, ErrNotBookDir)
}

func TestLoadBook_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := files.NewMockStore(ctrl)
	listErr := errors.New("offline")
	store.EXPECT().ReadDir(gomock.Any(), "/b").Return(nil, listErr)
	dir := files.NewHandle(store, "/b", files.NewFileInfo(files.NewDirEntry("b", true)))
	_, err := NewResolver().LoadBook(context.Background(), dir)
	assert.ErrorIs(t, err, listErr)
}

func TestLoadBook_Background(t *testing.T) {
	t.Run("primary", func(t *testing.T) {
		_, dir := newBookDir(t, "0000.png", "0000-bg.png")
		b, err := NewResolver().LoadBook(context.Background(), dir)
		require.NoError(t, err)
		require.NotNil(t, b.Background)
		assert.Equal(t, "0000-bg.png", b.Background.Name)
		assert.Len(t, b.Pages, 1, "background must not be counted as a page")
	})
	t.Run("primary_ignores_legacy", func(t *testing.T) {
		_, dir := newBookDir(t, "0000.png", "background.png")
		b, err := NewResolver().LoadBook(context.Background(), dir)
		require.NoError(t, err)
		assert.Nil(t, b.Background)
	})
	t.Run("fallback_uses_legacy", func(t *testing.T) {
		_, dir := newBookDir(t, "0000.png", "background.png")
		b, err := NewResolver(WithBackgroundPolicy(FallbackBackground)).LoadBook(context.Background(), dir)
		require.NoError(t, err)
		require.NotNil(t, b.Background)
		assert.Equal(t, "background.png", b.Background.Name)
	})
}

func TestResolveBackground(t *testing.T) {
	ctx := context.Background()
	t.Run("page_specific", func(t *testing.T) {
		_, dir := newBookDir(t, "0002-bg.png", "0000-bg.png", "background.png")
		res := ResolveBackground(ctx, dir, 2)
		bg, ok := res.Value()
		require.True(t, ok)
		assert.Equal(t, "0002-bg.png", bg.Name)
	})
	t.Run("book_default", func(t *testing.T) {
		_, dir := newBookDir(t, "0000-bg.png", "background.png")
		bg, ok := ResolveBackground(ctx, dir, 2).Value()
		require.True(t, ok)
		assert.Equal(t, "0000-bg.png", bg.Name)
	})
	t.Run("legacy", func(t *testing.T) {
		_, dir := newBookDir(t, "background.png")
		bg, ok := ResolveBackground(ctx, dir, 5).Value()
		require.True(t, ok)
		assert.Equal(t, "background.png", bg.Name)
	})
	t.Run("not_found", func(t *testing.T) {
		_, dir := newBookDir(t, "0000.png")
		assert.Equal(t, outcome.KindNotFound, ResolveBackground(ctx, dir, 0).Kind())
	})
	t.Run("no_store", func(t *testing.T) {
		assert.Equal(t, outcome.KindNoAuthData, ResolveBackground(ctx, files.Handle{Path: "/b"}, 0).Kind())
	})
	t.Run("not_accessible", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := files.NewMockStore(ctrl)
		store.EXPECT().ReadDir(gomock.Any(), "/b").Return(nil, os.ErrPermission)
		res := ResolveBackground(ctx, files.NewHandle(store, "/b", nil), 0)
		assert.Equal(t, outcome.KindNotAccessible, res.Kind())
		assert.ErrorIs(t, res.Err(), os.ErrPermission)
	})
}

func TestBook_AddPage(t *testing.T) {
	fs, dir := newBookDir(t, "0000.png")
	b, err := NewResolver().LoadBook(context.Background(), dir)
	require.NoError(t, err)

	b2, err := b.AddPage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, b.PageCount(), "original book is unchanged")
	require.Equal(t, 2, b2.PageCount())
	assert.Equal(t, "0001.png", b2.Pages[1].File.Name)
	assert.Equal(t, 1, b2.Pages[1].Index)
	assert.True(t, b2.Pages[1].IsEmpty())
	exists, _ := afero.Exists(fs, "/root/Book/0001.png")
	assert.True(t, exists)
}

func TestBook_AssignNonEmpty(t *testing.T) {
	_, dir := newBookDir(t, "0000.png")
	b, err := NewResolver(WithVirtualPlaceholders()).LoadBook(context.Background(), dir)
	require.NoError(t, err)
	b, err = b.AddPage(context.Background())
	require.NoError(t, err)
	require.True(t, b.Pages[1].IsEmpty())

	updated, err := b.AssignNonEmpty(1)
	require.NoError(t, err)
	assert.False(t, updated.Pages[1].IsEmpty())
	assert.True(t, b.Pages[1].IsEmpty())

	same, err := updated.AssignNonEmpty(0)
	require.NoError(t, err)
	assert.Same(t, updated, same)

	_, err = b.AssignNonEmpty(7)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		fs, dir := newBookDir(t)
		res := Authorize(ctx, dir)
		assert.True(t, res.IsSuccess())
		exists, _ := afero.Exists(fs, "/root/Book/caniwritehere.tst")
		assert.False(t, exists, "probe must be removed")
	})
	t.Run("no_root", func(t *testing.T) {
		assert.Equal(t, outcome.KindNoAuthData, Authorize(ctx, files.Handle{}).Kind())
	})
	t.Run("read_only", func(t *testing.T) {
		fs, dir := newBookDir(t)
		ro := aferofile.NewStore(afero.NewReadOnlyFs(fs), "ro")
		root := files.NewHandle(ro, dir.Path, nil)
		res := Authorize(ctx, root)
		assert.Equal(t, outcome.KindNotAccessible, res.Kind())
		assert.Error(t, res.Err())
	})
}
