// Package aferofile exposes any afero filesystem as a files.Store.
// The process-wide in-memory root used for mem:// locations lives here too.
package aferofile

import (
	"context"
	"io"
	"io/fs"
	"net/url"
	"os"
	"sync"

	"github.com/datatug/pngnote/pkg/files"
	"github.com/spf13/afero"
)

const schema = "mem"

var _ files.Store = (*Store)(nil)

type Store struct {
	fs    afero.Fs
	title string
}

func NewStore(fs afero.Fs, title string) *Store {
	return &Store{fs: fs, title: title}
}

var (
	memOnce sync.Once
	memFs   afero.Fs
)

// Memory returns a store over a filesystem shared by the whole process.
func Memory() *Store {
	memOnce.Do(func() {
		memFs = afero.NewMemMapFs()
	})
	return NewStore(memFs, schema+"://")
}

func (s *Store) Fs() afero.Fs {
	return s.fs
}

func (s *Store) RootTitle() string {
	return s.title
}

func (s *Store) RootURL() url.URL {
	return url.URL{Scheme: schema, Path: "/"}
}

func (s *Store) ReadDir(ctx context.Context, name string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(s.fs, name)
	if err != nil {
		return nil, err
	}
	entries := make([]os.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = fs.FileInfoToDirEntry(info)
	}
	return entries, nil
}

func (s *Store) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fs.Stat(name)
}

func (s *Store) CreateDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.fs.Mkdir(path, 0755)
}

func (s *Store) CreateFile(ctx context.Context, path string) error {
	f, err := s.Create(ctx, path)
	if err != nil {
		return err
	}
	return f.Close()
}

func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.fs.Remove(path)
}
