package osfile

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/datatug/pngnote/pkg/files"
	"github.com/datatug/pngnote/pkg/logging"
)

var osReadDir = os.ReadDir
var osStat = os.Stat
var osHostname = os.Hostname
var osMkdir = os.Mkdir
var osCreate = os.Create
var osOpen = os.Open
var osRemove = os.Remove

var _ files.Store = (*Store)(nil)

type Store struct {
	title string
	root  string
}

func (s Store) RootURL() url.URL {
	return url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(s.root),
	}
}

func (s Store) RootTitle() string {
	return strings.TrimSuffix(s.title, ".local")
}

func (s Store) ReadDir(ctx context.Context, name string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return osReadDir(filepath.FromSlash(name))
}

func (s Store) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return osStat(filepath.FromSlash(name))
}

func (s Store) CreateDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return osMkdir(filepath.FromSlash(path), 0755)
}

func (s Store) CreateFile(ctx context.Context, path string) error {
	f, err := s.Create(ctx, path)
	if err != nil {
		return err
	}
	return f.Close()
}

func (s Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := osOpen(filepath.FromSlash(path))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create truncates an existing file.
func (s Store) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := osCreate(filepath.FromSlash(path))
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s Store) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return osRemove(filepath.FromSlash(path))
}

func NewStore(root string) *Store {
	if root == "" {
		logging.New("osfile").Warn("store root is empty, defaulting to /")
		root = "/"
	}
	store := Store{root: root}
	var err error
	if store.title, err = osHostname(); err != nil {
		store.title = err.Error()
	}
	return &store
}
