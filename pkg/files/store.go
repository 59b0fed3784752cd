package files

//go:generate mockgen -source=store.go -destination=store_mock.go -package=files

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
)

var ErrNotImplemented = errors.New("not implemented")

// Store is the storage capability a root location is reached through.
// Paths are slash separated and absolute within the store.
type Store interface {
	RootTitle() string
	RootURL() url.URL
	ReadDir(ctx context.Context, name string) ([]os.DirEntry, error)
	Stat(ctx context.Context, name string) (os.FileInfo, error)
	CreateDir(ctx context.Context, path string) error
	CreateFile(ctx context.Context, path string) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Create(ctx context.Context, path string) (io.WriteCloser, error)
	Delete(ctx context.Context, path string) error
}
