package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"time"
)

const (
	MimeTypeDir    = "inode/directory"
	MimeTypePNG    = "image/png"
	MimeTypeBinary = "application/octet-stream"
)

// SizeUnknown marks a file whose store did not report a size, such as an
// entry of an HTTP directory index.
const SizeUnknown int64 = -1

var ErrNoStore = errors.New("handle has no store")

var timeNow = time.Now

// Handle points at a location in a Store together with the metadata that was
// known when the location was queried. Metadata is not refreshed; query the
// store again to get current values.
type Handle struct {
	store    Store
	Path     string
	Name     string
	ModTime  time.Time
	MimeType string
	Size     int64
}

// NewHandle builds a handle from metadata already returned by the store.
func NewHandle(store Store, p string, info os.FileInfo) Handle {
	h := Handle{
		store: store,
		Path:  p,
	}
	if info == nil {
		h.Name = path.Base(p)
		return h
	}
	h.Name = info.Name()
	h.ModTime = info.ModTime()
	h.Size = info.Size()
	h.MimeType = mimeTypeOf(info)
	return h
}

func mimeTypeOf(info os.FileInfo) string {
	if info.IsDir() {
		return MimeTypeDir
	}
	if withMime, ok := info.(interface{ MimeType() string }); ok {
		if mt := withMime.MimeType(); mt != "" {
			return mt
		}
	}
	if mt := mime.TypeByExtension(path.Ext(info.Name())); mt != "" {
		return mt
	}
	return MimeTypeBinary
}

// Stat queries the store for a single location.
func Stat(ctx context.Context, store Store, p string) (Handle, error) {
	if store == nil {
		return Handle{}, ErrNoStore
	}
	info, err := store.Stat(ctx, p)
	if err != nil {
		return Handle{}, err
	}
	return NewHandle(store, p, info), nil
}

func (h Handle) Store() Store {
	return h.store
}

func (h Handle) String() string {
	return h.Path
}

func (h Handle) IsDir() bool {
	return h.MimeType == MimeTypeDir
}

func (h Handle) IsFile() bool {
	return !(h.IsDir() || h.MimeType == "")
}

// IsEmpty reports a file of zero size. Page placeholders are empty files.
// A file of unknown size is not empty.
func (h Handle) IsEmpty() bool {
	if !h.IsFile() {
		return false
	}
	return h.Size == 0
}

func (h Handle) SizeKnown() bool {
	return h.Size >= 0
}

// WithSize returns a copy of the handle that reports the given size.
func (h Handle) WithSize(size int64) Handle {
	h.Size = size
	return h
}

// Child returns a handle for a direct child without querying the store.
func (h Handle) Child(name string) Handle {
	return Handle{
		store: h.store,
		Path:  path.Join(h.Path, name),
		Name:  name,
	}
}

func (h Handle) ListFiles(ctx context.Context) ([]Handle, error) {
	if h.store == nil {
		return nil, ErrNoStore
	}
	entries, err := h.store.ReadDir(ctx, h.Path)
	if err != nil {
		return nil, err
	}
	result := make([]Handle, 0, len(entries))
	for _, entry := range entries {
		childPath := path.Join(h.Path, entry.Name())
		info, infoErr := entry.Info()
		if infoErr != nil || info == nil {
			info = NewFileInfo(NewDirEntry(entry.Name(), entry.IsDir()))
		}
		result = append(result, NewHandle(h.store, childPath, info))
	}
	return result, nil
}

// FindFile lists the directory and returns the child with the given name.
func (h Handle) FindFile(ctx context.Context, name string) (Handle, bool, error) {
	children, err := h.ListFiles(ctx)
	if err != nil {
		return Handle{}, false, err
	}
	child, found := Find(children, name)
	return child, found, nil
}

// Find looks a name up in an already listed set of handles.
func Find(handles []Handle, name string) (Handle, bool) {
	for _, h := range handles {
		if h.Name == name {
			return h, true
		}
	}
	return Handle{}, false
}

// CreateFile creates an empty file in the directory. The returned handle has
// zero size and the local time as its modification time.
func (h Handle) CreateFile(ctx context.Context, mimeType, name string) (Handle, error) {
	if h.store == nil {
		return Handle{}, ErrNoStore
	}
	childPath := path.Join(h.Path, name)
	if err := h.store.CreateFile(ctx, childPath); err != nil {
		return Handle{}, fmt.Errorf("failed to create file %s: %w", childPath, err)
	}
	return Handle{
		store:    h.store,
		Path:     childPath,
		Name:     name,
		ModTime:  timeNow(),
		MimeType: mimeType,
	}, nil
}

func (h Handle) CreateDirectory(ctx context.Context, name string) (Handle, error) {
	if h.store == nil {
		return Handle{}, ErrNoStore
	}
	childPath := path.Join(h.Path, name)
	if err := h.store.CreateDir(ctx, childPath); err != nil {
		return Handle{}, fmt.Errorf("failed to create directory %s: %w", childPath, err)
	}
	return Stat(ctx, h.store, childPath)
}

func (h Handle) Open(ctx context.Context) (io.ReadCloser, error) {
	if h.store == nil {
		return nil, ErrNoStore
	}
	return h.store.Open(ctx, h.Path)
}

func (h Handle) Create(ctx context.Context) (io.WriteCloser, error) {
	if h.store == nil {
		return nil, ErrNoStore
	}
	return h.store.Create(ctx, h.Path)
}

func (h Handle) Delete(ctx context.Context) error {
	if h.store == nil {
		return ErrNoStore
	}
	return h.store.Delete(ctx, h.Path)
}
