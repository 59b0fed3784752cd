// Package httpfile is a read-only files.Store over web server directory
// listings (the autoindex pages of nginx, Apache and similar servers).
package httpfile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/datatug/pngnote/pkg/files"
)

type StoreOption func(*HttpStore)

func NewStore(root url.URL, o ...StoreOption) *HttpStore {
	store := &HttpStore{
		Root: root,
	}
	for _, opt := range o {
		opt(store)
	}
	return store
}

func WithHttpClient(client *http.Client) StoreOption {
	return func(store *HttpStore) {
		store.client = client
	}
}

var _ files.Store = (*HttpStore)(nil)

var hrefRegexp = regexp.MustCompile(`<a href="([^"]+)">`)

type HttpStore struct {
	Root   url.URL
	client *http.Client
}

func (h HttpStore) RootURL() url.URL {
	return h.Root
}

func (h HttpStore) RootTitle() string {
	root := h.Root
	root.User = nil
	return root.String()
}

func (h HttpStore) httpClient() *http.Client {
	if h.client == nil {
		return http.DefaultClient
	}
	return h.client
}

func (h HttpStore) do(ctx context.Context, method, name string, dir bool) (*http.Response, error) {
	u := h.Root
	u.Path = name
	if dir && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := h.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, statusError(name, resp.StatusCode)
	}
	return resp, nil
}

func statusError(name string, code int) error {
	switch code {
	case http.StatusNotFound:
		return &os.PathError{Op: "get", Path: name, Err: os.ErrNotExist}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &os.PathError{Op: "get", Path: name, Err: os.ErrPermission}
	default:
		return fmt.Errorf("unexpected status code: %d", code)
	}
}

func (h HttpStore) ReadDir(ctx context.Context, name string) ([]os.DirEntry, error) {
	resp, err := h.do(ctx, http.MethodGet, name, true)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	matches := hrefRegexp.FindAllStringSubmatch(string(body), -1)

	var entries []os.DirEntry
	seen := make(map[string]bool, len(matches))
	for _, match := range matches {
		href := match[1]
		if href == "../" || href == "/" || strings.HasPrefix(href, "?") || strings.Contains(href, "://") {
			continue
		}
		isDir := strings.HasSuffix(href, "/")
		entryName := path.Base(strings.TrimSuffix(href, "/"))
		if unescaped, unescapeErr := url.PathUnescape(entryName); unescapeErr == nil {
			entryName = unescaped
		}
		if entryName == "" || entryName == "." || entryName == ".." || seen[entryName] {
			continue
		}
		seen[entryName] = true
		if isDir {
			entries = append(entries, files.NewDirEntry(entryName, true))
			continue
		}
		entries = append(entries, files.NewDirEntry(entryName, false, files.Size(files.SizeUnknown)))
	}

	return entries, nil
}

// Stat issues a HEAD request. Names ending with a slash are directories.
func (h HttpStore) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	isDir := name == "" || strings.HasSuffix(name, "/")
	resp, err := h.do(ctx, http.MethodHead, name, isDir)
	if err != nil && !isDir {
		var dirErr error
		if resp, dirErr = h.do(ctx, http.MethodHead, name, true); dirErr != nil {
			return nil, err
		}
		isDir = true
	} else if err != nil {
		return nil, err
	}
	_ = resp.Body.Close()
	base := path.Base(strings.TrimSuffix(name, "/"))
	if base == "." || base == "" {
		base = "/"
	}
	size := resp.ContentLength
	if isDir {
		size = max(size, 0)
	} else if size < 0 {
		size = files.SizeUnknown
	}
	o := []files.FileInfoOption{files.Size(size)}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isDir {
		o = append(o, files.MimeType(strings.TrimSpace(strings.Split(ct, ";")[0])))
	}
	if lm, parseErr := http.ParseTime(resp.Header.Get("Last-Modified")); parseErr == nil {
		o = append(o, files.ModTime(lm))
	}
	return files.NewFileInfo(files.NewDirEntry(base, isDir), o...), nil
}

func (h HttpStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	resp, err := h.do(ctx, http.MethodGet, name, false)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (h HttpStore) Create(ctx context.Context, path string) (io.WriteCloser, error) {
	_, _ = ctx, path
	return nil, files.ErrNotImplemented
}

func (h HttpStore) CreateDir(ctx context.Context, path string) error {
	_, _ = ctx, path
	return files.ErrNotImplemented
}

func (h HttpStore) CreateFile(ctx context.Context, path string) error {
	_, _ = ctx, path
	return files.ErrNotImplemented
}

func (h HttpStore) Delete(ctx context.Context, path string) error {
	_, _ = ctx, path
	return files.ErrNotImplemented
}
