package ftpfile

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/datatug/pngnote/pkg/files"
	"github.com/jlaffaye/ftp"
)

const schema = "ftp"

const dialTimeout = 5 * time.Second

var _ files.Store = (*Store)(nil)

type Store struct {
	host     string
	path     string
	user     string
	password string
	explicit bool
	implicit bool
}

// conn is the subset of *ftp.ServerConn the store needs.
type conn interface {
	Login(user, password string) error
	List(path string) ([]*ftp.Entry, error)
	MakeDir(path string) error
	Stor(path string, r io.Reader) error
	Retr(path string) (*ftp.Response, error)
	Delete(path string) error
	Quit() error
}

var dial = func(ctx context.Context, addr string, options ...ftp.DialOption) (conn, error) {
	options = append(options, ftp.DialWithContext(ctx))
	c, err := ftp.Dial(addr, options...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// retr is swapped in tests because *ftp.Response can not be constructed
// outside of the ftp package.
var retr = func(c conn, p string) (io.ReadCloser, error) {
	resp, err := c.Retr(p)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func NewStore(root url.URL) *Store {
	s := &Store{
		host: root.Host,
		path: root.Path,
	}
	if root.User != nil {
		s.user = root.User.Username()
		s.password, _ = root.User.Password()
	}
	return s
}

func (s *Store) RootURL() url.URL {
	return url.URL{
		Scheme: schema,
		Host:   s.host,
		Path:   s.path,
	}
}

func (s *Store) RootTitle() string {
	return schema + "://" + s.host
}

func (s *Store) SetTLS(explicit, implicit bool) {
	s.explicit = explicit
	s.implicit = implicit
}

func (s *Store) connect(ctx context.Context) (conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	host, port, err := net.SplitHostPort(s.host)
	if err != nil {
		host = s.host
		port = "21"
	}
	addr := net.JoinHostPort(host, port)
	options := []ftp.DialOption{
		ftp.DialWithTimeout(dialTimeout),
	}
	if s.implicit {
		options = append(options, ftp.DialWithTLS(&tls.Config{ServerName: host, InsecureSkipVerify: true}))
	}
	if s.explicit {
		options = append(options, ftp.DialWithExplicitTLS(&tls.Config{ServerName: host, InsecureSkipVerify: true}))
	}

	c, err := dial(ctx, addr, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ftp server: %w", err)
	}

	if s.user != "" {
		if err = c.Login(s.user, s.password); err != nil {
			_ = c.Quit()
			return nil, fmt.Errorf("failed to login to ftp server: %w", err)
		}
	}
	return c, nil
}

func (s *Store) ReadDir(ctx context.Context, name string) ([]os.DirEntry, error) {
	c, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = c.Quit()
	}()

	entries, err := c.List(name)
	if err != nil {
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}

	result := make([]os.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		result = append(result, &ftpDirEntry{entry: entry})
	}

	return result, nil
}

// Stat lists the parent directory since MLST support varies between servers.
func (s *Store) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	clean := path.Clean("/" + name)
	if clean == "/" {
		return files.NewFileInfo(files.NewDirEntry("/", true)), nil
	}
	dir, base := path.Dir(clean), path.Base(clean)
	entries, err := s.ReadDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Name() == base {
			return entry.Info()
		}
	}
	return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
}

func (s *Store) CreateDir(ctx context.Context, p string) error {
	c, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Quit()
	}()
	return c.MakeDir(p)
}

func (s *Store) CreateFile(ctx context.Context, p string) error {
	c, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Quit()
	}()
	return c.Stor(p, bytes.NewReader(nil))
}

func (s *Store) Delete(ctx context.Context, p string) error {
	c, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Quit()
	}()
	return c.Delete(p)
}

// Open keeps the connection until the returned reader is closed.
func (s *Store) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	c, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	r, err := retr(c, p)
	if err != nil {
		_ = c.Quit()
		return nil, fmt.Errorf("failed to retrieve %s: %w", p, err)
	}
	return &ftpReader{ReadCloser: r, conn: c}, nil
}

// Create uploads whatever is written until Close returns.
func (s *Store) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	c, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	w := &ftpWriter{pw: pw, done: make(chan error, 1), conn: c}
	go func() {
		storErr := c.Stor(p, pr)
		_ = pr.CloseWithError(storErr)
		w.done <- storErr
	}()
	return w, nil
}

type ftpReader struct {
	io.ReadCloser
	conn conn
}

func (r *ftpReader) Close() error {
	err := r.ReadCloser.Close()
	_ = r.conn.Quit()
	return err
}

type ftpWriter struct {
	pw   *io.PipeWriter
	done chan error
	conn conn
}

func (w *ftpWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *ftpWriter) Close() error {
	_ = w.pw.Close()
	err := <-w.done
	_ = w.conn.Quit()
	return err
}

type ftpDirEntry struct {
	entry *ftp.Entry
}

func (e *ftpDirEntry) Name() string {
	return e.entry.Name
}

func (e *ftpDirEntry) IsDir() bool {
	return e.entry.Type == ftp.EntryTypeFolder
}

func (e *ftpDirEntry) Type() os.FileMode {
	if e.IsDir() {
		return os.ModeDir
	}
	return 0
}

func (e *ftpDirEntry) Info() (os.FileInfo, error) {
	return &ftpFileInfo{entry: e.entry}, nil
}

type ftpFileInfo struct {
	entry *ftp.Entry
}

func (f *ftpFileInfo) Name() string       { return f.entry.Name }
func (f *ftpFileInfo) Size() int64        { return int64(f.entry.Size) }
func (f *ftpFileInfo) Mode() os.FileMode  { return (&ftpDirEntry{entry: f.entry}).Type() }
func (f *ftpFileInfo) ModTime() time.Time { return f.entry.Time }
func (f *ftpFileInfo) IsDir() bool        { return f.entry.Type == ftp.EntryTypeFolder }
func (f *ftpFileInfo) Sys() any           { return f.entry }
