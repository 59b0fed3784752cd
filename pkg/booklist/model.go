package booklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/datatug/pngnote/pkg/book"
	"github.com/datatug/pngnote/pkg/files"
	"github.com/datatug/pngnote/pkg/logging"
	"github.com/datatug/pngnote/pkg/settings"
	"github.com/datatug/pngnote/pkg/thumbs"
)

const (
	MsgCantOpenRoot = "Can't open dir. Please re-open."
	msgCantCreate   = "Can't create book directory (%s)."
)

// Opener resolves a root location to its directory handle.
type Opener func(ctx context.Context, location string) (files.Handle, error)

type ThumbnailLoader interface {
	BookThumbnail(ctx context.Context, dir files.Handle) thumbs.Thumbnail
}

// Snapshot is a consistent copy of the model state. Thumbnails has the same
// length and order as Books.
type Snapshot struct {
	Location   string
	Root       files.Handle
	Books      []files.Handle
	Thumbnails []thumbs.Thumbnail
	Loading    bool
	NeedsRoot  bool
	ReadOnly   bool
}

type Option func(*Model)

func WithNotifier(n Notifier) Option {
	return func(m *Model) {
		m.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		m.log = l
	}
}

// WithAccessCheck probes every opened root for write access.
func WithAccessCheck() Option {
	return func(m *Model) {
		m.checkAccess = true
	}
}

// Model is the book list screen state. Listing happens on the caller's
// goroutine, thumbnails are decoded on a background goroutine and delivered
// through the OnUpdate callback. Only the most recently started thumbnail
// load is ever delivered.
type Model struct {
	settings    *settings.Manager
	open        Opener
	loader      ThumbnailLoader
	notifier    Notifier
	log         *slog.Logger
	checkAccess bool

	mu         sync.Mutex
	state      Snapshot
	onUpdate   func(Snapshot)
	publishing bool
	pending    bool
	generation uint64
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func NewModel(s *settings.Manager, open Opener, loader ThumbnailLoader, o ...Option) *Model {
	m := &Model{
		settings: s,
		open:     open,
		loader:   loader,
		notifier: nopNotifier{},
	}
	for _, opt := range o {
		opt(m)
	}
	if m.log == nil {
		m.log = logging.New("booklist")
	}
	return m
}

// OnUpdate registers the callback for state changes. The callback runs
// outside of the model lock, possibly on a background goroutine. Calls are
// serialized and the last one carries the latest state; an update made
// while the callback runs may be delivered from the goroutine running it.
func (m *Model) OnUpdate(f func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = f
}

func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Model) snapshotLocked() Snapshot {
	s := m.state
	s.Books = append([]files.Handle(nil), m.state.Books...)
	s.Thumbnails = append([]thumbs.Thumbnail(nil), m.state.Thumbnails...)
	return s
}

func (m *Model) NeedsRoot() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.NeedsRoot
}

// Start reopens the root remembered in the settings.
func (m *Model) Start(ctx context.Context) error {
	location := m.settings.LastRoot()
	if location == "" {
		m.mu.Lock()
		m.state.NeedsRoot = true
		m.mu.Unlock()
		m.publish()
		return ErrNoRoot
	}
	return m.OpenRoot(ctx, location)
}

// OpenRoot opens location, lists its books and remembers it as the last
// root. On failure the user is asked to pick another root and the current
// list is kept.
func (m *Model) OpenRoot(ctx context.Context, location string) error {
	root, err := m.open(ctx, location)
	if err != nil {
		return m.rootFailed(location, fmt.Errorf("%w: %w", ErrRootInaccessible, err))
	}
	books, err := List(ctx, root)
	if err != nil {
		return m.rootFailed(location, err)
	}
	if err = m.settings.SetLastRoot(location); err != nil {
		m.log.Warn("failed to remember root", "location", location, "error", err)
	}
	readOnly := false
	if m.checkAccess {
		access := book.Authorize(ctx, root)
		readOnly = !access.IsSuccess()
		if readOnly {
			m.log.Info("root is read-only", "location", location, "reason", access.Err())
		}
	}
	m.log.Info("root opened", "location", location, "books", len(books))

	m.mu.Lock()
	m.state.Location = location
	m.state.Root = root
	m.state.NeedsRoot = false
	m.state.ReadOnly = readOnly
	m.mu.Unlock()
	m.setBooks(books)
	return nil
}

func (m *Model) rootFailed(location string, err error) error {
	m.log.Error("failed to open root", "location", location, "error", err)
	m.mu.Lock()
	m.state.NeedsRoot = true
	m.mu.Unlock()
	m.notifier.Notify(MsgCantOpenRoot)
	m.publish()
	return err
}

// Reload lists the current root again.
func (m *Model) Reload(ctx context.Context) error {
	m.mu.Lock()
	root, location := m.state.Root, m.state.Location
	m.mu.Unlock()
	if root.Store() == nil {
		return ErrNoRoot
	}
	books, err := List(ctx, root)
	if err != nil {
		return m.rootFailed(location, err)
	}
	m.setBooks(books)
	return nil
}

// CreateBook creates a book directory under the current root and reloads the
// list. Blank names are ignored.
func (m *Model) CreateBook(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	m.mu.Lock()
	root := m.state.Root
	m.mu.Unlock()
	if root.Store() == nil {
		return ErrNoRoot
	}
	var err error
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		err = errors.New("invalid book name")
	} else {
		_, err = root.CreateDirectory(ctx, name)
	}
	if err != nil {
		m.log.Error("failed to create book", "name", name, "error", err)
		m.notifier.Notify(fmt.Sprintf(msgCantCreate, name))
		return fmt.Errorf("%w: %s: %w", ErrCreateFailed, name, err)
	}
	m.log.Info("book created", "name", name)
	return m.Reload(ctx)
}

// setBooks publishes books with blank thumbnails and starts decoding the
// real ones.
func (m *Model) setBooks(books []files.Handle) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.generation++
	gen := m.generation
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.state.Books = books
	m.state.Thumbnails = make([]thumbs.Thumbnail, len(books))
	m.state.Loading = len(books) > 0
	m.mu.Unlock()
	m.publish()

	if len(books) == 0 {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		result := make([]thumbs.Thumbnail, len(books))
		for i, b := range books {
			if ctx.Err() != nil {
				break
			}
			result[i] = m.loader.BookThumbnail(ctx, b)
		}
		m.deliver(gen, result)
	}()
}

func (m *Model) deliver(gen uint64, result []thumbs.Thumbnail) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.log.Debug("discarding superseded thumbnails", "generation", gen)
		return
	}
	m.state.Thumbnails = result
	m.state.Loading = false
	m.mu.Unlock()
	m.publish()
}

// publish hands the current state to the callback. Callbacks never overlap.
// A publish that arrives while one is running is folded into a follow-up
// call made by the running publisher, so the last callback always carries
// the latest state.
func (m *Model) publish() {
	m.mu.Lock()
	m.pending = true
	if m.publishing {
		m.mu.Unlock()
		return
	}
	m.publishing = true
	for m.pending {
		m.pending = false
		f := m.onUpdate
		s := m.snapshotLocked()
		m.mu.Unlock()
		if f != nil {
			f(s)
		}
		m.mu.Lock()
	}
	m.publishing = false
	m.mu.Unlock()
}

// Wait blocks until every started thumbnail load has finished.
func (m *Model) Wait() {
	m.wg.Wait()
}

// Close stops the running thumbnail load and waits for it.
func (m *Model) Close() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.generation++
	m.mu.Unlock()
	m.wg.Wait()
}
