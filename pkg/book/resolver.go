package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/datatug/pngnote/pkg/files"
	"github.com/datatug/pngnote/pkg/logging"
	"github.com/datatug/pngnote/pkg/outcome"
)

// BackgroundPolicy selects how LoadBook finds Book.Background.
type BackgroundPolicy int

const (
	// PrimaryBackground only accepts the file named 0000-bg.png.
	PrimaryBackground BackgroundPolicy = iota
	// FallbackBackground walks the chain of ResolveBackground for page 0.
	FallbackBackground
)

type Resolver struct {
	policy  BackgroundPolicy
	virtual bool
	log     *slog.Logger
}

type ResolverOption func(*Resolver)

func WithBackgroundPolicy(p BackgroundPolicy) ResolverOption {
	return func(r *Resolver) {
		r.policy = p
	}
}

// WithVirtualPlaceholders keeps missing pages as in-memory empty handles
// instead of creating files for them.
func WithVirtualPlaceholders() ResolverOption {
	return func(r *Resolver) {
		r.virtual = true
	}
}

func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = l
	}
}

func NewResolver(o ...ResolverOption) *Resolver {
	r := &Resolver{log: logging.New("book")}
	for _, opt := range o {
		opt(r)
	}
	return r
}

// LoadBook lists dir and returns its pages 0..max. Every missing index up to
// the highest page found gets an empty placeholder; a book without pages gets
// a single placeholder page 0.
func (r *Resolver) LoadBook(ctx context.Context, dir files.Handle) (*Book, error) {
	if !dir.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotBookDir, dir.Path)
	}
	children, err := dir.ListFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list book %s: %w", dir.Path, err)
	}

	pageMap := make(map[int]files.Handle)
	taken := make(map[int]bool)
	lastIdx := 0
	for _, child := range children {
		idx, ok := ParsePageIndex(child.Name)
		if !ok {
			continue
		}
		if child.IsDir() {
			taken[idx] = true
			continue
		}
		pageMap[idx] = child
		lastIdx = max(lastIdx, idx)
	}

	pages := make([]Page, 0, lastIdx+1)
	for idx := 0; idx <= lastIdx; idx++ {
		if f, ok := pageMap[idx]; ok {
			pages = append(pages, Page{File: f, Index: idx})
			continue
		}
		if taken[idx] {
			// A directory holds the page name, so the page can not be created.
			r.log.Warn("page name is taken by a directory", "dir", dir.Path, "page", PageFileName(idx))
			pages = append(pages, virtualPage(dir, idx))
			continue
		}
		page, placeholderErr := r.placeholder(ctx, dir, idx)
		if placeholderErr != nil {
			return nil, placeholderErr
		}
		pages = append(pages, page)
	}

	b := &Book{Dir: dir, Pages: pages}
	switch r.policy {
	case FallbackBackground:
		if bg, ok := BackgroundFrom(children, 0).Value(); ok {
			b.Background = &bg
		}
	default:
		if bg, ok := files.Find(children, DefaultBackgroundName); ok && !bg.IsDir() {
			b.Background = &bg
		}
	}
	r.log.Debug("book loaded", "dir", dir.Path, "pages", len(pages), "background", b.Background != nil)
	return b, nil
}

func (r *Resolver) placeholder(ctx context.Context, dir files.Handle, idx int) (Page, error) {
	if r.virtual {
		return virtualPage(dir, idx), nil
	}
	page, err := createEmptyPage(ctx, dir, idx)
	if err != nil {
		if errors.Is(err, files.ErrNotImplemented) {
			// read-only store
			return virtualPage(dir, idx), nil
		}
		return Page{}, err
	}
	return page, nil
}

func virtualPage(dir files.Handle, idx int) Page {
	f := dir.Child(PageFileName(idx))
	f.MimeType = files.MimeTypePNG
	return Page{File: f, Index: idx}
}

// BackgroundCandidates lists the names tried for a page background, most
// specific first.
func BackgroundCandidates(pageIdx int) []string {
	candidates := []string{BackgroundFileName(pageIdx)}
	if pageIdx != 0 {
		candidates = append(candidates, DefaultBackgroundName)
	}
	return append(candidates, LegacyBackgroundName)
}

// ResolveBackground finds the background for a page: the page's own
// <page>-bg.png, then the book's 0000-bg.png, then background.png.
func ResolveBackground(ctx context.Context, dir files.Handle, pageIdx int) outcome.Outcome[files.Handle] {
	if dir.Store() == nil {
		return outcome.NoAuthData[files.Handle]("no store for " + dir.Path)
	}
	children, err := dir.ListFiles(ctx)
	if err != nil {
		return outcome.FromError[files.Handle](dir.Path, err)
	}
	return BackgroundFrom(children, pageIdx)
}

// BackgroundFrom applies the ResolveBackground chain to an existing listing.
func BackgroundFrom(children []files.Handle, pageIdx int) outcome.Outcome[files.Handle] {
	for _, name := range BackgroundCandidates(pageIdx) {
		if bg, ok := files.Find(children, name); ok && !bg.IsDir() {
			return outcome.Success(bg)
		}
	}
	return outcome.NotFound[files.Handle](BackgroundFileName(pageIdx))
}

const accessProbeName = "caniwritehere.tst"

// Authorize checks that the root location is configured and writable by
// creating and removing a probe file.
func Authorize(ctx context.Context, root files.Handle) outcome.Outcome[files.Handle] {
	if root.Store() == nil || root.Path == "" {
		return outcome.NoAuthData[files.Handle]("no root location")
	}
	probe := path.Join(root.Path, accessProbeName)
	if err := root.Store().CreateFile(ctx, probe); err != nil {
		return outcome.NotAccessible[files.Handle](root.Path, err)
	}
	if err := root.Store().Delete(ctx, probe); err != nil {
		logging.New("book").Warn("failed to remove access probe", "path", probe, "error", err)
	}
	return outcome.Success(root)
}
