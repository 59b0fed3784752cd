package thumbs

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/datatug/pngnote/pkg/book"
	"github.com/datatug/pngnote/pkg/files"
	"github.com/datatug/pngnote/pkg/logging"
	"github.com/datatug/pngnote/pkg/outcome"
)

// Loader decodes thumbnails from a store. Failures never propagate: they are
// reported through the outcomes of the returned Thumbnail.
type Loader struct {
	log *slog.Logger
}

func NewLoader(log *slog.Logger) *Loader {
	if log == nil {
		log = logging.New("thumbs")
	}
	return &Loader{log: log}
}

// BookThumbnail loads the cover of a book: its first page over the book
// background.
func (l *Loader) BookThumbnail(ctx context.Context, dir files.Handle) Thumbnail {
	children, err := dir.ListFiles(ctx)
	if err != nil {
		l.log.Warn("failed to list book", "dir", dir.Path, "error", err)
		failed := outcome.FromError[image.Image](dir.Path, err)
		return Thumbnail{Foreground: failed, Background: failed}
	}
	return Thumbnail{
		Foreground: l.loadNamed(ctx, dir, children, book.FirstPageName),
		Background: l.loadNamed(ctx, dir, children, book.DefaultBackgroundName),
	}
}

// PageThumbnail loads a single page over its resolved background.
func (l *Loader) PageThumbnail(ctx context.Context, b *book.Book, idx int) Thumbnail {
	page, err := b.Page(idx)
	if err != nil {
		return Thumbnail{}
	}
	bg := book.ResolveBackground(ctx, b.Dir, idx)
	return Thumbnail{
		Foreground: l.Load(ctx, page.File, PageSampleSize),
		Background: outcome.Then(bg, l.loader(ctx, PageSampleSize)),
	}
}

// PageThumbnails loads every page of a book, listing the directory once.
func (l *Loader) PageThumbnails(ctx context.Context, b *book.Book) []Thumbnail {
	result := make([]Thumbnail, len(b.Pages))
	children, listErr := b.Dir.ListFiles(ctx)
	for i, page := range b.Pages {
		if ctx.Err() != nil {
			break
		}
		result[i].Foreground = l.Load(ctx, page.File, PageSampleSize)
		if listErr != nil {
			result[i].Background = outcome.FromError[image.Image](b.Dir.Path, listErr)
			continue
		}
		bg := book.BackgroundFrom(children, page.Index)
		result[i].Background = outcome.Then(bg, l.loader(ctx, PageSampleSize))
	}
	return result
}

func (l *Loader) loadNamed(ctx context.Context, dir files.Handle, children []files.Handle, name string) outcome.Outcome[image.Image] {
	f, ok := files.Find(children, name)
	if !ok {
		return outcome.NotFound[image.Image](fmt.Sprintf("%s/%s", dir.Path, name))
	}
	return l.Load(ctx, f, BookSampleSize)
}

func (l *Loader) loader(ctx context.Context, sampleSize int) func(files.Handle) outcome.Outcome[image.Image] {
	return func(f files.Handle) outcome.Outcome[image.Image] {
		return l.Load(ctx, f, sampleSize)
	}
}

// Load opens and decodes a single image. Empty page placeholders are
// reported as not found.
func (l *Loader) Load(ctx context.Context, f files.Handle, sampleSize int) outcome.Outcome[image.Image] {
	if f.IsDir() {
		return outcome.NotFound[image.Image](f.Path)
	}
	if f.IsEmpty() {
		return outcome.NotFound[image.Image](f.Path)
	}
	r, err := f.Open(ctx)
	if err != nil {
		l.log.Debug("failed to open image", "path", f.Path, "error", err)
		return outcome.FromError[image.Image](f.Path, err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			l.log.Debug("failed to close image", "path", f.Path, "error", closeErr)
		}
	}()
	img, err := Decode(r, sampleSize)
	if err != nil {
		l.log.Debug("failed to decode image", "path", f.Path, "error", err)
		return outcome.NotAccessible[image.Image](f.Path, err)
	}
	return outcome.Success(img)
}
