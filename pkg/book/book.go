package book

import (
	"context"
	"fmt"

	"github.com/datatug/pngnote/pkg/files"
)

// Book is a directory of numbered page images. Pages are dense: Pages[i]
// always has Index i.
type Book struct {
	Dir        files.Handle
	Pages      []Page
	Background *files.Handle
}

type Page struct {
	File  files.Handle
	Index int
}

func (p Page) IsEmpty() bool {
	return p.File.IsEmpty()
}

func (b *Book) Name() string {
	return b.Dir.Name
}

func (b *Book) PageCount() int {
	return len(b.Pages)
}

func (b *Book) Page(idx int) (Page, error) {
	if idx < 0 || idx >= len(b.Pages) {
		return Page{}, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, idx, len(b.Pages))
	}
	return b.Pages[idx], nil
}

// AddPage creates the next page file and returns a new Book including it.
// Page numbering starts at 0.
func (b *Book) AddPage(ctx context.Context) (*Book, error) {
	page, err := createEmptyPage(ctx, b.Dir, len(b.Pages))
	if err != nil {
		return nil, err
	}
	pages := make([]Page, len(b.Pages), len(b.Pages)+1)
	copy(pages, b.Pages)
	pages = append(pages, page)
	return &Book{Dir: b.Dir, Pages: pages, Background: b.Background}, nil
}

// AssignNonEmpty returns a Book whose page idx no longer reports empty.
// Used after a page was written so the real size does not need a re-query.
func (b *Book) AssignNonEmpty(idx int) (*Book, error) {
	page, err := b.Page(idx)
	if err != nil {
		return nil, err
	}
	if !page.IsEmpty() {
		return b, nil
	}
	pages := make([]Page, len(b.Pages))
	copy(pages, b.Pages)
	// Only emptiness matters, the exact size does not.
	pages[idx].File = page.File.WithSize(1000)
	return &Book{Dir: b.Dir, Pages: pages, Background: b.Background}, nil
}

func createEmptyPage(ctx context.Context, dir files.Handle, idx int) (Page, error) {
	name := PageFileName(idx)
	f, err := dir.CreateFile(ctx, files.MimeTypePNG, name)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %s: %w", ErrCreatePage, name, err)
	}
	return Page{File: f, Index: idx}, nil
}
