package pngnote

import (
	"fmt"
	"strconv"

	"github.com/datatug/pngnote/pkg/book"
	"github.com/datatug/pngnote/pkg/files"
	"github.com/datatug/pngnote/pkg/fsutils"
	"github.com/datatug/pngnote/pkg/thumbs"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type bookScreen struct {
	*tview.Flex
	p *PngNote

	header  *tview.TextView
	table   *tview.Table
	preview *tview.Image

	book   *book.Book
	thumbs []thumbs.Thumbnail
	// generation discards results of a book that is no longer shown.
	generation uint64
}

func newBookScreen(p *PngNote) *bookScreen {
	s := &bookScreen{
		p:       p,
		header:  tview.NewTextView().SetDynamicColors(true),
		table:   tview.NewTable().SetSelectable(true, false).SetFixed(1, 0),
		preview: tview.NewImage(),
	}
	s.table.SetBorder(true).SetTitle(" Pages ")
	s.preview.SetBorder(true).SetTitle(" Page ")
	s.table.SetSelectionChangedFunc(func(row, _ int) {
		s.renderPreview(row - 1)
	})
	s.table.SetInputCapture(s.inputCapture)

	body := tview.NewFlex().
		AddItem(s.table, 0, 3, true).
		AddItem(s.preview, 0, 2, false)
	s.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.header, 1, 0, false).
		AddItem(body, 0, 1, true)
	return s
}

func (s *bookScreen) menuItems() []MenuItem {
	return []MenuItem{
		{Title: "Esc Back", HotKeys: []string{"Esc"}, Action: s.p.closeBook},
		{Title: "F7 Add page", HotKeys: []string{"F7"}, Action: s.p.addPage},
		{Title: "Ctrl-Q Exit", HotKeys: []string{"Ctrl-Q"}, Action: s.p.app.Stop},
	}
}

func (s *bookScreen) inputCapture(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		s.p.closeBook()
		return nil
	case tcell.KeyF7:
		s.p.addPage()
		return nil
	default:
		return event
	}
}

func (s *bookScreen) reset(dir files.Handle) {
	s.generation++
	s.book = nil
	s.thumbs = nil
	s.header.SetText(fmt.Sprintf("[::b]%s[::-] [gray]loading…[-]", tview.Escape(dir.Name)))
	s.table.Clear()
	s.preview.SetImage(thumbs.Thumbnail{}.Render(s.p.deps.Settings.Get().Thumbnail))
}

func (s *bookScreen) setBook(b *book.Book, th []thumbs.Thumbnail) {
	s.book = b
	s.thumbs = th
	s.render()
}

func (s *bookScreen) render() {
	b := s.book
	if b == nil {
		return
	}
	bg := "no background"
	if b.Background != nil {
		bg = "background " + b.Background.Name
	}
	s.header.SetText(fmt.Sprintf("[::b]%s[::-] [gray](%d pages, %s)[-]", tview.Escape(b.Name()), b.PageCount(), bg))

	row, _ := s.table.GetSelection()
	s.table.Clear()
	for col, title := range []string{"#", "File", "Size", "Modified"} {
		s.table.SetCell(0, col, tview.NewTableCell(title).
			SetSelectable(false).
			SetTextColor(tcell.ColorYellow))
	}
	for i, page := range b.Pages {
		size := "empty"
		if !page.IsEmpty() {
			size = fsutils.GetSizeShortText(page.File.Size)
		}
		modified := ""
		if !page.File.ModTime.IsZero() {
			modified = page.File.ModTime.Format("2006-01-02 15:04")
		}
		s.table.SetCell(i+1, 0, tview.NewTableCell(strconv.Itoa(page.Index)).SetAlign(tview.AlignRight))
		s.table.SetCell(i+1, 1, tview.NewTableCell(tview.Escape(page.File.Name)).SetExpansion(1))
		s.table.SetCell(i+1, 2, tview.NewTableCell(size).SetAlign(tview.AlignRight))
		s.table.SetCell(i+1, 3, tview.NewTableCell(modified).SetTextColor(tcell.ColorGray))
	}
	row = min(max(row, 1), len(b.Pages))
	s.table.Select(row, 0)
	s.renderPreview(row - 1)
}

func (s *bookScreen) renderPreview(idx int) {
	cfg := s.p.deps.Settings.Get().Thumbnail
	if idx < 0 || idx >= len(s.thumbs) {
		s.preview.SetImage(thumbs.Thumbnail{}.Render(cfg))
		return
	}
	s.preview.SetImage(s.thumbs[idx].Render(cfg))
	s.preview.SetTitle(fmt.Sprintf(" Page %d ", idx))
}

// openBook shows the page screen and loads the book in the background.
func (p *PngNote) openBook(dir files.Handle) {
	s := p.bookView
	s.reset(dir)
	gen := s.generation
	p.showBook()
	goRun(func() {
		b, err := p.deps.Resolver.LoadBook(p.ctx, dir)
		if err != nil {
			p.log.Error("failed to open book", "dir", dir.Path, "error", err)
			p.app.QueueUpdateDraw(func() {
				if gen != s.generation {
					return
				}
				p.status.Notify(fmt.Sprintf("Can't open book (%s).", dir.Name))
				p.showBooks()
			})
			return
		}
		p.app.QueueUpdateDraw(func() {
			if gen == s.generation {
				s.setBook(b, make([]thumbs.Thumbnail, len(b.Pages)))
			}
		})
		th := p.deps.Loader.PageThumbnails(p.ctx, b)
		p.app.QueueUpdateDraw(func() {
			if gen == s.generation && s.book != nil && len(th) == len(s.book.Pages) {
				s.setBook(s.book, th)
			}
		})
	})
}

// closeBook returns to the book list and relists it, the book may have
// changed while it was open.
func (p *PngNote) closeBook() {
	p.bookView.generation++
	p.showBooks()
	p.reloadBooks()
}

func (p *PngNote) addPage() {
	s := p.bookView
	b := s.book
	if b == nil {
		return
	}
	gen := s.generation
	goRun(func() {
		updated, err := b.AddPage(p.ctx)
		p.app.QueueUpdateDraw(func() {
			if err != nil {
				p.log.Error("failed to add page", "book", b.Dir.Path, "error", err)
				p.status.Notify(fmt.Sprintf("Can't create page (%s).", book.PageFileName(b.PageCount())))
				return
			}
			if gen != s.generation {
				return
			}
			th := append(append([]thumbs.Thumbnail(nil), s.thumbs...), thumbs.Thumbnail{})
			s.setBook(updated, th)
			s.table.Select(updated.PageCount(), 0)
		})
	})
}
