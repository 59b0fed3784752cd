package pngnote

import (
	"fmt"
	"strings"

	"github.com/datatug/pngnote/pkg/booklist"
	"github.com/datatug/pngnote/pkg/files"
	"github.com/datatug/pngnote/pkg/thumbs"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type bookListScreen struct {
	*tview.Flex
	p *PngNote

	header      *tview.TextView
	table       *tview.Table
	preview     *tview.Image
	filterInput *tview.InputField

	filter   bookFilter
	snapshot booklist.Snapshot
	// asked is set once the open-root dialog was shown for the current
	// failure, so repeated updates do not reopen it.
	asked bool
}

func newBookListScreen(p *PngNote) *bookListScreen {
	s := &bookListScreen{
		p:       p,
		header:  tview.NewTextView().SetDynamicColors(true),
		table:   tview.NewTable().SetSelectable(true, false),
		preview: tview.NewImage(),
	}
	s.filterInput = tview.NewInputField().
		SetLabel("Filter: ").
		SetChangedFunc(func(text string) {
			s.filter = newBookFilter(text)
			s.renderTable()
		}).
		SetDoneFunc(func(key tcell.Key) {
			if key == tcell.KeyEscape {
				s.filterInput.SetText("")
			}
			p.app.SetFocus(s.table)
		})

	s.table.SetBorder(true).SetTitle(" Books ")
	s.preview.SetBorder(true).SetTitle(" Cover ")
	s.table.SetSelectionChangedFunc(func(row, _ int) {
		s.renderPreview(row)
	})
	s.table.SetSelectedFunc(func(row, _ int) {
		if dir, ok := s.bookAt(row); ok {
			p.openBook(dir)
		}
	})
	s.table.SetInputCapture(s.inputCapture)

	body := tview.NewFlex().
		AddItem(s.table, 0, 3, true).
		AddItem(s.preview, 0, 2, false)
	s.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.header, 1, 0, false).
		AddItem(s.filterInput, 1, 0, false).
		AddItem(body, 0, 1, true)
	s.renderHeader()
	return s
}

func (s *bookListScreen) menuItems() []MenuItem {
	return []MenuItem{
		{Title: "Enter Open", HotKeys: []string{"Enter"}, Action: func() {
			row, _ := s.table.GetSelection()
			if dir, ok := s.bookAt(row); ok {
				s.p.openBook(dir)
			}
		}},
		{Title: "F7 New book", HotKeys: []string{"F7"}, Action: s.p.showNewBookDialog},
		{Title: "Ctrl-O Open root", HotKeys: []string{"Ctrl-O"}, Action: s.p.showOpenRootDialog},
		{Title: "/ Filter", HotKeys: []string{"/"}, Action: func() { s.p.app.SetFocus(s.filterInput) }},
		{Title: "F5 Reload", HotKeys: []string{"F5"}, Action: s.p.reloadBooks},
		{Title: "Ctrl-Q Exit", HotKeys: []string{"Ctrl-Q"}, Action: s.p.app.Stop},
	}
}

func (s *bookListScreen) inputCapture(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyF7:
		s.p.showNewBookDialog()
		return nil
	case tcell.KeyCtrlO:
		s.p.showOpenRootDialog()
		return nil
	case tcell.KeyF5:
		s.p.reloadBooks()
		return nil
	case tcell.KeyRune:
		if event.Rune() == '/' {
			s.p.app.SetFocus(s.filterInput)
			return nil
		}
	default:
	}
	return event
}

// render applies a model snapshot. Runs on the UI goroutine.
func (s *bookListScreen) render(snapshot booklist.Snapshot) {
	s.snapshot = snapshot
	s.renderHeader()
	s.renderTable()
	if !snapshot.NeedsRoot {
		s.asked = false
		return
	}
	if !s.asked {
		s.asked = true
		s.p.showOpenRootDialog()
	}
}

func (s *bookListScreen) renderHeader() {
	snap := s.snapshot
	var sb strings.Builder
	if snap.Root.Store() == nil {
		sb.WriteString("[gray]No root selected. Press Ctrl-O to open one.[-]")
	} else {
		fmt.Fprintf(&sb, "[::b]%s[::-] %s", tview.Escape(snap.Root.Store().RootTitle()), tview.Escape(snap.Root.Path))
		fmt.Fprintf(&sb, " [gray](%d books)[-]", len(snap.Books))
	}
	if snap.Loading {
		sb.WriteString(" [yellow]loading thumbnails…[-]")
	}
	if snap.ReadOnly {
		sb.WriteString(" [red]read-only[-]")
	}
	s.header.SetText(sb.String())
}

func (s *bookListScreen) renderTable() {
	selected := s.selectedName()
	s.table.Clear()
	row := 0
	for i, dir := range s.snapshot.Books {
		if !s.filter.IsVisible(dir) {
			continue
		}
		s.table.SetCell(row, 0, tview.NewTableCell(tview.Escape(dir.Name)).
			SetReference(i).
			SetExpansion(1))
		s.table.SetCell(row, 1, tview.NewTableCell(s.thumbnailMark(i)).
			SetReference(i).
			SetTextColor(tcell.ColorGray))
		if dir.Name == selected {
			s.table.Select(row, 0)
		}
		row++
	}
	if row == 0 {
		text := "No books. Press F7 to create one."
		if !s.filter.IsEmpty() {
			text = "No books match the filter."
		}
		s.table.SetCell(0, 0, tview.NewTableCell(text).
			SetSelectable(false).
			SetTextColor(tcell.ColorGray))
	}
	r, _ := s.table.GetSelection()
	s.renderPreview(r)
}

func (s *bookListScreen) thumbnailMark(i int) string {
	if i >= len(s.snapshot.Thumbnails) {
		return ""
	}
	if s.snapshot.Loading && !s.snapshot.Thumbnails[i].Loaded() {
		return "…"
	}
	return ""
}

func (s *bookListScreen) selectedName() string {
	row, _ := s.table.GetSelection()
	if dir, ok := s.bookAt(row); ok {
		return dir.Name
	}
	return ""
}

func (s *bookListScreen) bookIndex(row int) (int, bool) {
	if row < 0 || row >= s.table.GetRowCount() {
		return 0, false
	}
	cell := s.table.GetCell(row, 0)
	if cell == nil {
		return 0, false
	}
	i, ok := cell.GetReference().(int)
	if !ok || i >= len(s.snapshot.Books) {
		return 0, false
	}
	return i, true
}

func (s *bookListScreen) bookAt(row int) (files.Handle, bool) {
	i, ok := s.bookIndex(row)
	if !ok {
		return files.Handle{}, false
	}
	return s.snapshot.Books[i], true
}

func (s *bookListScreen) renderPreview(row int) {
	cfg := s.p.deps.Settings.Get().Thumbnail
	i, ok := s.bookIndex(row)
	if !ok || i >= len(s.snapshot.Thumbnails) {
		s.preview.SetImage(thumbs.Blank(thumbs.BlankBackgroundColor, cfg.Size()))
		s.preview.SetTitle(" Cover ")
		return
	}
	s.preview.SetImage(s.snapshot.Thumbnails[i].Render(cfg))
	s.preview.SetTitle(" " + tview.Escape(s.snapshot.Books[i].Name) + " ")
}
