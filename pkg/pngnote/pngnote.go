// Package pngnote is the terminal UI: a list of books under a root location
// with cover thumbnails, and a page screen per book.
package pngnote

import (
	"context"
	"log/slog"

	"github.com/datatug/pngnote/pkg/book"
	"github.com/datatug/pngnote/pkg/booklist"
	"github.com/datatug/pngnote/pkg/logging"
	"github.com/datatug/pngnote/pkg/pngnote/navigator"
	"github.com/datatug/pngnote/pkg/settings"
	"github.com/datatug/pngnote/pkg/thumbs"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	pageBooks    = "books"
	pageBook     = "book"
	pageNewBook  = "new-book"
	pageOpenRoot = "open-root"
)

// goRun starts store work off the UI goroutine. Tests run it inline.
var goRun = func(f func()) {
	go f()
}

type Deps struct {
	Settings *settings.Manager
	Model    *booklist.Model
	Resolver *book.Resolver
	Loader   *thumbs.Loader
}

type PngNote struct {
	ctx  context.Context
	app  navigator.App
	deps Deps
	log  *slog.Logger

	*tview.Flex
	pages  *tview.Pages
	status *statusBar

	books    *bookListScreen
	bookView *bookScreen
	dialog   *tview.Form
}

// New builds the screens. The model's OnUpdate callback is taken over by the
// book list screen.
func New(ctx context.Context, app navigator.App, deps Deps) *PngNote {
	p := &PngNote{
		ctx:    ctx,
		app:    app,
		deps:   deps,
		log:    logging.New("ui"),
		pages:  tview.NewPages(),
		status: newStatusBar(),
	}
	p.books = newBookListScreen(p)
	p.bookView = newBookScreen(p)
	p.pages.AddPage(pageBooks, p.books, true, true)
	p.pages.AddPage(pageBook, p.bookView, true, false)

	p.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.pages, 0, 1, true).
		AddItem(p.status, 1, 0, false)
	p.SetInputCapture(p.inputCapture)

	deps.Model.OnUpdate(func(s booklist.Snapshot) {
		app.QueueUpdateDraw(func() {
			p.books.render(s)
		})
	})
	p.showBooks()
	return p
}

// Notify shows msg in the status bar. Safe to call from any goroutine.
func (p *PngNote) Notify(msg string) {
	p.app.QueueUpdateDraw(func() {
		p.status.Notify(msg)
	})
}

// Start reopens the last root in the background.
func (p *PngNote) Start() {
	goRun(func() {
		if err := p.deps.Model.Start(p.ctx); err != nil {
			p.log.Info("no root opened on start", "error", err)
		}
	})
}

// OpenRoot opens location in the background instead of the last root.
func (p *PngNote) OpenRoot(location string) {
	goRun(func() {
		if err := p.deps.Model.OpenRoot(p.ctx, location); err != nil {
			p.log.Warn("failed to open root", "location", location, "error", err)
		}
	})
}

func (p *PngNote) inputCapture(event *tcell.EventKey) *tcell.EventKey {
	if event.Modifiers()&tcell.ModAlt != 0 && event.Key() == tcell.KeyRune && event.Rune() == 'x' {
		p.app.Stop()
		return nil
	}
	if event.Key() == tcell.KeyCtrlQ {
		p.app.Stop()
		return nil
	}
	return event
}

func (p *PngNote) frontPage() string {
	name, _ := p.pages.GetFrontPage()
	return name
}

func (p *PngNote) showBooks() {
	p.pages.SwitchToPage(pageBooks)
	p.status.SetMenuItems(p.books.menuItems())
	p.app.SetFocus(p.books.table)
}

func (p *PngNote) showBook() {
	p.pages.SwitchToPage(pageBook)
	p.status.SetMenuItems(p.bookView.menuItems())
	p.app.SetFocus(p.bookView.table)
}

// showDialog puts form centered over the current page.
func (p *PngNote) showDialog(name string, form *tview.Form, width, height int) {
	p.pages.RemovePage(name)
	p.pages.AddPage(name, centered(form, width, height), true, true)
	p.dialog = form
	p.app.SetFocus(form)
}

func (p *PngNote) closeDialog(name string) {
	p.pages.RemovePage(name)
	p.dialog = nil
	if front := p.frontPage(); front == pageBook {
		p.app.SetFocus(p.bookView.table)
	} else {
		p.app.SetFocus(p.books.table)
	}
}

func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
