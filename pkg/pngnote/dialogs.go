package pngnote

import (
	"github.com/rivo/tview"
)

const (
	fieldBookName = "Name"
	fieldLocation = "Location"
)

func (p *PngNote) showNewBookDialog() {
	if p.deps.Model.Snapshot().Root.Store() == nil {
		p.status.Notify("Open a root location first.")
		return
	}
	form := tview.NewForm()
	form.AddInputField(fieldBookName, "", 40, nil, nil)
	create := func() {
		name := form.GetFormItemByLabel(fieldBookName).(*tview.InputField).GetText()
		p.closeDialog(pageNewBook)
		goRun(func() {
			if err := p.deps.Model.CreateBook(p.ctx, name); err != nil {
				p.log.Warn("book not created", "name", name, "error", err)
			}
		})
	}
	form.AddButton("Create", create)
	form.AddButton("Cancel", func() { p.closeDialog(pageNewBook) })
	form.SetCancelFunc(func() { p.closeDialog(pageNewBook) })
	form.SetBorder(true).SetTitle(" New book ")
	p.showDialog(pageNewBook, form, 60, 7)
}

func (p *PngNote) showOpenRootDialog() {
	form := tview.NewForm()
	form.AddInputField(fieldLocation, p.deps.Settings.LastRoot(), 60, nil, nil)
	input := form.GetFormItemByLabel(fieldLocation).(*tview.InputField)
	input.SetPlaceholder("~/notes, ftp://host/notes, https://host/notes/, mem:///notes")
	input.SetAutocompleteFunc(func(text string) []string {
		return matchPrefix(p.deps.Settings.RecentRoots(), text)
	})
	open := func() {
		location := input.GetText()
		p.closeDialog(pageOpenRoot)
		goRun(func() {
			if err := p.deps.Model.OpenRoot(p.ctx, location); err != nil {
				p.log.Warn("root not opened", "location", location, "error", err)
			}
		})
	}
	form.AddButton("Open", open)
	form.AddButton("Cancel", func() { p.closeDialog(pageOpenRoot) })
	form.SetCancelFunc(func() { p.closeDialog(pageOpenRoot) })
	form.SetBorder(true).SetTitle(" Open root location ")
	p.showDialog(pageOpenRoot, form, 80, 7)
}

func (p *PngNote) reloadBooks() {
	goRun(func() {
		if err := p.deps.Model.Reload(p.ctx); err != nil {
			p.log.Warn("reload failed", "error", err)
		}
	})
}
