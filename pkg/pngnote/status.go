package pngnote

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const hotkeyColor = "yellow"

type statusBar struct {
	*tview.TextView
	menuItems []MenuItem
	message   string
}

func newStatusBar() *statusBar {
	s := &statusBar{
		TextView: tview.NewTextView().
			SetDynamicColors(true).
			SetRegions(true).
			SetTextColor(tcell.ColorSlateGray),
	}
	s.SetHighlightedFunc(s.highlighted)
	return s
}

func (s *statusBar) SetMenuItems(items []MenuItem) {
	s.menuItems = items
	s.render()
}

// Notify shows msg next to the menu until the next notification.
func (s *statusBar) Notify(msg string) {
	s.message = msg
	s.render()
}

func (s *statusBar) Message() string {
	return s.message
}

func (s *statusBar) render() {
	var sb strings.Builder
	sb.WriteString(renderMenuItems(s.menuItems))
	if s.message != "" {
		if sb.Len() > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString("[white]")
		sb.WriteString(tview.Escape(s.message))
		sb.WriteString("[-]")
	}
	s.SetText(sb.String())
}

func renderMenuItems(menuItems []MenuItem) string {
	const separator = "┊"
	parts := make([]string, 0, len(menuItems))
	for _, mi := range menuItems {
		title := mi.Title
		for _, key := range mi.HotKeys {
			hotkeyText := fmt.Sprintf("[%s]%s[-]", hotkeyColor, key)
			title = strings.Replace(title, key, hotkeyText, 1)
		}
		parts = append(parts, fmt.Sprintf(`["%s"]%s[""]`, regionID(mi), title))
	}
	return strings.Join(parts, separator)
}

func regionID(mi MenuItem) string {
	if len(mi.HotKeys) == 0 {
		return mi.Title
	}
	switch id := mi.HotKeys[0]; id {
	case "/":
		return "filter"
	default:
		return id
	}
}

func (s *statusBar) highlighted(added, _, _ []string) {
	if len(added) == 0 {
		return
	}
	region := added[0]
	for _, mi := range s.menuItems {
		if regionID(mi) == region && mi.Action != nil {
			mi.Action()
			break
		}
	}
	s.Highlight()
}
