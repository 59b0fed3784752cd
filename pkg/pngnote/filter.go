package pngnote

import (
	"strings"

	"github.com/datatug/pngnote/pkg/files"
	"golang.org/x/text/cases"
)

// bookFilter matches book names case-insensitively, including non-ASCII
// case folding.
type bookFilter struct {
	query string
}

func newBookFilter(query string) bookFilter {
	return bookFilter{query: cases.Fold().String(strings.TrimSpace(query))}
}

func (f bookFilter) IsEmpty() bool {
	return f.query == ""
}

func (f bookFilter) IsVisible(h files.Handle) bool {
	if f.query == "" {
		return true
	}
	return strings.Contains(cases.Fold().String(h.Name), f.query)
}

// matchPrefix returns the candidates starting with text, ignoring case.
func matchPrefix(candidates []string, text string) []string {
	folded := cases.Fold().String(text)
	var result []string
	for _, c := range candidates {
		if strings.HasPrefix(cases.Fold().String(c), folded) {
			result = append(result, c)
		}
	}
	return result
}
