package book

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	// DefaultBackgroundName is the book-wide background template.
	DefaultBackgroundName = "0000-bg.png"
	// LegacyBackgroundName is the last resort of the fallback chain.
	LegacyBackgroundName = "background.png"
	// FirstPageName is the cover page shown in the book list.
	FirstPageName = "0000.png"
)

// ex. 0009.png
var pageNamePattern = regexp.MustCompile(`^([0-9]{4})\.png$`)

func PageFileName(idx int) string {
	return fmt.Sprintf("%04d.png", idx)
}

func BackgroundFileName(idx int) string {
	return fmt.Sprintf("%04d-bg.png", idx)
}

// ParsePageIndex returns the page index encoded in a page file name.
func ParsePageIndex(name string) (int, bool) {
	m := pageNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	idx, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return idx, true
}
