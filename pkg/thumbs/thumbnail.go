package thumbs

import (
	"image"

	"github.com/datatug/pngnote/pkg/outcome"
)

// Thumbnail holds the decoded parts of a preview. Either part may be missing.
type Thumbnail struct {
	Foreground outcome.Outcome[image.Image]
	Background outcome.Outcome[image.Image]
}

// Render composites the thumbnail at the configured size. Missing parts are
// replaced by blank images: white paper for the page and light gray for the
// background.
func (t Thumbnail) Render(cfg Config) *image.RGBA {
	size := cfg.Size()
	fg, ok := t.Foreground.Value()
	if !ok || fg == nil {
		fg = Blank(BlankForegroundColor, size)
	}
	bg, ok := t.Background.Value()
	if !ok || bg == nil {
		bg = Blank(BlankBackgroundColor, size)
	}
	return Composite(fg, bg, size)
}

// Loaded reports whether at least one part was decoded.
func (t Thumbnail) Loaded() bool {
	return t.Foreground.IsSuccess() || t.Background.IsSuccess()
}
