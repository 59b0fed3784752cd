package thumbs

import "image"

const (
	DefaultWidth  = 100
	DefaultHeight = 100

	// BookSampleSize is the decode downsampling factor for book covers.
	BookSampleSize = 3
	// PageSampleSize is the decode downsampling factor for the page grid.
	PageSampleSize = 4
)

type Config struct {
	Width  int `yaml:"width,omitempty"`
	Height int `yaml:"height,omitempty"`
}

func DefaultConfig() Config {
	return Config{Width: DefaultWidth, Height: DefaultHeight}
}

// Size returns the target rectangle size, substituting defaults for
// non-positive values.
func (c Config) Size() image.Point {
	p := image.Pt(c.Width, c.Height)
	if p.X <= 0 {
		p.X = DefaultWidth
	}
	if p.Y <= 0 {
		p.Y = DefaultHeight
	}
	return p
}
