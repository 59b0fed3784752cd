package thumbs

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

var (
	BlankForegroundColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	BlankBackgroundColor = color.RGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff}
)

// Composite draws bg stretched to size, then fg stretched to size on top of
// it. With a background the foreground is multiplied, otherwise it is drawn
// source-over. A nil fg leaves only the background.
func Composite(fg, bg image.Image, size image.Point) *image.RGBA {
	rect := image.Rect(0, 0, size.X, size.Y)
	dst := image.NewRGBA(rect)
	if bg != nil {
		xdraw.ApproxBiLinear.Scale(dst, rect, bg, bg.Bounds(), xdraw.Src, nil)
	}
	if fg == nil {
		return dst
	}
	scaled := image.NewRGBA(rect)
	xdraw.ApproxBiLinear.Scale(scaled, rect, fg, fg.Bounds(), xdraw.Src, nil)
	blend(dst, scaled, SelectBlend(bg != nil))
	return dst
}

func Blank(c color.Color, size image.Point) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	return img
}
