package thumbs

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

type BlendMode int

const (
	SourceOver BlendMode = iota
	Multiply
)

func (m BlendMode) String() string {
	switch m {
	case Multiply:
		return "multiply"
	default:
		return "source-over"
	}
}

// SelectBlend picks multiply when ink is drawn over a background template.
func SelectBlend(hasBackground bool) BlendMode {
	if hasBackground {
		return Multiply
	}
	return SourceOver
}

// multiplyOver blends src onto dst in place using the premultiplied multiply
// formula:
//
//	co = cs*cb + cs*(1-ab) + cb*(1-as)
//	ao = as + ab - as*ab
func multiplyOver(dst *image.RGBA, src image.Image) {
	b := dst.Bounds().Intersect(src.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s := color.RGBAModel.Convert(src.At(x, y)).(color.RGBA)
			i := dst.PixOffset(x, y)
			d := dst.Pix[i : i+4 : i+4]
			sa, da := uint32(s.A), uint32(d[3])
			d[0] = multiplyChannel(uint32(s.R), uint32(d[0]), sa, da)
			d[1] = multiplyChannel(uint32(s.G), uint32(d[1]), sa, da)
			d[2] = multiplyChannel(uint32(s.B), uint32(d[2]), sa, da)
			d[3] = uint8(sa + da - (sa*da+127)/255)
		}
	}
}

func multiplyChannel(cs, cb, as, ab uint32) uint8 {
	v := (cs*cb + cs*(255-ab) + cb*(255-as) + 127) / 255
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func blend(dst *image.RGBA, src image.Image, mode BlendMode) {
	switch mode {
	case Multiply:
		multiplyOver(dst, src)
	default:
		xdraw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, xdraw.Over)
	}
}
