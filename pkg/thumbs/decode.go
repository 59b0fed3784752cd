package thumbs

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decode reads an image and shrinks it by an integer sample factor. Factors
// below 2 keep the native resolution.
func Decode(r io.Reader, sampleSize int) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if sampleSize < 2 {
		return img, nil
	}
	b := img.Bounds()
	w := max(b.Dx()/sampleSize, 1)
	h := max(b.Dy()/sampleSize, 1)
	return resize.Resize(uint(w), uint(h), img, resize.NearestNeighbor), nil
}
