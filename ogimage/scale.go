package ogimage

import (
	"image"

	"golang.org/x/image/draw"
)

// MinThumbnailWidth is the narrowest thumbnail served.
const MinThumbnailWidth = 120

// Thumbnail scales img down to width, keeping its aspect ratio. Images no
// wider than width are returned as is.
func Thumbnail(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() <= width {
		return img
	}
	h := b.Dy() * width / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, width, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
