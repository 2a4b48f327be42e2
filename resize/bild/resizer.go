package bild

import (
	"image"

	"github.com/anthonynsimon/bild/transform"

	"github.com/srlehn/rawimg/paint"
)

// Resizer uses "github.com/anthonynsimon/bild/transform"
type Resizer struct{}

var _ paint.Resizer = (*Resizer)(nil)

func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	return transform.Resize(img, size.X, size.Y, transform.Lanczos), nil
}
