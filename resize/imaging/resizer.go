package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/srlehn/rawimg/paint"
)

// Resizer uses "github.com/disintegration/imaging"
type Resizer struct {
	// Filter defaults to imaging.Lanczos.
	Filter *imaging.ResampleFilter
}

var _ paint.Resizer = (*Resizer)(nil)

func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	filter := imaging.Lanczos
	if r != nil && r.Filter != nil {
		filter = *r.Filter
	}
	return imaging.Resize(img, size.X, size.Y, filter), nil
}
