// Seam Carving for Content-Aware Image Resizing
package caire

import (
	"image"
	"image/draw"

	"github.com/esimov/caire"

	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/paint"
)

// Resizer uses "github.com/esimov/caire". It removes or inserts
// low energy seams instead of resampling, so it is slow and meant for
// still frames.
type Resizer struct{}

var _ paint.Resizer = (*Resizer)(nil)

func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	if img == nil {
		return nil, errors.NilParam()
	}
	p := &caire.Processor{
		BlurRadius:     1,
		SobelThreshold: 4,
		NewWidth:       size.X,
		NewHeight:      size.Y,
	}
	nimg, ok := img.(*image.NRGBA)
	if !ok {
		b := img.Bounds()
		nimg = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nimg, nimg.Bounds(), img, b.Min, draw.Src)
	}
	m, err := p.Resize(nimg)
	if err != nil {
		return nil, errors.New(err)
	}
	return m, nil
}
