package gift

import (
	"image"

	"github.com/disintegration/gift"

	"github.com/srlehn/rawimg/paint"
)

// Resizer uses "github.com/disintegration/gift"
type Resizer struct{}

var _ paint.Resizer = (*Resizer)(nil)

func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	g := gift.New(gift.Resize(size.X, size.Y, gift.LanczosResampling))
	g.SetParallelization(true)
	m := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(m, img)
	return m, nil
}
