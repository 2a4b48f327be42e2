package rez

import (
	"image"
	"image/draw"

	"github.com/bamiaux/rez"

	"github.com/srlehn/rawimg/paint"
)

// Resizer uses "github.com/bamiaux/rez"
type Resizer struct{}

var _ paint.Resizer = (*Resizer)(nil)

// Resize keeps the type of *image.RGBA, *image.NRGBA, *image.Gray and
// *image.YCbCr sources, other sources are copied to NRGBA first.
func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	rect := image.Rect(0, 0, size.X, size.Y)
	var dst image.Image
	switch it := img.(type) {
	case *image.RGBA:
		dst = image.NewRGBA(rect)
	case *image.NRGBA:
		dst = image.NewNRGBA(rect)
	case *image.Gray:
		dst = image.NewGray(rect)
	case *image.YCbCr:
		dst = image.NewYCbCr(rect, it.SubsampleRatio)
	default:
		b := img.Bounds()
		src := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
		img, dst = src, image.NewNRGBA(rect)
	}
	if err := rez.Convert(dst, img, rez.NewBilinearFilter()); err != nil {
		return nil, err
	}
	return dst, nil
}
