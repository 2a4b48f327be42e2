// Package xdraw provides a resizer implementation using golang.org/x/image/draw.
// ApproxBiLinear is recommended for balanced speed/quality scaling.
package xdraw

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/srlehn/rawimg/paint"
)

type resizer struct {
	scaler draw.Scaler
}

var _ paint.Resizer = (*resizer)(nil)

// ApproxBiLinear is fast with acceptable quality, suited for video.
func ApproxBiLinear() paint.Resizer { return &resizer{scaler: draw.ApproxBiLinear} }

func BiLinear() paint.Resizer { return &resizer{scaler: draw.BiLinear} }

// CatmullRom has the highest quality and is the slowest.
func CatmullRom() paint.Resizer { return &resizer{scaler: draw.CatmullRom} }

// NearestNeighbor keeps the sensor pixels visible when zooming in.
func NearestNeighbor() paint.Resizer { return &resizer{scaler: draw.NearestNeighbor} }

func (r *resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	r.scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}
