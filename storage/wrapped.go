package storage

import (
	"image"

	"github.com/srlehn/rawimg/pixfmt"
)

// Wrapped uses the pixels of a foreign image in place.
type Wrapped struct {
	geometry
	img image.Image
	pix []byte
}

// WrappedFormat is the format a foreign image can be wrapped as,
// Invalid if it must be converted first.
func WrappedFormat(m image.Image) pixfmt.Format {
	switch mt := m.(type) {
	case *image.RGBA, *image.NRGBA:
		return pixfmt.RGBA32
	case *image.Gray:
		return pixfmt.Grayscale8
	case *View:
		if mt != nil && mt.Format.Family() == pixfmt.FamilyRGB {
			return mt.Format
		}
	}
	return pixfmt.Invalid
}

// NewWrapped wraps m without copying.
// It returns nil when m has no matching format or is empty.
func NewWrapped(m image.Image) *Wrapped {
	f := WrappedFormat(m)
	if f == pixfmt.Invalid {
		return nil
	}
	var (
		pix    []byte
		stride int
		r      image.Rectangle
	)
	switch mt := m.(type) {
	case *image.RGBA:
		if mt == nil {
			return nil
		}
		r, stride = mt.Rect, mt.Stride
		pix = mt.Pix[min(mt.PixOffset(r.Min.X, r.Min.Y), len(mt.Pix)):]
	case *image.NRGBA:
		if mt == nil {
			return nil
		}
		r, stride = mt.Rect, mt.Stride
		pix = mt.Pix[min(mt.PixOffset(r.Min.X, r.Min.Y), len(mt.Pix)):]
	case *image.Gray:
		if mt == nil {
			return nil
		}
		r, stride = mt.Rect, mt.Stride
		pix = mt.Pix[min(mt.PixOffset(r.Min.X, r.Min.Y), len(mt.Pix)):]
	case *View:
		r, stride = mt.Rect, mt.Stride
		pix = mt.Pix[min(mt.PixOffset(r.Min.X, r.Min.Y), len(mt.Pix)):]
	}
	if r.Empty() {
		return nil
	}
	l, err := pixfmt.ComputeLayout(r.Dx(), r.Dy(), f, stride)
	if err != nil {
		return nil
	}
	// the last row of a sub image may end before the full stride
	minLen := (r.Dy()-1)*l.Stride + r.Dx()*(l.Depth>>3)
	if len(pix) < minLen {
		return nil
	}
	pix = pix[:min(len(pix), l.TotalBytes)]
	return &Wrapped{
		geometry: geometry{width: r.Dx(), height: r.Dy(), format: f, layout: l},
		img:      m,
		pix:      pix,
	}
}

func (w *Wrapped) Bytes() []byte { return w.pix }

// Image is the wrapped foreign image.
func (w *Wrapped) Image() image.Image { return w.img }

func (w *Wrapped) foreign() (image.Image, bool) { return w.img, false }

func (w *Wrapped) free() { w.img, w.pix = nil, nil }
