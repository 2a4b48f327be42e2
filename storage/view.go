package storage

import (
	"image"
	"image/color"

	"github.com/srlehn/rawimg/pixfmt"
)

// View is an image.Image over packed rgb family bytes that have no
// image package equivalent (rgb24, bgr24, bgra32, argb32, abgr32).
// Pixels with an alpha channel are not premultiplied.
type View struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
	Format pixfmt.Format

	// exported root view, keeps its finalizer from running while a
	// sub-image is in use
	root *View
}

var _ interface {
	image.Image
	Set(x, y int, c color.Color)
} = (*View)(nil)

// NewView allocates a View of the given packed format.
// It returns nil for formats outside the rgb family.
func NewView(r image.Rectangle, f pixfmt.Format) *View {
	o, ok := f.Offsets()
	if !ok || f.Family() != pixfmt.FamilyRGB {
		return nil
	}
	r = r.Canon()
	stride := r.Dx() * o.BytesPerPixel
	return &View{
		Pix:    make([]uint8, stride*r.Dy()),
		Stride: stride,
		Rect:   r,
		Format: f,
	}
}

func (v *View) ColorModel() color.Model { return color.NRGBAModel }

func (v *View) Bounds() image.Rectangle { return v.Rect }

func (v *View) PixOffset(x, y int) int {
	o, _ := v.Format.Offsets()
	return (y-v.Rect.Min.Y)*v.Stride + (x-v.Rect.Min.X)*o.BytesPerPixel
}

func (v *View) At(x, y int) color.Color { return v.NRGBAAt(x, y) }

func (v *View) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(v.Rect)) {
		return color.NRGBA{}
	}
	o, _ := v.Format.Offsets()
	p := v.Pix[v.PixOffset(x, y):]
	c := color.NRGBA{R: p[o.R], G: p[o.G], B: p[o.B], A: 0xff}
	if o.A >= 0 {
		c.A = p[o.A]
	}
	return c
}

func (v *View) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(v.Rect)) {
		return
	}
	o, _ := v.Format.Offsets()
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	p := v.Pix[v.PixOffset(x, y):]
	p[o.R], p[o.G], p[o.B] = n.R, n.G, n.B
	if o.A >= 0 {
		p[o.A] = n.A
	}
}

// SubImage shares the pixels of v within r. The sub-image keeps an
// exported view, and with it the backend, alive.
func (v *View) SubImage(r image.Rectangle) image.Image {
	root := v.root
	if root == nil {
		root = v
	}
	r = r.Intersect(v.Rect)
	if r.Empty() {
		return &View{Format: v.Format, root: root}
	}
	return &View{
		Pix:    v.Pix[v.PixOffset(r.Min.X, r.Min.Y):],
		Stride: v.Stride,
		Rect:   r,
		Format: v.Format,
		root:   root,
	}
}

// newView exposes pix as the closest image.Image type for f,
// nil if there is none.
func newView(pix []byte, stride int, r image.Rectangle, f pixfmt.Format) image.Image {
	if len(pix) == 0 || r.Empty() {
		return nil
	}
	switch f {
	case pixfmt.RGBA32:
		return &image.NRGBA{Pix: pix, Stride: stride, Rect: r}
	case pixfmt.Grayscale8:
		return &image.Gray{Pix: pix, Stride: stride, Rect: r}
	}
	if f.Family() != pixfmt.FamilyRGB {
		return nil
	}
	return &View{Pix: pix, Stride: stride, Rect: r, Format: f}
}
