// Package convert converts pixel planes between formats.
//
// Conversions are looked up by destination format only. Every
// destination accepts every valid source format: bayer sources are
// demosaiced, yuv sources decoded, rgb and grayscale sources permuted.
package convert

import (
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/srlehn/rawimg/internal/consts"
	errorsx "github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/pixfmt"
)

var (
	ErrConversionUnavailable = errors.New(`conversion unavailable`)
	ErrConversionBackend     = errors.New(`conversion backend failure`)
)

// Plane is a view of pixel bytes in one format.
type Plane struct {
	Pix           []byte
	Width, Height int
	Stride        int
	Format        pixfmt.Format
}

// rowBytes is the length of the used part of a row.
func (p *Plane) rowBytes() int { return p.Width * (p.Format.Depth() >> 3) }

func (p *Plane) row(y int) []byte {
	i := y * p.Stride
	return p.Pix[i : i+p.rowBytes()]
}

func (p *Plane) check() error {
	if p == nil {
		return errorsx.NilParam()
	}
	if !p.Format.Valid() {
		return errorsx.Mark(ErrConversionUnavailable, `format %s`, p.Format)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return errorsx.Mark(ErrConversionUnavailable, `empty %dx%d plane`, p.Width, p.Height)
	}
	rb := p.rowBytes()
	if p.Stride < rb {
		return errorsx.Mark(ErrConversionUnavailable, `stride %d below row size %d`, p.Stride, rb)
	}
	if need := (p.Height-1)*p.Stride + rb; len(p.Pix) < need {
		return errorsx.Mark(ErrConversionUnavailable, `%d bytes for %dx%d %s, need %d`,
			len(p.Pix), p.Width, p.Height, p.Format, need)
	}
	return nil
}

// Func converts src into dst. Both planes must have the same dimensions.
type Func func(src, dst *Plane) error

var dispatch = map[pixfmt.Format]Func{
	pixfmt.RGB24:      convertPacked,
	pixfmt.BGR24:      convertPacked,
	pixfmt.RGBA32:     convertPacked,
	pixfmt.BGRA32:     convertPacked,
	pixfmt.ARGB32:     convertPacked,
	pixfmt.ABGR32:     convertPacked,
	pixfmt.Grayscale8: convertPacked,
}

// Lookup returns the conversion into dst, nil if dst is not a supported
// destination (bayer and yuv formats are source only).
func Lookup(dst pixfmt.Format) Func { return dispatch[dst] }

// Convert converts src into dst using the conversion registered for
// dst.Format.
func Convert(src, dst *Plane) error {
	if dst == nil {
		return errorsx.NilParam()
	}
	fn := Lookup(dst.Format)
	if fn == nil {
		return errorsx.Mark(ErrConversionUnavailable, `no conversion into %s`, dst.Format)
	}
	return fn(src, dst)
}

// kernel converts rows [y0, y1) of src into dst.
type kernel func(src, dst *Plane, y0, y1 int)

func convertPacked(src, dst *Plane) error {
	if err := src.check(); err != nil {
		return err
	}
	if err := dst.check(); err != nil {
		return err
	}
	if src.Width != dst.Width || src.Height != dst.Height {
		return errorsx.Mark(ErrConversionUnavailable, `size mismatch %dx%d -> %dx%d`,
			src.Width, src.Height, dst.Width, dst.Height)
	}
	var k kernel
	switch {
	case src.Format == dst.Format:
		k = copyRows
	case src.Format.Family() == pixfmt.FamilyBayer:
		k = demosaic
	case src.Format.Family() == pixfmt.FamilyYUV:
		k = decodeYUV
	case src.Format.Family() == pixfmt.FamilyRGB, src.Format.Family() == pixfmt.FamilyGray:
		k = permute
	default:
		return errorsx.Mark(ErrConversionUnavailable, `%s -> %s`, src.Format, dst.Format)
	}
	return runBands(k, src, dst)
}

// runBands splits large planes into horizontal bands converted
// concurrently. Kernels only write the rows of their own band.
func runBands(k kernel, src, dst *Plane) error {
	h := src.Height
	bands := 1
	if src.Width*h >= consts.ParallelPixels {
		bands = min(runtime.GOMAXPROCS(0), h)
	}
	if bands <= 1 {
		return runBand(k, src, dst, 0, h)
	}
	step := (h + bands - 1) / bands
	var g errgroup.Group
	for y0 := 0; y0 < h; y0 += step {
		y1 := min(y0+step, h)
		g.Go(func() error { return runBand(k, src, dst, y0, y1) })
	}
	return g.Wait()
}

func runBand(k kernel, src, dst *Plane, y0, y1 int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errorsx.Recovered(ErrConversionBackend, r)
		}
	}()
	k(src, dst, y0, y1)
	return nil
}

func copyRows(src, dst *Plane, y0, y1 int) {
	for y := y0; y < y1; y++ {
		copy(dst.row(y), src.row(y))
	}
}

// writer stores 8 bit r, g, b, a into pixel x of a destination row.
type writer func(row []byte, x int, r, g, b, a uint8)

func newWriter(f pixfmt.Format) writer {
	o, _ := f.Offsets()
	if f.Family() == pixfmt.FamilyGray {
		return func(row []byte, x int, r, g, b, _ uint8) { row[x] = luma(r, g, b) }
	}
	bpp := o.BytesPerPixel
	if o.A < 0 {
		return func(row []byte, x int, r, g, b, _ uint8) {
			p := row[x*bpp : x*bpp+bpp]
			p[o.R], p[o.G], p[o.B] = r, g, b
		}
	}
	return func(row []byte, x int, r, g, b, a uint8) {
		p := row[x*bpp : x*bpp+bpp]
		p[o.R], p[o.G], p[o.B], p[o.A] = r, g, b, a
	}
}

// luma uses the weights of color.GrayModel.
func luma(r, g, b uint8) uint8 {
	y := (19595*uint32(r) + 38470*uint32(g) + 7471*uint32(b) + 1<<15) >> 16
	return uint8(y)
}
