package img

import (
	"golang.org/x/sys/cpu"

	"github.com/srlehn/rawimg/convert"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/pixfmt"
)

// PaintableFormat is the 32 bit format whose bytes read as 0xAARRGGBB
// words on this host: ARGB32 on big endian, BGRA32 on little endian.
func PaintableFormat() pixfmt.Format {
	if cpu.IsBigEndian {
		return pixfmt.ARGB32
	}
	return pixfmt.BGRA32
}

func (m *Image) plane() *convert.Plane {
	return &convert.Plane{
		Pix:    m.Bytes(),
		Width:  m.Width(),
		Height: m.Height(),
		Stride: m.Stride(),
		Format: m.Format(),
	}
}

// ConvertTo returns m converted to format f. A null image or an image
// already in format f is shared instead of copied.
// On failure the null image is returned with an error matching
// convert.ErrConversionUnavailable or convert.ErrConversionBackend.
func (m *Image) ConvertTo(f pixfmt.Format) (*Image, error) {
	if m.IsNull() || m.Format() == f {
		return m.Share(), nil
	}
	fn := convert.Lookup(f)
	if fn == nil {
		return &Image{}, errors.Mark(convert.ErrConversionUnavailable, `%s -> %s`, m.Format(), f)
	}
	dst, err := New(m.Width(), m.Height(), f)
	if err != nil {
		return &Image{}, errors.Mark(convert.ErrConversionUnavailable, `%s -> %s: %v`, m.Format(), f, err)
	}
	dp := dst.plane()
	if err := fn(m.plane(), dp); err != nil {
		dst.Release()
		return &Image{}, errors.New(err)
	}
	if out := dst.Bytes(); len(dp.Pix) == 0 || len(out) == 0 || &dp.Pix[0] != &out[0] {
		dst.Release()
		return &Image{}, errors.Mark(convert.ErrConversionBackend, `%s -> %s wrote outside of the destination`, m.Format(), f)
	}
	return dst, nil
}

// MakePaintable converts m to PaintableFormat.
func (m *Image) MakePaintable() (*Image, error) { return m.ConvertTo(PaintableFormat()) }
