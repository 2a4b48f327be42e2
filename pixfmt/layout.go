package pixfmt

import (
	"errors"

	errorsx "github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/internal/util"
)

var (
	ErrInvalidDimensions = errors.New(`image width or height is negative`)
	ErrUnsupportedFormat = errors.New(`unsupported image format`)
	ErrStrideTooSmall    = errors.New(`bytes per line is too small`)
	ErrSizeOverflow      = errors.New(`image size overflows`)
)

// Layout describes how the bytes of a buffer are arranged.
// The zero Layout belongs to an empty image.
type Layout struct {
	TotalBytes    int
	Depth         int
	BitPlaneCount int
	Stride        int
	Continuous    bool
}

// IsEmpty reports whether the layout holds no bytes.
func (l Layout) IsEmpty() bool { return l.TotalBytes == 0 }

// MinStride is the row size in bytes of an unpadded row.
func MinStride(width int, f Format) (int, error) {
	if width < 0 {
		return 0, errorsx.Mark(ErrInvalidDimensions, `width %d`, width)
	}
	stride, ok := util.MulInt(width, f.Depth()>>3)
	if !ok {
		return 0, errorsx.Mark(ErrSizeOverflow, `row of %d pixels in %s`, width, f)
	}
	return stride, nil
}

// ComputeLayout derives stride and size of a width x height buffer of
// format f. A stride <= 0 selects the unpadded stride.
//
// Zero width or height and the Invalid format yield an empty Layout
// without error.
func ComputeLayout(width, height int, f Format, stride int) (Layout, error) {
	if width < 0 || height < 0 {
		return Layout{}, errorsx.Mark(ErrInvalidDimensions, `%dx%d`, width, height)
	}
	if width == 0 || height == 0 || f == Invalid {
		return Layout{Continuous: true}, nil
	}
	depth, bpc := f.Depth(), f.BitPlaneCount()
	if depth == 0 || bpc == 0 {
		return Layout{}, errorsx.Mark(ErrUnsupportedFormat, `format %d`, uint8(f))
	}
	minStride, err := MinStride(width, f)
	if err != nil {
		return Layout{}, err
	}
	if stride > 0 && stride < minStride {
		return Layout{}, errorsx.Mark(ErrStrideTooSmall, `%d < %d`, stride, minStride)
	}
	continuous := stride <= 0 || stride == minStride
	stride = max(stride, minStride)
	total, ok := util.MulInt(height, stride)
	if !ok {
		return Layout{}, errorsx.Mark(ErrSizeOverflow, `%d rows of %d bytes`, height, stride)
	}
	return Layout{
		TotalBytes:    total,
		Depth:         depth,
		BitPlaneCount: bpc,
		Stride:        stride,
		Continuous:    continuous,
	}, nil
}
