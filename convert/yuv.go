package convert

import (
	"image/color"

	"github.com/srlehn/rawimg/pixfmt"
)

// macropixel holds the byte positions of Y0, U, Y1, V within the
// 4 bytes shared by two horizontally adjacent pixels.
type macropixel struct{ y0, u, y1, v int }

var macropixels = map[pixfmt.Format]macropixel{
	pixfmt.YUV8UYVY: {y0: 1, u: 0, y1: 3, v: 2},
	pixfmt.YUV8YUY2: {y0: 0, u: 1, y1: 2, v: 3},
	pixfmt.YUV8YVYU: {y0: 0, u: 3, y1: 2, v: 1},
}

// decodeYUV converts packed 4:2:2 yuv. A trailing pixel of an odd width
// row has no chroma pair and is decoded with neutral chroma.
func decodeYUV(src, dst *Plane, y0, y1 int) {
	mp := macropixels[src.Format]
	put := newWriter(dst.Format)
	gray := dst.Format.Family() == pixfmt.FamilyGray
	for y := y0; y < y1; y++ {
		srow, drow := src.row(y), dst.row(y)
		at := func(i int) uint8 {
			if i < len(srow) {
				return srow[i]
			}
			return 0x80
		}
		for x := 0; x < src.Width; x++ {
			base := (x &^ 1) * 2
			lum := mp.y0
			if x&1 == 1 {
				lum = mp.y1
			}
			yy := at(base + lum)
			if gray {
				drow[x] = yy
				continue
			}
			r, g, b := color.YCbCrToRGB(yy, at(base+mp.u), at(base+mp.v))
			put(drow, x, r, g, b, 0xff)
		}
	}
}
