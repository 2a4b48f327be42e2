package convert

import (
	"encoding/binary"

	"github.com/srlehn/rawimg/pixfmt"
)

type cfaColor uint8

const (
	cfaR cfaColor = iota
	cfaG
	cfaB
)

// cells lists the filter color of the 2x2 cell, indexed [y&1][x&1].
var cells = map[pixfmt.Pattern][2][2]cfaColor{
	pixfmt.PatternRGGB: {{cfaR, cfaG}, {cfaG, cfaB}},
	pixfmt.PatternGRBG: {{cfaG, cfaR}, {cfaB, cfaG}},
	pixfmt.PatternBGGR: {{cfaB, cfaG}, {cfaG, cfaR}},
	pixfmt.PatternGBRG: {{cfaG, cfaB}, {cfaR, cfaG}},
}

// demosaic interpolates bayer mosaics bilinearly: a missing color is the
// mean of the in-bounds 3x3 neighbours carrying it. Samples are scaled to
// 8 bits by dropping the low BitPlaneCount-8 bits.
func demosaic(src, dst *Plane, y0, y1 int) {
	cell := cells[src.Format.BayerPattern()]
	shift := uint(src.Format.BitPlaneCount() - 8)
	wide := src.Format.Depth() == 16
	sample := func(x, y int) uint32 {
		row := src.Pix[y*src.Stride:]
		if wide {
			return uint32(binary.NativeEndian.Uint16(row[2*x:]))
		}
		return uint32(row[x])
	}
	put := newWriter(dst.Format)
	w, h := src.Width, src.Height
	for y := y0; y < y1; y++ {
		drow := dst.row(y)
		for x := 0; x < w; x++ {
			var sum, cnt [3]uint32
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					c := cell[yy&1][xx&1]
					if (dx != 0 || dy != 0) && c == cell[y&1][x&1] {
						continue
					}
					sum[c] += sample(xx, yy)
					cnt[c]++
				}
			}
			var rgb [3]uint8
			for c := range rgb {
				if cnt[c] == 0 {
					continue
				}
				rgb[c] = clamp8((sum[c] / cnt[c]) >> shift)
			}
			put(drow, x, rgb[cfaR], rgb[cfaG], rgb[cfaB], 0xff)
		}
	}
}

func clamp8(v uint32) uint8 {
	if v > 0xff {
		return 0xff
	}
	return uint8(v)
}
