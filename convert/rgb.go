package convert

// permute reorders the channels of rgb family and grayscale sources.
// Sources without alpha are opaque, grayscale is replicated into r, g, b.
func permute(src, dst *Plane, y0, y1 int) {
	o, _ := src.Format.Offsets()
	bpp := o.BytesPerPixel
	put := newWriter(dst.Format)
	for y := y0; y < y1; y++ {
		srow, drow := src.row(y), dst.row(y)
		for x := 0; x < src.Width; x++ {
			p := srow[x*bpp : x*bpp+bpp]
			a := uint8(0xff)
			if o.A >= 0 {
				a = p[o.A]
			}
			put(drow, x, p[o.R], p[o.G], p[o.B], a)
		}
	}
}
