// Package synth renders test frames as a camera sensor would deliver them.
package synth

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/srlehn/rawimg/img"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/pixfmt"
)

// Sensor draws a moving test chart and encodes it into a raw format.
type Sensor struct {
	width, height int
	format        pixfmt.Format
	dc            *gg.Context
	face          font.Face
}

func NewSensor(width, height int, f pixfmt.Format) (*Sensor, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Mark(pixfmt.ErrInvalidDimensions, `%dx%d`, width, height)
	}
	if !f.Valid() {
		return nil, errors.Mark(pixfmt.ErrUnsupportedFormat, `format %d`, uint8(f))
	}
	goFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.New(err)
	}
	face := truetype.NewFace(goFont, &truetype.Options{Size: max(8, float64(height)/12)})
	return &Sensor{
		width:  width,
		height: height,
		format: f,
		dc:     gg.NewContext(width, height),
		face:   face,
	}, nil
}

func (s *Sensor) Close() error {
	if s == nil || s.face == nil {
		return nil
	}
	return s.face.Close()
}

// Chart draws frame n of the test chart: color bars, a gray ramp, a
// circle moving with n and the frame number.
func (s *Sensor) Chart(n int) *image.RGBA {
	dc := s.dc
	w, h := float64(s.width), float64(s.height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	bars := []color.RGBA{
		{0xff, 0xff, 0xff, 0xff}, {0xff, 0xff, 0, 0xff}, {0, 0xff, 0xff, 0xff}, {0, 0xff, 0, 0xff},
		{0xff, 0, 0xff, 0xff}, {0xff, 0, 0, 0xff}, {0, 0, 0xff, 0xff},
	}
	bw := w / float64(len(bars))
	for i, c := range bars {
		dc.SetColor(c)
		dc.DrawRectangle(float64(i)*bw, 0, bw+1, h*2/3)
		dc.Fill()
	}
	for x := 0; x < s.width; x++ {
		v := float64(x) / max(1, w-1)
		dc.SetRGB(v, v, v)
		dc.DrawRectangle(float64(x), h*2/3, 1, h/3)
		dc.Fill()
	}
	phase := float64(n) * 2 * math.Pi / 120
	r := min(w, h) / 8
	dc.SetRGB(0.1, 0.1, 0.1)
	dc.DrawCircle(w/2+math.Cos(phase)*w/3, h/3+math.Sin(phase)*h/6, r)
	dc.Fill()
	dc.SetFontFace(s.face)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(fmt.Sprintf(`frame %d`, n), w/2, h*5/6, 0.5, 0.5)

	m := dc.Image()
	if rgba, ok := m.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	draw.Draw(rgba, rgba.Bounds(), m, m.Bounds().Min, draw.Src)
	return rgba
}

// Frame renders frame n in the sensor format. The returned image owns
// its pixels.
func (s *Sensor) Frame(n int) (*img.Image, error) {
	if s == nil {
		return nil, errors.NilReceiver()
	}
	return Encode(s.Chart(n), s.format)
}

// Encode converts m into format f. Bayer formats sample one channel per
// pixel, high bit depths scale the 8 bit samples up. Yuv formats use
// full range JFIF coefficients.
func Encode(m *image.RGBA, f pixfmt.Format) (*img.Image, error) {
	if m == nil {
		return nil, errors.NilParam()
	}
	b := m.Bounds()
	switch f.Family() {
	case pixfmt.FamilyBayer:
		out, err := img.New(b.Dx(), b.Dy(), f)
		if err != nil {
			return out, err
		}
		mosaic(m, out, f)
		return out, nil
	case pixfmt.FamilyYUV:
		out, err := img.New(b.Dx(), b.Dy(), f)
		if err != nil {
			return out, err
		}
		packYUV(m, out, f)
		return out, nil
	}
	wrapped := img.FromImage(m)
	defer wrapped.Release()
	conv, err := wrapped.ConvertTo(f)
	if err != nil {
		return conv, err
	}
	// the wrapped chart is reused for the next frame
	if conv.Format() == wrapped.Format() {
		defer conv.Release()
		return conv.Clone(), nil
	}
	return conv, nil
}

// cfa names the filter colors of a 2x2 cell row by row,
// 0 red, 1 green, 2 blue.
var cfa = map[pixfmt.Pattern][4]int{
	pixfmt.PatternRGGB: {0, 1, 1, 2},
	pixfmt.PatternGRBG: {1, 0, 2, 1},
	pixfmt.PatternBGGR: {2, 1, 1, 0},
	pixfmt.PatternGBRG: {1, 2, 0, 1},
}

func mosaic(m *image.RGBA, out *img.Image, f pixfmt.Format) {
	cell := cfa[f.BayerPattern()]
	shift := uint(f.BitPlaneCount() - 8)
	wide := f.Depth() == 16
	pix, stride := out.Bytes(), out.Stride()
	b := m.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			p := m.Pix[m.PixOffset(b.Min.X+x, b.Min.Y+y):]
			v := uint16(p[cell[(y&1)*2+(x&1)]])
			if wide {
				binary.NativeEndian.PutUint16(pix[y*stride+2*x:], v<<shift|v>>(8-min(shift, 8)))
				continue
			}
			pix[y*stride+x] = uint8(v)
		}
	}
}

// yuvOrder is the position of Y0, U, Y1, V in a macropixel.
var yuvOrder = map[pixfmt.Format][4]int{
	pixfmt.YUV8UYVY: {1, 0, 3, 2},
	pixfmt.YUV8YUY2: {0, 1, 2, 3},
	pixfmt.YUV8YVYU: {0, 3, 2, 1},
}

func packYUV(m *image.RGBA, out *img.Image, f pixfmt.Format) {
	order := yuvOrder[f]
	pix, stride := out.Bytes(), out.Stride()
	b := m.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := pix[y*stride : y*stride+b.Dx()*2]
		for x := 0; x < b.Dx(); x += 2 {
			c0 := m.RGBAAt(b.Min.X+x, b.Min.Y+y)
			c1 := c0
			if x+1 < b.Dx() {
				c1 = m.RGBAAt(b.Min.X+x+1, b.Min.Y+y)
			}
			y0, cb0, cr0 := color.RGBToYCbCr(c0.R, c0.G, c0.B)
			y1, cb1, cr1 := color.RGBToYCbCr(c1.R, c1.G, c1.B)
			mp := row[x*2:]
			// the last macropixel of an odd width row is cut after 2 bytes
			for i, v := range [4]uint8{
				y0,
				uint8((uint16(cb0) + uint16(cb1) + 1) / 2),
				y1,
				uint8((uint16(cr0) + uint16(cr1) + 1) / 2),
			} {
				if order[i] < len(mp) {
					mp[order[i]] = v
				}
			}
		}
	}
}
