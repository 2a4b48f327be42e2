package convert_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/rawimg/convert"
	"github.com/srlehn/rawimg/pixfmt"
)

func plane(w, h int, f pixfmt.Format, pix []byte) *convert.Plane {
	stride := w * (f.Depth() >> 3)
	if pix == nil {
		pix = make([]byte, stride*h)
	}
	return &convert.Plane{Pix: pix, Width: w, Height: h, Stride: stride, Format: f}
}

func TestLookup(t *testing.T) {
	for _, f := range pixfmt.Formats() {
		switch f.Family() {
		case pixfmt.FamilyRGB, pixfmt.FamilyGray:
			assert.NotNil(t, convert.Lookup(f), f.String())
		default:
			assert.Nil(t, convert.Lookup(f), f.String())
		}
	}
	assert.Nil(t, convert.Lookup(pixfmt.Invalid))

	err := convert.Convert(plane(2, 2, pixfmt.RGB24, nil), plane(2, 2, pixfmt.YUV8UYVY, nil))
	assert.True(t, errors.Is(err, convert.ErrConversionUnavailable))
}

func TestRGBRoundTrip(t *testing.T) {
	const w, h = 5, 3
	src := plane(w, h, pixfmt.RGB24, nil)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}
	rgba := plane(w, h, pixfmt.RGBA32, nil)
	require.NoError(t, convert.Convert(src, rgba))
	for i := 0; i < w*h; i++ {
		assert.Equal(t, src.Pix[i*3:i*3+3], rgba.Pix[i*4:i*4+3])
		assert.Equal(t, uint8(0xff), rgba.Pix[i*4+3])
	}
	back := plane(w, h, pixfmt.RGB24, nil)
	require.NoError(t, convert.Convert(rgba, back))
	assert.Equal(t, src.Pix, back.Pix)
}

func TestPermute(t *testing.T) {
	src := plane(1, 1, pixfmt.ARGB32, []byte{4, 1, 2, 3})
	tests := []struct {
		f    pixfmt.Format
		want []byte
	}{
		{pixfmt.RGB24, []byte{1, 2, 3}},
		{pixfmt.BGR24, []byte{3, 2, 1}},
		{pixfmt.RGBA32, []byte{1, 2, 3, 4}},
		{pixfmt.BGRA32, []byte{3, 2, 1, 4}},
		{pixfmt.ABGR32, []byte{4, 3, 2, 1}},
		{pixfmt.ARGB32, []byte{4, 1, 2, 3}},
	}
	for _, tt := range tests {
		dst := plane(1, 1, tt.f, nil)
		require.NoError(t, convert.Convert(src, dst))
		assert.Equal(t, tt.want, dst.Pix, tt.f.String())
	}

	gray := plane(1, 1, pixfmt.Grayscale8, []byte{77})
	dst := plane(1, 1, pixfmt.BGRA32, nil)
	require.NoError(t, convert.Convert(gray, dst))
	assert.Equal(t, []byte{77, 77, 77, 255}, dst.Pix)
}

func TestToGray(t *testing.T) {
	const w, h = 4, 3
	src := plane(w, h, pixfmt.ARGB32, nil)
	for i := 0; i < w*h; i++ {
		copy(src.Pix[i*4:], []byte{0xff, 0xff, 0, 0})
	}
	dst := plane(w, h, pixfmt.Grayscale8, nil)
	require.NoError(t, convert.Convert(src, dst))
	assert.Len(t, dst.Pix, w*h)
	for _, v := range dst.Pix {
		// pure red: (19595*255 + 1<<15) >> 16
		assert.Equal(t, uint8(76), v)
	}
}

func TestSameFormatStride(t *testing.T) {
	src := &convert.Plane{
		Pix:    []byte{1, 2, 0xee, 0xee, 3, 4, 0xee, 0xee},
		Width:  2,
		Height: 2,
		Stride: 4,
		Format: pixfmt.Grayscale8,
	}
	dst := plane(2, 2, pixfmt.Grayscale8, nil)
	require.NoError(t, convert.Convert(src, dst))
	assert.Equal(t, []byte{1, 2, 3, 4}, dst.Pix)
}

func TestBayerUniform(t *testing.T) {
	type rgb struct{ r, g, b uint8 }
	colors := map[byte]uint8{'R': 10, 'G': 20, 'B': 30}
	tests := []struct {
		f      pixfmt.Format
		layout string
	}{
		{pixfmt.Bayer8RGGB, `RGGB`},
		{pixfmt.Bayer8GRBG, `GRBG`},
		{pixfmt.Bayer8BGGR, `BGGR`},
		{pixfmt.Bayer8GBRG, `GBRG`},
	}
	const w, h = 6, 4
	for _, tt := range tests {
		src := plane(w, h, tt.f, nil)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				src.Pix[y*w+x] = colors[tt.layout[(y&1)*2+(x&1)]]
			}
		}
		dst := plane(w, h, pixfmt.RGB24, nil)
		require.NoError(t, convert.Convert(src, dst))
		for i := 0; i < w*h; i++ {
			got := rgb{dst.Pix[i*3], dst.Pix[i*3+1], dst.Pix[i*3+2]}
			assert.Equal(t, rgb{10, 20, 30}, got, `%s pixel %d`, tt.f, i)
		}
	}
}

func TestBayerHighBitDepth(t *testing.T) {
	const w, h = 4, 4
	fill := func(f pixfmt.Format, v uint16) *convert.Plane {
		p := plane(w, h, f, nil)
		for i := 0; i < w*h; i++ {
			binary.NativeEndian.PutUint16(p.Pix[i*2:], v)
		}
		return p
	}
	dst := plane(w, h, pixfmt.BGRA32, nil)
	require.NoError(t, convert.Convert(fill(pixfmt.Bayer16GBRG, 0xffff), dst))
	for _, v := range dst.Pix {
		assert.Equal(t, uint8(0xff), v)
	}

	require.NoError(t, convert.Convert(fill(pixfmt.Bayer12RGGB, 16), dst))
	for i := 0; i < w*h; i++ {
		assert.Equal(t, []byte{1, 1, 1, 0xff}, dst.Pix[i*4:i*4+4])
	}

	// out of range samples saturate
	require.NoError(t, convert.Convert(fill(pixfmt.Bayer10BGGR, 0xffff), dst))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, dst.Pix[:4])
}

func TestYUV(t *testing.T) {
	tests := []struct {
		f   pixfmt.Format
		pix []byte
	}{
		{pixfmt.YUV8UYVY, []byte{128, 50, 128, 200}},
		{pixfmt.YUV8YUY2, []byte{50, 128, 200, 128}},
		{pixfmt.YUV8YVYU, []byte{50, 128, 200, 128}},
	}
	for _, tt := range tests {
		dst := plane(2, 1, pixfmt.RGB24, nil)
		require.NoError(t, convert.Convert(plane(2, 1, tt.f, tt.pix), dst))
		assert.Equal(t, []byte{50, 50, 50, 200, 200, 200}, dst.Pix, tt.f.String())

		gray := plane(2, 1, pixfmt.Grayscale8, nil)
		require.NoError(t, convert.Convert(plane(2, 1, tt.f, tt.pix), gray))
		assert.Equal(t, []byte{50, 200}, gray.Pix, tt.f.String())
	}

	// U and V select the chroma of the shared pair
	dst := plane(2, 1, pixfmt.RGB24, nil)
	require.NoError(t, convert.Convert(plane(2, 1, pixfmt.YUV8YVYU, []byte{100, 255, 100, 128}), dst))
	assert.Greater(t, dst.Pix[0], dst.Pix[2])
}

func TestYUVWideRow(t *testing.T) {
	src := plane(4, 1, pixfmt.YUV8UYVY, []byte{128, 10, 128, 20, 128, 30, 128, 40})
	require.Len(t, src.Pix, 8)
	gray := plane(4, 1, pixfmt.Grayscale8, nil)
	require.NoError(t, convert.Convert(src, gray))
	assert.Equal(t, []byte{10, 20, 30, 40}, gray.Pix)
}

func TestYUVOddWidth(t *testing.T) {
	src := plane(3, 1, pixfmt.YUV8YUY2, []byte{10, 128, 20, 128, 30, 128})
	dst := plane(3, 1, pixfmt.RGB24, nil)
	require.NoError(t, convert.Convert(src, dst))
	assert.Equal(t, []byte{10, 10, 10, 20, 20, 20, 30, 30, 30}, dst.Pix)
}

func TestParallelBands(t *testing.T) {
	const w, h = 600, 601
	src := plane(w, h, pixfmt.RGB24, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			copy(src.Pix[(y*w+x)*3:], []byte{uint8(x), uint8(y), uint8(x + y)})
		}
	}
	dst := plane(w, h, pixfmt.BGR24, nil)
	require.NoError(t, convert.Convert(src, dst))
	for i := 0; i < w*h; i++ {
		s, d := src.Pix[i*3:i*3+3], dst.Pix[i*3:i*3+3]
		if s[0] != d[2] || s[1] != d[1] || s[2] != d[0] {
			t.Fatalf(`pixel %d: %v -> %v`, i, s, d)
		}
	}
}

func TestConvertErrors(t *testing.T) {
	err := convert.Convert(plane(2, 2, pixfmt.RGB24, nil), plane(3, 2, pixfmt.RGB24, nil))
	assert.True(t, errors.Is(err, convert.ErrConversionUnavailable))

	short := plane(2, 2, pixfmt.RGB24, make([]byte, 11))
	err = convert.Convert(short, plane(2, 2, pixfmt.BGR24, nil))
	assert.True(t, errors.Is(err, convert.ErrConversionUnavailable))

	err = convert.Convert(plane(2, 2, pixfmt.Invalid, []byte{0}), plane(2, 2, pixfmt.BGR24, nil))
	assert.True(t, errors.Is(err, convert.ErrConversionUnavailable))

	assert.Error(t, convert.Convert(nil, plane(2, 2, pixfmt.BGR24, nil)))
	assert.Error(t, convert.Convert(plane(2, 2, pixfmt.BGR24, nil), nil))
}
