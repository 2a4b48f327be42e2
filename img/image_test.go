package img_test

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "golang.org/x/image/tiff"

	"github.com/srlehn/rawimg/convert"
	"github.com/srlehn/rawimg/img"
	"github.com/srlehn/rawimg/pixfmt"
	"github.com/srlehn/rawimg/storage"
)

func TestNullImage(t *testing.T) {
	var nilImg *img.Image
	for _, m := range []*img.Image{nilImg, {}} {
		assert.True(t, m.IsNull())
		assert.Zero(t, m.Width())
		assert.Zero(t, m.SizeInBytes())
		assert.True(t, m.IsContinuous())
		assert.Equal(t, pixfmt.Invalid, m.Format())
		assert.Nil(t, m.Bytes())
		assert.True(t, m.Share().IsNull())
		assert.True(t, m.Clone().IsNull())
		c, err := m.ConvertTo(pixfmt.RGB24)
		assert.NoError(t, err)
		assert.True(t, c.IsNull())
		m.Release()
	}

	m, err := img.New(0, 10, pixfmt.RGB24)
	require.NoError(t, err)
	assert.True(t, m.IsNull())

	m, err = img.New(-1, 10, pixfmt.RGB24)
	assert.True(t, errors.Is(err, pixfmt.ErrInvalidDimensions))
	assert.True(t, m.IsNull())
}

func TestNew(t *testing.T) {
	m, err := img.New(10, 4, pixfmt.Bayer12GBRG)
	require.NoError(t, err)
	assert.Equal(t, 80, m.SizeInBytes())
	assert.Equal(t, 20, m.Stride())
	assert.Equal(t, 16, m.Depth())
	assert.Equal(t, 12, m.BitPlaneCount())
	assert.Equal(t, image.Pt(10, 4), m.Size())
	assert.True(t, m.IsContinuous())
	assert.Equal(t, `bayer12_gbrg 10x4`, m.String())
}

func TestSharedCleanup(t *testing.T) {
	data := make([]byte, 12)
	var calls int
	a, err := img.FromBytes(data, 2, 2, pixfmt.RGB24, -1, func([]byte) { calls++ })
	require.NoError(t, err)
	b := a.Share()
	assert.Equal(t, 2, a.RefCount())
	b.Bytes()[0] = 7
	assert.Equal(t, uint8(7), a.Bytes()[0])

	a.Release()
	a.Release()
	assert.True(t, a.IsNull())
	assert.Zero(t, calls)
	assert.Equal(t, 1, b.RefCount())

	b.Release()
	assert.Equal(t, 1, calls)
	assert.True(t, b.IsNull())
}

func TestFromBytesErrors(t *testing.T) {
	var calls int
	m, err := img.FromBytes(make([]byte, 10), 2, 2, pixfmt.RGB24, -1, func([]byte) { calls++ })
	assert.True(t, errors.Is(err, storage.ErrBufferTooSmall))
	assert.True(t, m.IsNull())

	_, err = img.FromBytes(make([]byte, 100), 10, 2, pixfmt.RGB24, 20, nil)
	assert.True(t, errors.Is(err, pixfmt.ErrStrideTooSmall))
	assert.Zero(t, calls)
}

func TestClone(t *testing.T) {
	// 2x3 rgb24 with 8 byte rows, 2 bytes padding
	data := make([]byte, 24)
	for i := range data {
		data[i] = uint8(i)
	}
	m, err := img.FromBytes(data, 2, 3, pixfmt.RGB24, 8, nil)
	require.NoError(t, err)
	assert.False(t, m.IsContinuous())

	c := m.Clone()
	assert.True(t, c.IsContinuous())
	assert.Equal(t, 6, c.Stride())
	assert.Equal(t, 18, c.SizeInBytes())
	assert.Equal(t, m.Format(), c.Format())
	for y := 0; y < 3; y++ {
		assert.Equal(t, data[y*8:y*8+6], c.Bytes()[y*6:y*6+6])
	}
	c.Bytes()[0] = 99
	assert.Equal(t, uint8(0), data[0])

	cont, err := img.New(3, 3, pixfmt.Grayscale8)
	require.NoError(t, err)
	copy(cont.Bytes(), []byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.Equal(t, cont.Bytes(), cont.Clone().Bytes())
}

func TestConvertTo(t *testing.T) {
	m, err := img.New(4, 2, pixfmt.RGB24)
	require.NoError(t, err)
	for i := range m.Bytes() {
		m.Bytes()[i] = uint8(i * 11)
	}

	same, err := m.ConvertTo(pixfmt.RGB24)
	require.NoError(t, err)
	assert.Equal(t, 2, m.RefCount())
	same.Release()

	rgba, err := m.ConvertTo(pixfmt.RGBA32)
	require.NoError(t, err)
	assert.Equal(t, pixfmt.RGBA32, rgba.Format())
	back, err := rgba.ConvertTo(pixfmt.RGB24)
	require.NoError(t, err)
	assert.Equal(t, m.Bytes(), back.Bytes())

	gray, err := rgba.ConvertTo(pixfmt.Grayscale8)
	require.NoError(t, err)
	assert.Equal(t, 8, gray.SizeInBytes())

	bad, err := m.ConvertTo(pixfmt.YUV8UYVY)
	assert.True(t, errors.Is(err, convert.ErrConversionUnavailable))
	assert.True(t, bad.IsNull())
}

func TestConvertYUVFullRow(t *testing.T) {
	m, err := img.FromBytes([]byte{10, 128, 20, 128, 30, 128, 40, 128}, 4, 1, pixfmt.YUV8YUY2, -1, nil)
	require.NoError(t, err)
	assert.Equal(t, 8, m.SizeInBytes())
	assert.Equal(t, 8, m.Stride())
	assert.Equal(t, 16, m.Depth())
	assert.Equal(t, 8, m.BitPlaneCount())

	gray, err := m.ConvertTo(pixfmt.Grayscale8)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 20, 30, 40}, gray.Bytes())

	rgb, err := m.ConvertTo(pixfmt.RGB24)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 10, 10, 20, 20, 20, 30, 30, 30, 40, 40, 40}, rgb.Bytes())
}

func TestMakePaintable(t *testing.T) {
	m, err := img.New(3, 3, pixfmt.Bayer8RGGB)
	require.NoError(t, err)
	p, err := m.MakePaintable()
	require.NoError(t, err)
	assert.Equal(t, img.PaintableFormat(), p.Format())
	assert.Contains(t, []pixfmt.Format{pixfmt.ARGB32, pixfmt.BGRA32}, p.Format())
	assert.Equal(t, 36, p.SizeInBytes())
}

func TestToImage(t *testing.T) {
	m, err := img.New(2, 2, pixfmt.BGR24)
	require.NoError(t, err)
	copy(m.Bytes(), []byte{30, 20, 10})
	fm, guard := m.ToImage()
	require.NotNil(t, fm)
	assert.Equal(t, 2, m.RefCount())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, fm.At(0, 0))
	require.NoError(t, guard.Close())
	assert.Equal(t, 1, m.RefCount())

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	w := img.FromImage(src)
	fm, guard = w.ToImage()
	assert.Same(t, src, fm)
	require.NoError(t, guard.Close())

	assert.True(t, img.FromImage(image.NewCMYK(image.Rect(0, 0, 1, 1))).IsNull())
}

func TestFromImagePremultiplied(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 100, A: 128})
	src.SetRGBA(1, 0, color.RGBA{R: 100, G: 50, A: 255})
	m := img.FromImage(src)
	assert.Equal(t, pixfmt.RGBA32, m.Format())
	rgb, err := m.ConvertTo(pixfmt.RGB24)
	require.NoError(t, err)
	// stored values are used as is, not divided by alpha
	assert.Equal(t, []byte{100, 0, 0, 100, 50, 0}, rgb.Bytes())
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	m, err := img.New(3, 2, pixfmt.ABGR32)
	require.NoError(t, err)
	copy(m.Bytes(), []byte{255, 3, 2, 1})

	path := filepath.Join(dir, `frame.png`)
	require.NoError(t, m.Save(path, ``))
	l, err := img.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Size(), l.Size())
	assert.Equal(t, pixfmt.RGBA32, l.Format())
	assert.Equal(t, []byte{1, 2, 3, 255}, l.Bytes()[:4])

	require.NoError(t, m.Save(filepath.Join(dir, `frame.out`), `bmp`))

	for _, name := range []string{`frame.tiff`, `frame.tif`} {
		path = filepath.Join(dir, name)
		require.NoError(t, m.Save(path, ``), name)
		l, err = img.Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, m.Size(), l.Size())
		fm, guard := l.ToImage()
		r, g, b, a := fm.At(0, 0).RGBA()
		assert.Equal(t, [4]uint32{0x0101, 0x0202, 0x0303, 0xffff}, [4]uint32{r, g, b, a}, name)
		require.NoError(t, guard.Close())
	}
	assert.Error(t, m.Save(filepath.Join(dir, `frame.raw`), ``))

	raw, err := img.New(2, 2, pixfmt.YUV8YUY2)
	require.NoError(t, err)
	err = raw.Save(filepath.Join(dir, `yuv.png`), ``)
	assert.True(t, errors.Is(err, storage.ErrNoForeignFormat))
	assert.Equal(t, 1, raw.RefCount())
}

func TestLoadPaletted(t *testing.T) {
	path := filepath.Join(t.TempDir(), `p.gif`)
	f, err := os.Create(path)
	require.NoError(t, err)
	p := image.NewPaletted(image.Rect(0, 0, 4, 4), palette.Plan9)
	p.SetColorIndex(0, 0, 1)
	require.NoError(t, gif.Encode(f, p, nil))
	require.NoError(t, f.Close())

	m, err := img.Load(path)
	require.NoError(t, err)
	assert.Equal(t, pixfmt.RGBA32, m.Format())
	assert.Equal(t, image.Pt(4, 4), m.Size())

	_, err = img.Load(filepath.Join(t.TempDir(), `missing.png`))
	assert.Error(t, err)
}

func TestSaveBinary(t *testing.T) {
	dir := t.TempDir()
	data := []byte{1, 2, 0, 0, 3, 4, 0, 0}
	m, err := img.FromBytes(data, 2, 2, pixfmt.Grayscale8, 4, nil)
	require.NoError(t, err)
	path := filepath.Join(dir, `padded.bin`)
	require.NoError(t, m.SaveBinary(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)

	c := m.Clone()
	path = filepath.Join(dir, `cont.bin`)
	require.NoError(t, c.SaveBinary(path))
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)

	var null *img.Image
	assert.Error(t, null.SaveBinary(filepath.Join(dir, `null.bin`)))
}
