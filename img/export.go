package img

import (
	"bufio"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/srlehn/rawimg/internal/consts"
	"github.com/srlehn/rawimg/internal/encoder/encmulti"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/storage"
)

// ToImage exposes the pixels as an image.Image without copying.
// The pixels stay valid until the guard is closed. Bayer and yuv images
// have no image.Image form and return nil.
func (m *Image) ToImage() (image.Image, *storage.Guard) {
	if m.IsNull() {
		return nil, &storage.Guard{}
	}
	return m.shared.Export()
}

// Save encodes m into path. formatHint ("png", "jpeg", "bmp", "gif",
// "tiff") defaults to the file extension of path.
func (m *Image) Save(path, formatHint string) error {
	if m.IsNull() {
		return errors.New(consts.ErrNilImage)
	}
	if len(formatHint) == 0 {
		formatHint = path
	}
	if !encmulti.Supported(formatHint) {
		return errors.Errorf(`unsupported file format: %q`, encmulti.FormatOf(formatHint))
	}
	fm, guard := m.ToImage()
	defer guard.Close()
	if fm == nil {
		return errors.Mark(storage.ErrNoForeignFormat, `%s`, m.Format())
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.New(err)
	}
	enc := &encmulti.MultiEncoder{}
	if err := enc.Encode(f, fm, formatHint); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.New(err)
	}
	return nil
}

// SaveBinary writes the raw pixel bytes to path, without row padding.
func (m *Image) SaveBinary(path string) error {
	if m.IsNull() {
		return errors.New(consts.ErrNilImage)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.New(err)
	}
	if err := m.writeBinary(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.New(err)
	}
	return nil
}

func (m *Image) writeBinary(f *os.File) error {
	pix := m.Bytes()
	if m.IsContinuous() {
		if _, err := f.Write(pix[:min(len(pix), m.SizeInBytes())]); err != nil {
			return errors.New(err)
		}
		return nil
	}
	w := bufio.NewWriter(f)
	rb, stride := m.Width()*(m.Depth()>>3), m.Stride()
	for y := 0; y < m.Height(); y++ {
		if _, err := w.Write(pix[y*stride : y*stride+rb]); err != nil {
			return errors.New(err)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.New(err)
	}
	return nil
}

// Load decodes the image file at path with the decoders registered in
// package image, e.g.:
//
//	import _ "image/png"
//
// Decoded images of types FromImage can not wrap are copied to NRGBA.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Image{}, errors.New(err)
	}
	defer f.Close()
	dec, _, err := image.Decode(f)
	if err != nil {
		return &Image{}, errors.New(err)
	}
	if m := FromImage(dec); !m.IsNull() {
		return m, nil
	}
	m := FromImage(imaging.Clone(dec))
	if m.IsNull() {
		return m, errors.Errorf(`empty image in %q`, path)
	}
	return m, nil
}
