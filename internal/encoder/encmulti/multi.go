// Package encmulti encodes images into the file format named by a file
// extension or a bare format hint.
package encmulti

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/srlehn/rawimg/internal/consts"
	"github.com/srlehn/rawimg/internal/errors"
)

type Encoder interface {
	Encode(w io.Writer, img image.Image, fileExt string) error
}

var _ Encoder = (*MultiEncoder)(nil)

type MultiEncoder struct {
	// JPEGQuality defaults to 90.
	JPEGQuality int
}

var formats = []string{`bmp`, `gif`, `jpeg`, `jpg`, `png`, `tif`, `tiff`}

// Formats lists the accepted format hints.
func Formats() []string { return slices.Clone(formats) }

// FormatOf extracts the format hint from a file name or extension,
// e.g. "out.PNG", ".png" or "png".
func FormatOf(fileExt string) string {
	if ext := filepath.Ext(fileExt); len(ext) > 0 {
		fileExt = ext
	}
	return strings.ToLower(strings.TrimPrefix(fileExt, `.`))
}

// Supported reports whether fileExt names an encodable format.
func Supported(fileExt string) bool { return slices.Contains(formats, FormatOf(fileExt)) }

func (e *MultiEncoder) Encode(w io.Writer, img image.Image, fileExt string) error {
	if img == nil {
		return errors.New(consts.ErrNilImage)
	}
	if w == nil {
		return errors.NilParam()
	}
	fmtStr := FormatOf(fileExt)
	if len(fmtStr) == 0 {
		return errors.New(`no file format specified`)
	}
	var err error
	switch fmtStr {
	case `bmp`:
		err = bmp.Encode(w, img)
	case `gif`:
		err = gif.Encode(w, img, nil)
	case `png`:
		err = png.Encode(w, img)
	case `tif`, `tiff`:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case `jpg`, `jpeg`:
		q := 90
		if e != nil && e.JPEGQuality > 0 {
			q = min(e.JPEGQuality, 100)
		}
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: q})
	default:
		err = errors.New(`unsupported file format: "` + fmtStr + `"`)
	}
	if err != nil {
		return errors.New(err)
	}
	return nil
}
