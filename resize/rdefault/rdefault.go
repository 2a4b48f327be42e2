// Package rdefault selects a resizer by name or by source image type.
package rdefault

import (
	"image"
	"runtime"
	"slices"

	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/internal/util"
	"github.com/srlehn/rawimg/paint"
	"github.com/srlehn/rawimg/resize/bild"
	"github.com/srlehn/rawimg/resize/caire"
	"github.com/srlehn/rawimg/resize/gift"
	"github.com/srlehn/rawimg/resize/imaging"
	"github.com/srlehn/rawimg/resize/nfnt"
	"github.com/srlehn/rawimg/resize/rez"
	"github.com/srlehn/rawimg/resize/xdraw"
)

// Resizer uses rez for the image types it has SIMD code for (amd64 only)
// and x/image/draw otherwise.
type Resizer struct{}

var _ paint.Resizer = (*Resizer)(nil)

func (r *Resizer) Resize(img image.Image, size image.Point) (image.Image, error) {
	if img == nil {
		return nil, errors.NilParam()
	}
	if runtime.GOARCH == `amd64` {
		switch img.(type) {
		case *image.YCbCr, *image.RGBA, *image.NRGBA, *image.Gray:
			// use SIMD assembly if possible
			if m, err := (&rez.Resizer{}).Resize(img, size); err == nil {
				return m, nil
			}
		}
	}
	return xdraw.ApproxBiLinear().Resize(img, size)
}

var byName = map[string]func() paint.Resizer{
	`default`:    func() paint.Resizer { return &Resizer{} },
	`bild`:       func() paint.Resizer { return &bild.Resizer{} },
	`caire`:      func() paint.Resizer { return &caire.Resizer{} },
	`gift`:       func() paint.Resizer { return &gift.Resizer{} },
	`imaging`:    func() paint.Resizer { return &imaging.Resizer{} },
	`nfnt`:       func() paint.Resizer { return &nfnt.Resizer{} },
	`rez`:        func() paint.Resizer { return &rez.Resizer{} },
	`xdraw`:      xdraw.ApproxBiLinear,
	`catmullrom`: xdraw.CatmullRom,
	`nearest`:    xdraw.NearestNeighbor,
}

// Names lists the names accepted by ByName.
func Names() []string {
	return util.MapsKeysSorted(byName)
}

// ByName returns the named resizer, the default one for an empty name.
func ByName(name string) (paint.Resizer, error) {
	if len(name) == 0 {
		name = `default`
	}
	newResizer, ok := byName[name]
	if !ok {
		return nil, errors.Errorf(`unknown resizer %q, one of %v`, name, Names())
	}
	return newResizer(), nil
}

// Known reports whether ByName accepts name.
func Known(name string) bool { return len(name) == 0 || slices.Contains(Names(), name) }
