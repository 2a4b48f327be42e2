// Package storage holds the owners of pixel bytes behind an image handle.
//
// A Backend is one of three closed variants:
//   - Owned: bytes allocated (zeroed) by this package
//   - External: caller supplied bytes with an optional cleanup function
//   - Wrapped: a foreign image.Image used in place, without copying
//
// Backends are shared through Shared, which counts references and frees
// the backend when the last one is released.
package storage

import (
	"errors"
	"image"

	"github.com/srlehn/rawimg/pixfmt"
)

var (
	ErrBufferTooSmall  = errors.New(`buffer smaller than layout`)
	ErrNoForeignFormat = errors.New(`format has no image.Image equivalent`)
	ErrReleased        = errors.New(`backend released more often than acquired`)
)

// Backend provides the bytes and geometry of one pixel buffer.
// The set of implementations is closed: Owned, External and Wrapped.
type Backend interface {
	Bytes() []byte
	Width() int
	Height() int
	Format() pixfmt.Format
	Layout() pixfmt.Layout
	Continuous() bool

	// foreign returns an image.Image view of the buffer and whether the view
	// aliases bytes owned by the backend (and therefore pins it).
	foreign() (m image.Image, pins bool)
	free()
}

var (
	_ Backend = (*Owned)(nil)
	_ Backend = (*External)(nil)
	_ Backend = (*Wrapped)(nil)
)

// geometry is shared by Owned and External.
type geometry struct {
	width, height int
	format        pixfmt.Format
	layout        pixfmt.Layout
}

func (g *geometry) Width() int               { return g.width }
func (g *geometry) Height() int              { return g.height }
func (g *geometry) Format() pixfmt.Format    { return g.format }
func (g *geometry) Layout() pixfmt.Layout    { return g.layout }
func (g *geometry) Continuous() bool         { return g.layout.Continuous }
func (g *geometry) rect() image.Rectangle    { return image.Rect(0, 0, g.width, g.height) }
func (g *geometry) view(pix []byte) image.Image { return newView(pix, g.layout.Stride, g.rect(), g.format) }

// Owned is a buffer allocated by the package.
type Owned struct {
	geometry
	pix []byte
}

// NewOwned allocates a zeroed buffer of l.TotalBytes.
func NewOwned(width, height int, f pixfmt.Format, l pixfmt.Layout) *Owned {
	return &Owned{
		geometry: geometry{width: width, height: height, format: f, layout: l},
		pix:      make([]byte, l.TotalBytes),
	}
}

func (o *Owned) Bytes() []byte                { return o.pix }
func (o *Owned) foreign() (image.Image, bool) { return o.view(o.pix), true }
func (o *Owned) free()                        { o.pix = nil }
