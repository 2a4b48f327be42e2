// Package img provides Image, a reference counted handle to a raw pixel
// buffer.
//
// Handles are cheap to share: Share adds a reference to the same pixels,
// Release drops one. The pixels are freed (or handed back to their
// cleanup function) when the last handle is released.
// A nil *Image and a released *Image both behave as the null image.
package img

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/srlehn/rawimg/pixfmt"
	"github.com/srlehn/rawimg/storage"
)

type Image struct {
	shared   *storage.Shared
	released atomic.Bool
}

// New allocates a zeroed width x height image of format f.
// An empty layout (zero width or height, Invalid format) yields the null image.
func New(width, height int, f pixfmt.Format) (*Image, error) {
	l, err := pixfmt.ComputeLayout(width, height, f, -1)
	if err != nil {
		return &Image{}, err
	}
	if l.IsEmpty() {
		return &Image{}, nil
	}
	return &Image{shared: storage.NewShared(storage.NewOwned(width, height, f, l))}, nil
}

// FromBytes uses data in place. stride <= 0 means unpadded rows.
// cleanup, if not nil, is called with data exactly once, after the last
// handle sharing the pixels is released. On error or for an empty layout
// cleanup is not called and data stays with the caller.
func FromBytes(data []byte, width, height int, f pixfmt.Format, stride int, cleanup func([]byte)) (*Image, error) {
	l, err := pixfmt.ComputeLayout(width, height, f, stride)
	if err != nil {
		return &Image{}, err
	}
	if l.IsEmpty() {
		return &Image{}, nil
	}
	ext, err := storage.NewExternal(data, width, height, f, l, cleanup)
	if err != nil {
		return &Image{}, err
	}
	return &Image{shared: storage.NewShared(ext)}, nil
}

// FromImage wraps m without copying. Types other than *image.RGBA,
// *image.NRGBA, *image.Gray and *storage.View yield the null image.
//
// *image.RGBA is read as straight rgba32 although its colors are alpha
// premultiplied. Translucent pixels come out darker after conversion,
// opaque ones are exact.
func FromImage(m image.Image) *Image {
	w := storage.NewWrapped(m)
	if w == nil {
		return &Image{}
	}
	return &Image{shared: storage.NewShared(w)}
}

func (m *Image) backend() storage.Backend {
	if m == nil || m.released.Load() {
		return nil
	}
	return m.shared.Backend()
}

// IsNull reports whether m holds no pixels.
func (m *Image) IsNull() bool { return m.backend() == nil }

// Share returns a new handle to the same pixels.
func (m *Image) Share() *Image {
	if m.IsNull() {
		return &Image{}
	}
	return &Image{shared: m.shared.Acquire()}
}

// Release drops the reference of this handle. Further calls are no-ops.
func (m *Image) Release() {
	if m == nil || m.shared == nil {
		return
	}
	if m.released.CompareAndSwap(false, true) {
		m.shared.Release()
	}
}

// RefCount is the number of handles sharing the pixels, 0 for the null image.
func (m *Image) RefCount() int {
	if m.IsNull() {
		return 0
	}
	return m.shared.Refs()
}

// Bytes are the pixels, including row padding. The bytes may be modified
// but are shared with every handle returned by Share.
func (m *Image) Bytes() []byte {
	if b := m.backend(); b != nil {
		return b.Bytes()
	}
	return nil
}

func (m *Image) layout() pixfmt.Layout {
	if b := m.backend(); b != nil {
		return b.Layout()
	}
	return pixfmt.Layout{Continuous: true}
}

func (m *Image) SizeInBytes() int   { return m.layout().TotalBytes }
func (m *Image) Depth() int         { return m.layout().Depth }
func (m *Image) BitPlaneCount() int { return m.layout().BitPlaneCount }
func (m *Image) Stride() int        { return m.layout().Stride }
func (m *Image) IsContinuous() bool { return m.layout().Continuous }

func (m *Image) Width() int {
	if b := m.backend(); b != nil {
		return b.Width()
	}
	return 0
}

func (m *Image) Height() int {
	if b := m.backend(); b != nil {
		return b.Height()
	}
	return 0
}

func (m *Image) Format() pixfmt.Format {
	if b := m.backend(); b != nil {
		return b.Format()
	}
	return pixfmt.Invalid
}

func (m *Image) Size() image.Point { return image.Pt(m.Width(), m.Height()) }

// Clone copies the pixels into a new unpadded buffer.
func (m *Image) Clone() *Image {
	if m.IsNull() {
		return &Image{}
	}
	c, err := New(m.Width(), m.Height(), m.Format())
	if err != nil {
		return &Image{}
	}
	src, dst := m.Bytes(), c.Bytes()
	if m.IsContinuous() {
		copy(dst, src)
		return c
	}
	ss, ds := m.Stride(), c.Stride()
	n := min(ss, ds)
	for y := 0; y < m.Height(); y++ {
		so := y * ss
		copy(dst[y*ds:y*ds+n], src[so:min(so+n, len(src))])
	}
	return c
}

func (m *Image) String() string {
	if m.IsNull() {
		return `null image`
	}
	return fmt.Sprintf(`%s %dx%d`, m.Format(), m.Width(), m.Height())
}
