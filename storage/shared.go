package storage

import (
	"image"
	"sync/atomic"

	"github.com/srlehn/rawimg/internal"
	"github.com/srlehn/rawimg/internal/errors"
)

// Shared is a reference counted Backend.
// The backend is freed when the count drops to zero.
type Shared struct {
	refs    atomic.Int32
	backend Backend
}

// NewShared takes ownership of b with a count of 1.
func NewShared(b Backend) *Shared {
	if b == nil {
		return nil
	}
	s := &Shared{backend: b}
	s.refs.Store(1)
	return s
}

func (s *Shared) Backend() Backend {
	if s == nil {
		return nil
	}
	return s.backend
}

// Acquire adds a reference.
func (s *Shared) Acquire() *Shared {
	if s == nil {
		return nil
	}
	s.refs.Add(1)
	return s
}

// Release drops a reference and reports whether it was the last one.
// Releasing a freed backend panics with ErrReleased.
func (s *Shared) Release() bool {
	if s == nil {
		return false
	}
	n := s.refs.Add(-1)
	if n < 0 {
		panic(errors.Mark(ErrReleased, `reference count %d`, n))
	}
	if n != 0 {
		return false
	}
	s.backend.free()
	return true
}

// Refs is the current reference count.
func (s *Shared) Refs() int {
	if s == nil {
		return 0
	}
	return int(s.refs.Load())
}

// Export returns an image.Image view of the pixels and a Guard holding
// a reference to the backend until it is closed. Views over package owned
// or external bytes also drop that reference once they become unreachable.
// The Guard is the lifetime token: sub-images of the exported
// *image.NRGBA and *image.Gray views do not keep the backend alive,
// those of *View do.
// Wrapped backends export the foreign image itself.
//
// Formats without an image.Image equivalent (bayer, yuv) export nil.
func (s *Shared) Export() (image.Image, *Guard) {
	if s == nil {
		return nil, &Guard{}
	}
	m, pins := s.backend.foreign()
	if m == nil {
		return nil, &Guard{}
	}
	s.Acquire()
	c := internal.NewOnceCloser(func() error { s.Release(); return nil })
	if !pins {
		// foreign images are owned by the caller, no finalizer
		return m, &Guard{closer: c}
	}
	switch mt := m.(type) {
	case *image.NRGBA:
		internal.CloseWith(mt, c)
	case *image.Gray:
		internal.CloseWith(mt, c)
	case *View:
		internal.CloseWith(mt, c)
	}
	return m, &Guard{closer: c}
}

// Guard releases an exported view.
type Guard struct {
	closer internal.Closer
}

func (g *Guard) Close() error {
	if g == nil || g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

// Pinning reports whether the guard still holds a reference.
func (g *Guard) Pinning() bool {
	return g != nil && g.closer != nil && !g.closer.Closed()
}
