// Package paint keeps the latest paint-ready frame and its copy scaled
// to the size of the render target.
package paint

import (
	"image"
	"log/slog"
	"sync"

	"github.com/srlehn/rawimg/img"
	"github.com/srlehn/rawimg/internal/consts"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/internal/logx"
	"github.com/srlehn/rawimg/storage"
)

// Resizer scales img to exactly size.
type Resizer interface {
	Resize(img image.Image, size image.Point) (image.Image, error)
}

// Surface caches one scaled copy of the current frame per target size.
// It is safe for concurrent use.
type Surface struct {
	mu      sync.Mutex
	resizer Resizer
	logger  *slog.Logger

	frame *img.Image
	fm    image.Image
	guard *storage.Guard

	scaled image.Image
	size   image.Point
	offset image.Point
}

func NewSurface(r Resizer) *Surface { return &Surface{resizer: r} }

// SetLogger enables debug logging of resize durations.
func (s *Surface) SetLogger(l *slog.Logger) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.logger = l
	s.mu.Unlock()
}

func (s *Surface) Logger() *slog.Logger {
	if s == nil {
		return nil
	}
	return s.logger
}

// SetFrame replaces the current frame. The surface keeps its own
// reference, the caller still owns frame.
func (s *Surface) SetFrame(frame *img.Image) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropFrame()
	if frame.IsNull() {
		return
	}
	s.frame = frame.Share()
}

// Frame returns a new handle to the current frame, the null image if
// there is none.
func (s *Surface) Frame() *img.Image {
	if s == nil {
		return &img.Image{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.Share()
}

func (s *Surface) dropFrame() {
	_ = s.guard.Close()
	s.frame.Release()
	s.frame, s.fm, s.guard, s.scaled = nil, nil, nil, nil
	s.size, s.offset = image.Point{}, image.Point{}
}

// Scaled returns the frame scaled to fit into size with its aspect ratio
// kept, and the offset that centres it within size.
// The result is recomputed only when the frame or size changed.
func (s *Surface) Scaled(size image.Point) (image.Image, image.Point, error) {
	if s == nil {
		return nil, image.Point{}, errors.NilReceiver()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frame.IsNull() {
		return nil, image.Point{}, errors.New(consts.ErrNilImage)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, image.Point{}, errors.Errorf(`invalid target size %v`, size)
	}
	if s.scaled != nil && s.size == size {
		return s.scaled, s.offset, nil
	}
	if s.resizer == nil {
		return nil, image.Point{}, errors.NilReceiver(s.resizer)
	}
	if s.fm == nil {
		fm, guard := s.frame.ToImage()
		if fm == nil {
			_ = guard.Close()
			return nil, image.Point{}, errors.Mark(storage.ErrNoForeignFormat, `%s`, s.frame.Format())
		}
		s.fm, s.guard = fm, guard
	}
	fit := FitSize(s.frame.Size(), size)
	var scaled image.Image
	err := logx.TimeIt(func() error {
		var err error
		scaled, err = s.resizer.Resize(s.fm, fit)
		return err
	}, `resize`, s, `from`, s.frame.Size(), `to`, fit)
	if err != nil {
		return nil, image.Point{}, errors.New(err)
	}
	s.scaled, s.size = scaled, size
	s.offset = image.Pt((size.X-fit.X)/2, (size.Y-fit.Y)/2)
	return s.scaled, s.offset, nil
}

// Close drops the current frame.
func (s *Surface) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropFrame()
	return nil
}

// FitSize is the largest size with the aspect ratio of src that fits
// into bounds. Each side is at least 1 pixel.
func FitSize(src, bounds image.Point) image.Point {
	if src.X <= 0 || src.Y <= 0 || bounds.X <= 0 || bounds.Y <= 0 {
		return image.Point{}
	}
	if bounds.X*src.Y <= bounds.Y*src.X {
		return image.Pt(bounds.X, max(1, src.Y*bounds.X/src.X))
	}
	return image.Pt(max(1, src.X*bounds.Y/src.Y), bounds.Y)
}
