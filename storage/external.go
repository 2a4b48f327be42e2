package storage

import (
	"image"
	"sync"

	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/pixfmt"
)

// External is caller supplied memory. The cleanup function, if any,
// runs exactly once when the buffer is freed.
type External struct {
	geometry
	pix     []byte
	orig    []byte
	cleanup func([]byte)
	once    sync.Once
}

// NewExternal adopts pix as a width x height buffer with layout l.
// pix must hold at least l.TotalBytes bytes. cleanup receives pix unchanged.
func NewExternal(pix []byte, width, height int, f pixfmt.Format, l pixfmt.Layout, cleanup func([]byte)) (*External, error) {
	if len(pix) < l.TotalBytes {
		return nil, errors.Mark(ErrBufferTooSmall, `%d < %d bytes`, len(pix), l.TotalBytes)
	}
	return &External{
		geometry: geometry{width: width, height: height, format: f, layout: l},
		pix:      pix[:l.TotalBytes:l.TotalBytes],
		orig:     pix,
		cleanup:  cleanup,
	}, nil
}

func (e *External) Bytes() []byte                { return e.pix }
func (e *External) foreign() (image.Image, bool) { return e.view(e.pix), true }

func (e *External) free() {
	e.once.Do(func() {
		orig := e.orig
		e.pix, e.orig = nil, nil
		if e.cleanup != nil {
			e.cleanup(orig)
			e.cleanup = nil
		}
	})
}
