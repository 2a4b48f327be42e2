package mailbox

import "github.com/srlehn/rawimg/img"

// Renderer displays frames handed over by a Consumer.
// The frame is released after Render returns; renderers keeping it must
// call frame.Share().
type Renderer interface {
	Render(frame *img.Image) error
}

var _ Renderer = (RendererFunc)(nil)

type RendererFunc func(frame *img.Image) error

func (f RendererFunc) Render(frame *img.Image) error { return f(frame) }
