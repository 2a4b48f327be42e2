package mailbox

import (
	"log/slog"
	"time"

	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/paint"
	"github.com/srlehn/rawimg/pixfmt"
)

type Option interface {
	ApplyOption(c *Consumer) error
}

var _ Option = (OptFunc)(nil)

type OptFunc func(*Consumer) error

func (o OptFunc) ApplyOption(c *Consumer) error { return o(c) }

var _ Option = (Options)(nil)

type Options []Option

func (o Options) ApplyOption(c *Consumer) error { return c.SetOptions([]Option(o)...) }

func (c *Consumer) SetOptions(opts ...Option) error {
	if c == nil {
		return errors.NilReceiver()
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.ApplyOption(c); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

// SetInterval sets the tick period of the consumer.
func SetInterval(d time.Duration) Option {
	return OptFunc(func(c *Consumer) error {
		if d <= 0 {
			return errors.Errorf(`non-positive interval %v`, d)
		}
		c.interval = d
		return nil
	})
}

func SetRenderer(r Renderer) Option {
	return OptFunc(func(c *Consumer) error { c.renderer = r; return nil })
}

// SetSurface makes the consumer store each converted frame in s.
func SetSurface(s *paint.Surface) Option {
	return OptFunc(func(c *Consumer) error { c.surface = s; return nil })
}

// SetTargetFormat sets the format frames are converted to before
// rendering. Invalid keeps the format of the frames.
func SetTargetFormat(f pixfmt.Format) Option {
	return OptFunc(func(c *Consumer) error {
		if f != pixfmt.Invalid && !f.Valid() {
			return errors.Mark(pixfmt.ErrUnsupportedFormat, `format %d`, uint8(f))
		}
		c.target = f
		return nil
	})
}

// SetDrainOnStop releases a frame still pending in the mailbox on Stop.
func SetDrainOnStop(drain bool) Option {
	return OptFunc(func(c *Consumer) error { c.drainOnStop = drain; return nil })
}

func SetSLogger(h slog.Handler, enable bool) Option {
	return OptFunc(func(c *Consumer) error {
		if enable {
			if h == nil {
				c.logger = slog.Default()
			} else {
				c.logger = slog.New(h)
			}
		} else {
			c.logger = nil
		}
		return nil
	})
}
