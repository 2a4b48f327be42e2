package mailbox

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/srlehn/rawimg/img"
	"github.com/srlehn/rawimg/internal/consts"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/internal/logx"
	"github.com/srlehn/rawimg/paint"
	"github.com/srlehn/rawimg/pixfmt"
)

// Consumer takes frames from a Mailbox at a fixed interval, converts them
// to the target format, updates the paint surface and renders them.
// Conversion and render errors are logged, the consumer keeps running.
type Consumer struct {
	mb          *Mailbox
	interval    time.Duration
	renderer    Renderer
	surface     *paint.Surface
	target      pixfmt.Format
	drainOnStop bool
	logger      *slog.Logger

	mu     sync.Mutex // serializes Start and Stop
	cancel context.CancelFunc
	wg     sync.WaitGroup

	rendered atomic.Uint64
	failed   atomic.Uint64
}

var _ logx.LoggerProvider = (*Consumer)(nil)

// NewConsumer returns a stopped consumer of mb. Defaults: 60 ticks per
// second, frames converted to img.PaintableFormat(), no logging.
func NewConsumer(mb *Mailbox, opts ...Option) (*Consumer, error) {
	if mb == nil {
		return nil, errors.NilParam()
	}
	c := &Consumer{
		mb:       mb,
		interval: consts.DefaultFrameInterval,
		target:   img.PaintableFormat(),
	}
	if err := c.SetOptions(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Consumer) Logger() *slog.Logger {
	if c == nil {
		return nil
	}
	return c.logger
}

// Start launches the tick loop. It is a no-op on a running consumer.
// Cancelling ctx ends the loop like Stop does, but Stop must still be
// called to wait for it.
func (c *Consumer) Start(ctx context.Context) error {
	if c == nil {
		return errors.NilReceiver()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return nil
	}
	ctx, c.cancel = context.WithCancel(ctx)
	ticker := time.NewTicker(c.interval)
	c.wg.Add(1)
	go c.run(ctx, ticker)
	logx.Debug(`consumer started`, c, `interval`, c.interval, `target`, c.target)
	return nil
}

// Stop ends the tick loop and waits for a tick in progress.
// No frame is rendered after Stop returns. It is a no-op on a stopped
// consumer.
func (c *Consumer) Stop() error {
	if c == nil {
		return errors.NilReceiver()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	c.wg.Wait()
	c.cancel = nil
	if c.drainOnStop {
		c.mb.Drain()
	}
	logx.Debug(`consumer stopped`, c, `rendered`, c.rendered.Load(), `failed`, c.failed.Load())
	return nil
}

// Running reports whether Start was called without a following Stop.
func (c *Consumer) Running() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

func (c *Consumer) run(ctx context.Context, ticker *time.Ticker) {
	defer c.wg.Done()
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if logx.IsErr(c.Step(), c, slog.LevelError) {
				c.failed.Add(1)
			}
		}
	}
}

// Step processes one tick: it takes the pending frame, if any, and
// renders it. The tick loop calls Step, it is exported for callers
// driving the consumer from their own loop.
func (c *Consumer) Step() error {
	if c == nil {
		return errors.NilReceiver()
	}
	frame := c.mb.Take()
	if frame == nil {
		return nil
	}
	defer frame.Release()
	out := frame
	if c.target != pixfmt.Invalid {
		conv, err := frame.ConvertTo(c.target)
		if err != nil {
			return err
		}
		defer conv.Release()
		out = conv
	}
	if c.surface != nil {
		c.surface.SetFrame(out)
	}
	if c.renderer != nil {
		if err := c.renderer.Render(out); err != nil {
			return errors.New(err)
		}
	}
	c.rendered.Add(1)
	return nil
}

// Rendered counts the frames handed to the renderer without error.
func (c *Consumer) Rendered() uint64 {
	if c == nil {
		return 0
	}
	return c.rendered.Load()
}

// Failed counts the ticks that ended with an error.
func (c *Consumer) Failed() uint64 {
	if c == nil {
		return 0
	}
	return c.failed.Load()
}
