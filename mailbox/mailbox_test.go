package mailbox_test

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srlehn/rawimg/img"
	"github.com/srlehn/rawimg/mailbox"
	"github.com/srlehn/rawimg/paint"
	"github.com/srlehn/rawimg/pixfmt"
	"github.com/srlehn/rawimg/resize/xdraw"
)

func frame(t *testing.T, v byte) *img.Image {
	t.Helper()
	m, err := img.New(4, 2, pixfmt.RGB24)
	require.NoError(t, err)
	for i := range m.Bytes() {
		m.Bytes()[i] = v
	}
	return m
}

func TestPutPutTake(t *testing.T) {
	mb := mailbox.New()
	a, b := frame(t, 1), frame(t, 2)
	assert.True(t, mb.Put(a))
	assert.False(t, mb.Put(b))
	assert.True(t, mb.Pending())

	got := mb.Take()
	require.NotNil(t, got)
	assert.Equal(t, uint8(1), got.Bytes()[0])
	assert.Nil(t, mb.Take())
	assert.Nil(t, mb.Take())
	assert.False(t, mb.Pending())

	assert.True(t, mb.Put(b))
	assert.Equal(t, uint8(2), mb.Take().Bytes()[0])

	assert.Equal(t, mailbox.Stats{Accepted: 2, Rejected: 1, Taken: 2}, mb.Stats())
}

func TestPutNull(t *testing.T) {
	mb := mailbox.New()
	assert.False(t, mb.Put(nil))
	assert.False(t, mb.Put(&img.Image{}))
	assert.Zero(t, mb.Stats())

	var nilBox *mailbox.Mailbox
	assert.False(t, nilBox.Put(frame(t, 0)))
	assert.Nil(t, nilBox.Take())
}

func TestDrain(t *testing.T) {
	var calls int
	m, err := img.FromBytes(make([]byte, 4), 2, 2, pixfmt.Grayscale8, -1, func([]byte) { calls++ })
	require.NoError(t, err)
	mb := mailbox.New()
	require.True(t, mb.Put(m))
	mb.Drain()
	assert.Equal(t, 1, calls)
	assert.False(t, mb.Pending())
}

func TestConcurrentPut(t *testing.T) {
	mb := mailbox.New()
	var wg sync.WaitGroup
	var accepted atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f := frame(t, 3)
			if mb.Put(f) {
				accepted.Add(1)
			} else {
				f.Release()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), accepted.Load())
	assert.Equal(t, uint64(15), mb.Stats().Rejected)
}

func TestConsumerStep(t *testing.T) {
	mb := mailbox.New()
	surface := paint.NewSurface(xdraw.ApproxBiLinear())
	defer surface.Close()
	var got []pixfmt.Format
	c, err := mailbox.NewConsumer(mb,
		mailbox.SetSurface(surface),
		mailbox.SetRenderer(mailbox.RendererFunc(func(f *img.Image) error {
			got = append(got, f.Format())
			return nil
		})),
	)
	require.NoError(t, err)

	require.NoError(t, c.Step())
	assert.Empty(t, got)

	require.True(t, mb.Put(frame(t, 9)))
	require.NoError(t, c.Step())
	assert.Equal(t, []pixfmt.Format{img.PaintableFormat()}, got)
	assert.Equal(t, uint64(1), c.Rendered())

	cur := surface.Frame()
	defer cur.Release()
	assert.Equal(t, img.PaintableFormat(), cur.Format())
	scaled, off, err := surface.Scaled(image.Pt(8, 8))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(8, 4), scaled.Bounds().Size())
	assert.Equal(t, image.Pt(0, 2), off)
}

func TestConsumerOptions(t *testing.T) {
	_, err := mailbox.NewConsumer(nil)
	assert.Error(t, err)
	_, err = mailbox.NewConsumer(mailbox.New(), mailbox.SetInterval(0))
	assert.Error(t, err)
	_, err = mailbox.NewConsumer(mailbox.New(), mailbox.SetTargetFormat(pixfmt.Format(250)))
	assert.Error(t, err)

	// Invalid target keeps the frame format
	var got pixfmt.Format
	mb := mailbox.New()
	c, err := mailbox.NewConsumer(mb, mailbox.Options{
		mailbox.SetTargetFormat(pixfmt.Invalid),
		mailbox.SetSLogger(nil, false),
		mailbox.SetRenderer(mailbox.RendererFunc(func(f *img.Image) error { got = f.Format(); return nil })),
	})
	require.NoError(t, err)
	require.True(t, mb.Put(frame(t, 1)))
	require.NoError(t, c.Step())
	assert.Equal(t, pixfmt.RGB24, got)
}

func TestConsumerStartStop(t *testing.T) {
	mb := mailbox.New()
	var rendered atomic.Int32
	c, err := mailbox.NewConsumer(mb,
		mailbox.SetInterval(time.Millisecond),
		mailbox.SetRenderer(mailbox.RendererFunc(func(*img.Image) error {
			rendered.Add(1)
			return nil
		})),
	)
	require.NoError(t, err)

	require.NoError(t, c.Stop())
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Running())

	require.True(t, mb.Put(frame(t, 5)))
	assert.Eventually(t, func() bool { return rendered.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, c.Stop())
	require.NoError(t, c.Stop())
	assert.False(t, c.Running())

	require.True(t, mb.Put(frame(t, 6)))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), rendered.Load())
	assert.True(t, mb.Pending())

	// restart picks up the pending frame
	require.NoError(t, c.Start(context.Background()))
	assert.Eventually(t, func() bool { return rendered.Load() == 2 }, time.Second, time.Millisecond)
	require.NoError(t, c.Stop())
}

func TestConsumerDrainOnStop(t *testing.T) {
	mb := mailbox.New()
	c, err := mailbox.NewConsumer(mb, mailbox.SetInterval(time.Hour), mailbox.SetDrainOnStop(true))
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	require.True(t, mb.Put(frame(t, 1)))
	require.NoError(t, c.Stop())
	assert.False(t, mb.Pending())
}

func TestConsumerRenderError(t *testing.T) {
	mb := mailbox.New()
	c, err := mailbox.NewConsumer(mb,
		mailbox.SetInterval(time.Millisecond),
		mailbox.SetRenderer(mailbox.RendererFunc(func(*img.Image) error { return assert.AnError })),
	)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	require.True(t, mb.Put(frame(t, 1)))
	assert.Eventually(t, func() bool { return c.Failed() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, c.Stop())
	assert.Zero(t, c.Rendered())

	// frames the target format can not be produced from are skipped
	m, err := img.New(2, 2, pixfmt.RGB24)
	require.NoError(t, err)
	c2, err := mailbox.NewConsumer(mb, mailbox.SetTargetFormat(pixfmt.YUV8YUY2))
	require.NoError(t, err)
	require.True(t, mb.Put(m))
	assert.Error(t, c2.Step())
}
