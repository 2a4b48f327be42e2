package rawimg

import (
	"context"
	"os"
	"path/filepath"

	_ "image/gif"  // decoders for Load
	_ "image/jpeg" // ...
	_ "image/png"  // ...

	_ "golang.org/x/image/bmp"  // ...
	_ "golang.org/x/image/tiff" // ...
	_ "golang.org/x/image/webp" // ...

	"github.com/srlehn/rawimg/img"
	"github.com/srlehn/rawimg/internal/consts"
	"github.com/srlehn/rawimg/internal/encoder/encmulti"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/mailbox"
	"github.com/srlehn/rawimg/paint"
	"github.com/srlehn/rawimg/pixfmt"
	"github.com/srlehn/rawimg/resize/rdefault"
)

var (
	// chosen defaults
	resizer paint.Resizer = &rdefault.Resizer{}
)

var (
	DefaultConfig = mailbox.Options{
		mailbox.SetInterval(consts.DefaultFrameInterval),
		mailbox.SetTargetFormat(img.PaintableFormat()),
		mailbox.SetSLogger(nil, false),
	}
)

// Pipeline connects a producer to a renderer: frames put into the
// mailbox are taken on every tick, made paintable, stored in the
// surface and rendered.
type Pipeline struct {
	Mailbox  *mailbox.Mailbox
	Consumer *mailbox.Consumer
	Surface  *paint.Surface
}

// NewPipeline builds a stopped pipeline with DefaultConfig followed by opts.
// r may be nil if frames are only read from the surface, rsz nil selects
// the default resizer.
func NewPipeline(r mailbox.Renderer, rsz paint.Resizer, opts ...mailbox.Option) (*Pipeline, error) {
	if rsz == nil {
		rsz = resizer
	}
	p := &Pipeline{
		Mailbox: mailbox.New(),
		Surface: paint.NewSurface(rsz),
	}
	allOpts := append(mailbox.Options{
		DefaultConfig,
		mailbox.SetSurface(p.Surface),
		mailbox.SetRenderer(r),
	}, opts...)
	c, err := mailbox.NewConsumer(p.Mailbox, allOpts...)
	if err != nil {
		return nil, err
	}
	p.Consumer = c
	if l := c.Logger(); l != nil {
		p.Surface.SetLogger(l)
	}
	return p, nil
}

// Put offers a frame, see mailbox.Mailbox.Put.
func (p *Pipeline) Put(frame *img.Image) bool {
	if p == nil {
		return false
	}
	return p.Mailbox.Put(frame)
}

func (p *Pipeline) Start(ctx context.Context) error {
	if p == nil {
		return errors.NilReceiver()
	}
	return p.Consumer.Start(ctx)
}

// Stop stops the consumer, releases a pending frame and the surface.
func (p *Pipeline) Stop() error {
	if p == nil {
		return errors.NilReceiver()
	}
	err := p.Consumer.Stop()
	p.Mailbox.Drain()
	return errors.Join(err, p.Surface.Close())
}

// Load decodes an image file (png, jpeg, gif, bmp, tiff, webp).
func Load(path string) (*img.Image, error) { return img.Load(path) }

// LoadRaw reads headerless pixel data of the given geometry.
// stride <= 0 means unpadded rows.
func LoadRaw(path string, width, height int, f pixfmt.Format, stride int) (*img.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &img.Image{}, errors.New(err)
	}
	return img.FromBytes(data, width, height, f, stride, nil)
}

// Save writes m as an image file if the extension of path names an
// encodable format and as raw bytes otherwise.
func Save(m *img.Image, path string) error {
	if encmulti.Supported(filepath.Ext(path)) {
		return m.Save(path, ``)
	}
	return m.SaveBinary(path)
}
