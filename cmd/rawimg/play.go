package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/srlehn/rawimg"
	"github.com/srlehn/rawimg/img"
	"github.com/srlehn/rawimg/internal/consts"
	"github.com/srlehn/rawimg/internal/encoder/encmulti"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/internal/synth"
	"github.com/srlehn/rawimg/mailbox"
	"github.com/srlehn/rawimg/pixfmt"
	"github.com/srlehn/rawimg/resize/rdefault"
	"github.com/srlehn/rawimg/video/ffmpeg"
)

func init() {
	playCmd.Flags().IntVarP(&playFramesFlag, `frames`, `n`, 120, `number of frames to produce`)
	playCmd.Flags().StringVar(&playSizeFlag, `size`, `320x240`, `sensor size`)
	playCmd.Flags().StringVarP(&playFormatFlag, `format`, `f`, pixfmt.Bayer8RGGB.String(), `sensor pixel format`)
	playCmd.Flags().Float64Var(&playFPSFlag, `fps`, 90, `producer frame rate`)
	playCmd.Flags().DurationVar(&playIntervalFlag, `interval`, consts.DefaultFrameInterval, `consumer tick interval`)
	playCmd.Flags().StringVar(&playResizerFlag, `resizer`, `default`, fmt.Sprintf(`resizer, one of %v`, rdefault.Names()))
	playCmd.Flags().StringVar(&playViewFlag, `view`, `640x360`, `size of the view the last frame is scaled into`)
	playCmd.Flags().StringVarP(&playOutFlag, `out`, `o`, `last.png`, `file the scaled last frame is written to`)
	playCmd.Flags().StringVar(&playVideoFlag, `video`, ``, `decode frames from this video file with ffmpeg instead of the synthetic sensor`)
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   playCmdStr,
	Short: `run a synthetic camera through the frame pipeline`,
	Long: `run a synthetic camera through the frame pipeline.
frames arriving while the consumer is busy are dropped.
the last frame is scaled into the view size and saved`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(playFunc)
	},
}

var (
	playCmdStr       = "play"
	playFramesFlag   int
	playSizeFlag     string
	playFormatFlag   string
	playFPSFlag      float64
	playIntervalFlag time.Duration
	playResizerFlag  string
	playViewFlag     string
	playOutFlag      string
	playVideoFlag    string
)

func parseSize(s string) (image.Point, error) {
	var p image.Point
	if _, err := fmt.Sscanf(s, `%dx%d`, &p.X, &p.Y); err != nil {
		return p, errors.Errorf(`size %q: %w`, s, err)
	}
	if p.X <= 0 || p.Y <= 0 {
		return p, errors.Mark(pixfmt.ErrInvalidDimensions, `%q`, s)
	}
	return p, nil
}

func playFunc() error {
	size, err := parseSize(playSizeFlag)
	if err != nil {
		return err
	}
	view, err := parseSize(playViewFlag)
	if err != nil {
		return err
	}
	f, ok := pixfmt.ParseFormat(playFormatFlag)
	if !ok {
		return errors.Mark(pixfmt.ErrUnsupportedFormat, `%q`, playFormatFlag)
	}
	if playFPSFlag <= 0 {
		return errors.Errorf(`non-positive frame rate %v`, playFPSFlag)
	}
	if !encmulti.Supported(playOutFlag) {
		return errors.Errorf(`unsupported output file format %q`, encmulti.FormatOf(playOutFlag))
	}
	rsz, err := rdefault.ByName(playResizerFlag)
	if err != nil {
		return err
	}
	var rendered atomic.Uint64
	p, err := rawimg.NewPipeline(
		mailbox.RendererFunc(func(*img.Image) error { rendered.Add(1); return nil }),
		rsz,
		mailbox.SetInterval(playIntervalFlag),
		mailbox.SetSLogger(logHandler(), true),
	)
	if err != nil {
		return err
	}
	defer p.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := p.Start(ctx); err != nil {
		return err
	}

	start := time.Now()
	var produced int
	put := func(frame *img.Image) bool {
		produced++
		return p.Put(frame)
	}
	if len(playVideoFlag) > 0 {
		err = ffmpeg.Stream(ctx, playVideoFlag, size.X, size.Y, f, int(playFPSFlag), put)
	} else {
		err = produceSynthetic(ctx, size, f, put)
	}
	if err != nil {
		return err
	}
	// let the consumer pick up the last accepted frame
	time.Sleep(2 * playIntervalFlag)
	if err := p.Consumer.Stop(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	scaled, offset, err := p.Surface.Scaled(view)
	if err != nil {
		return err
	}
	out, err := os.Create(playOutFlag)
	if err != nil {
		return errors.New(err)
	}
	if err := (&encmulti.MultiEncoder{}).Encode(out, scaled, playOutFlag); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return errors.New(err)
	}

	st := p.Mailbox.Stats()
	fmt.Printf("produced:  %d frames of %s %dx%d in %v\n", produced, f, size.X, size.Y, elapsed.Round(time.Millisecond))
	fmt.Printf("mailbox:   %d accepted, %d dropped, %d taken\n", st.Accepted, st.Rejected, st.Taken)
	fmt.Printf("consumer:  %d rendered, %d failed\n", rendered.Load(), p.Consumer.Failed())
	fmt.Printf("view:      %s at offset %v in %dx%d\n", playOutFlag, offset, view.X, view.Y)
	return nil
}

func produceSynthetic(ctx context.Context, size image.Point, f pixfmt.Format, put func(*img.Image) bool) error {
	sensor, err := synth.NewSensor(size.X, size.Y, f)
	if err != nil {
		return err
	}
	defer sensor.Close()
	ticker := time.NewTicker(time.Duration(float64(time.Second) / playFPSFlag))
	defer ticker.Stop()
	for n := 0; n < playFramesFlag; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		frame, err := sensor.Frame(n)
		if err != nil {
			return err
		}
		if !put(frame) {
			frame.Release()
		}
	}
	return nil
}
