package main

import (
	"image"
	"image/draw"

	"github.com/spf13/cobra"
	"github.com/srlehn/thumbnails"

	"github.com/srlehn/rawimg"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/internal/synth"
	"github.com/srlehn/rawimg/pixfmt"
)

func init() {
	thumbCmd.Flags().IntVar(&thumbSizeFlag, `size`, 256, `thumbnail height`)
	thumbCmd.Flags().StringVarP(&thumbFormatFlag, `format`, `f`, pixfmt.RGB24.String(), `pixel format of the output`)
	rootCmd.AddCommand(thumbCmd)
}

var thumbCmd = &cobra.Command{
	Use:   thumbCmdStr + ` <file> <out>`,
	Short: `extract a thumbnail as a raw frame`,
	Long: `extract the thumbnail of a file (xdg thumbnail cache, embedded previews)
and store it in a pixel format, e.g. to feed a reference frame to a viewer.
the output is encoded by its file extension, other extensions get the raw bytes`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		run(thumbFunc(args))
	},
}

var (
	thumbCmdStr     = "thumb"
	thumbSizeFlag   int
	thumbFormatFlag string
)

func thumbFunc(args []string) func() error {
	return func() error {
		f, ok := pixfmt.ParseFormat(thumbFormatFlag)
		if !ok {
			return errors.Mark(pixfmt.ErrUnsupportedFormat, `%q`, thumbFormatFlag)
		}
		m, err := thumbnails.OpenThumbnail(args[0], image.Point{Y: thumbSizeFlag}, true)
		if err != nil {
			return errors.New(err)
		}
		rgba, ok := m.(*image.RGBA)
		if !ok {
			b := m.Bounds()
			rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
			draw.Draw(rgba, rgba.Bounds(), m, b.Min, draw.Src)
		}
		frame, err := synth.Encode(rgba, f)
		if err != nil {
			return err
		}
		defer frame.Release()
		return rawimg.Save(frame, args[1])
	}
}
