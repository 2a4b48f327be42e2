package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/srlehn/rawimg"
	"github.com/srlehn/rawimg/img"
	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/internal/logx"
	"github.com/srlehn/rawimg/pixfmt"
)

func init() {
	convertCmd.Flags().IntVar(&convertStrideFlag, `stride`, -1, `bytes per input row, unpadded if not positive`)
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   convertCmdStr + ` <in.raw> <width> <height> <from> <to> <out>`,
	Short: `convert a raw frame`,
	Long: `convert a headerless raw frame into another pixel format.
the output is encoded by its file extension (png, jpeg, gif, bmp, tiff),
other extensions get the raw bytes`,
	Args: cobra.ExactArgs(6),
	Run: func(cmd *cobra.Command, args []string) {
		run(convertFunc(args))
	},
}

var (
	convertCmdStr     = "convert"
	convertStrideFlag int
)

func convertFunc(args []string) func() error {
	return func() error {
		w, h, from, err := parseGeometry(args[1], args[2], args[3])
		if err != nil {
			return err
		}
		to, ok := pixfmt.ParseFormat(args[4])
		if !ok {
			return errors.Mark(pixfmt.ErrUnsupportedFormat, `%q`, args[4])
		}
		lp := logx.Prov(slog.New(logHandler()))
		in, err := rawimg.LoadRaw(args[0], w, h, from, convertStrideFlag)
		if err != nil {
			return err
		}
		defer in.Release()
		out := &img.Image{}
		defer func() { out.Release() }()
		err = logx.TimeIt(func() error {
			var err error
			out, err = in.ConvertTo(to)
			return err
		}, `convert`, lp, `from`, from, `to`, to, `size`, fmt.Sprintf(`%dx%d`, w, h))
		if err != nil {
			return err
		}
		return rawimg.Save(out, args[5])
	}
}
