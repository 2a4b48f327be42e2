package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/srlehn/rawimg/internal/errors"
	"github.com/srlehn/rawimg/pixfmt"
)

func init() {
	rootCmd.AddCommand(layoutCmd)
}

var layoutCmd = &cobra.Command{
	Use:   layoutCmdStr + ` <width> <height> <format> [stride]`,
	Short: `compute buffer layout`,
	Long:  `compute stride and size of a frame buffer`,
	Args:  cobra.RangeArgs(3, 4),
	Run: func(cmd *cobra.Command, args []string) {
		run(layoutFunc(args))
	},
}

var layoutCmdStr = "layout"

func layoutFunc(args []string) func() error {
	return func() error {
		w, h, f, err := parseGeometry(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		stride := -1
		if len(args) > 3 {
			if stride, err = strconv.Atoi(args[3]); err != nil {
				return errors.New(err)
			}
		}
		l, err := pixfmt.ComputeLayout(w, h, f, stride)
		if err != nil {
			return err
		}
		fmt.Printf("format:     %s\n", f)
		fmt.Printf("size:       %dx%d\n", w, h)
		fmt.Printf("depth:      %d bit\n", l.Depth)
		fmt.Printf("precision:  %d bit\n", l.BitPlaneCount)
		fmt.Printf("stride:     %d bytes\n", l.Stride)
		fmt.Printf("total:      %s (%d bytes)\n", humanize.IBytes(uint64(l.TotalBytes)), l.TotalBytes)
		fmt.Printf("continuous: %t\n", l.Continuous)
		return nil
	}
}

func parseGeometry(width, height, format string) (w, h int, f pixfmt.Format, err error) {
	if w, err = strconv.Atoi(width); err != nil {
		return 0, 0, pixfmt.Invalid, errors.New(err)
	}
	if h, err = strconv.Atoi(height); err != nil {
		return 0, 0, pixfmt.Invalid, errors.New(err)
	}
	f, ok := pixfmt.ParseFormat(format)
	if !ok {
		return 0, 0, pixfmt.Invalid, errors.Mark(pixfmt.ErrUnsupportedFormat, `%q (see "%s formats")`, format, rootCmd.Name())
	}
	return w, h, f, nil
}
