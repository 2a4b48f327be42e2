package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/srlehn/rawimg/convert"
	"github.com/srlehn/rawimg/pixfmt"
)

func init() {
	rootCmd.AddCommand(formatsCmd)
}

var formatsCmd = &cobra.Command{
	Use:   formatsCmdStr,
	Short: `list pixel formats`,
	Long:  `list pixel formats with depth, bit plane count, channels and whether they can be converted into`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(formatsFunc)
	},
}

var formatsCmdStr = "formats"

var familyNames = map[pixfmt.Family]string{
	pixfmt.FamilyBayer: `bayer`,
	pixfmt.FamilyYUV:   `yuv`,
	pixfmt.FamilyRGB:   `rgb`,
	pixfmt.FamilyGray:  `gray`,
}

func formatsFunc() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFAMILY\tDEPTH\tBITS\tCHANNELS\tTARGET")
	for _, f := range pixfmt.Formats() {
		target := `-`
		if convert.Lookup(f) != nil {
			target = `yes`
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			f, familyNames[f.Family()], f.Depth(), f.BitPlaneCount(), f.Channels(), target)
	}
	return w.Flush()
}
