package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/srlehn/rawimg/internal/errors"
)

var rootCmd = &cobra.Command{
	Use:              filepath.Base(os.Args[0]),
	Short:            "rawimg inspect and convert raw camera frames",
	Long:             "rawimg inspect and convert raw camera frames (bayer, yuv 4:2:2, rgb, grayscale)",
	SilenceUsage:     true,
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, `debug`, `d`, false, `debug errors and log at debug level`)
	rootCmd.PersistentFlags().BoolVarP(&silentFlag, `silent`, `s`, false, `silence errors`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	debugFlag      bool
	silentFlag     bool
	cpuProfileFlag string
	cpuProfilefunc func(profileFile string) func()
)

// logHandler writes text logs to stderr, debug level with --debug.
func logHandler() slog.Handler {
	lvl := slog.LevelInfo
	if debugFlag {
		lvl = slog.LevelDebug
	}
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
}

func run(fn func() error) {
	var err error
	if fn == nil {
		err = errors.NilParam()
	} else {
		if len(cpuProfileFlag) > 0 && cpuProfilefunc != nil {
			if stop := cpuProfilefunc(cpuProfileFlag); stop != nil {
				defer stop()
			}
		}
		err = fn()
	}
	if err == nil {
		return
	}
	if !silentFlag {
		if stackFramer, ok := err.(interface{ ErrorStack() string }); debugFlag && ok {
			fmt.Fprintln(os.Stderr, stackFramer.ErrorStack())
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
	}
	os.Exit(1)
}
