package app

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"tsvplot/hal"
	"tsvplot/internal/buildinfo"
	"tsvplot/plot"
)

// Main runs the tsvplot command line and returns the process exit status.
func Main(args []string, stdout, stderr io.Writer, run plot.Runner) int {
	fs := flag.NewFlagSet("tsvplot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "Show version info.")
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintln(out, "tsvplot --- Plots the columns of a tab-separated file")
		fmt.Fprintln(out, "Usage: tsvplot [options] data.tsv")
		fmt.Fprintln(out, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *showVersion {
		fmt.Fprintln(stdout, "tsvplot version "+buildinfo.Short())
		return 0
	}

	log := hal.NewLogger(stderr)
	if fs.NArg() > 1 {
		log.WriteLineString(fmt.Sprintf("ERROR: expected one input file, got %d", fs.NArg()))
		fs.Usage()
		return 1
	}

	if err := Run(Config{Path: fs.Arg(0), Logger: log, Run: run}); err != nil {
		log.WriteLineString("ERROR: " + err.Error())
		return 1
	}
	return 0
}
