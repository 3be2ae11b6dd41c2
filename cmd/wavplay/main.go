package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"tsvplot/app"
	"tsvplot/hal"
	"tsvplot/hal/audio"
	"tsvplot/internal/buildinfo"
)

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version info.")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "wavplay --- Plays a wave file")
		fmt.Fprintln(out, "Usage: wavplay [options] sound.wav")
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println("wavplay version " + buildinfo.Short())
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := hal.NewLogger(os.Stderr)
	if err := app.Play(ctx, log, flag.Arg(0), audio.Play); err != nil {
		log.WriteLineString("ERROR: " + err.Error())
		stop()
		os.Exit(1)
	}
}
