package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"tsvplot/hal"
	"tsvplot/internal/buildinfo"
	"tsvplot/wav"
)

func main() {
	var (
		showVersion bool
		rate        uint
	)
	flag.BoolVar(&showVersion, "version", false, "Show version info.")
	flag.UintVar(&rate, "rate", wav.DefaultRate, "Specify sampling rate.")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "tsv2wav --- Converts tab-separated samples to a wave file")
		fmt.Fprintln(out, "Usage #1: tsv2wav [options] text-file.tsv [sound-file.wav]")
		fmt.Fprintln(out, "Usage #2: cat text-file.tsv | tsv2wav [options] > sound-file.wav")
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println("tsv2wav version " + buildinfo.Short())
		return
	}
	log := hal.NewLogger(os.Stderr)
	if rate == 0 || rate > 1<<32-1 {
		log.WriteLineString(fmt.Sprintf("ERROR: invalid sampling rate %d", rate))
		os.Exit(1)
	}
	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	if err := convert(log, flag.Arg(0), flag.Arg(1), uint32(rate)); err != nil {
		log.WriteLineString("ERROR: " + err.Error())
		os.Exit(1)
	}
}

// convert reads inPath (stdin if empty) and writes outPath. Without an output
// path, a named input gets "<input>.wav" and stdin goes to stdout.
func convert(log hal.Logger, inPath, outPath string, rate uint32) error {
	var in io.Reader = os.Stdin
	inName := "stdin"
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
		inName = inPath
		if outPath == "" {
			outPath = inPath + ".wav"
		}
	}

	s, err := wav.ParseTSV(in, rate)
	if err != nil {
		return fmt.Errorf("%s: %w", inName, err)
	}
	h := s.Header()
	log.WriteLineString(fmt.Sprintf("%s: %s (%.1f seconds)", inName, h, h.Seconds()))

	outName := "stdout"
	if outPath == "" {
		if err := s.Encode(os.Stdout); err != nil {
			return fmt.Errorf("%s: %w", outName, err)
		}
	} else {
		outName = outPath
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := s.Encode(f); err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", outName, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	log.WriteLineString(fmt.Sprintf("'%s' --> '%s' (OK)", inName, outName))
	return nil
}
