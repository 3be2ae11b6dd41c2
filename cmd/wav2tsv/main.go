package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"tsvplot/hal"
	"tsvplot/internal/buildinfo"
	"tsvplot/wav"
)

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version info.")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "wav2tsv --- Converts a wave file to tab-separated samples")
		fmt.Fprintln(out, "Usage #1: wav2tsv [options] sound-file.wav [text-file.tsv]")
		fmt.Fprintln(out, "Usage #2: cat sound-file.wav | wav2tsv [options] > text-file.tsv")
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println("wav2tsv version " + buildinfo.Short())
		return
	}
	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	log := hal.NewLogger(os.Stderr)
	inPath, outPath := flag.Arg(0), flag.Arg(1)
	if err := convert(log, inPath, outPath); err != nil {
		log.WriteLineString("ERROR: " + err.Error())
		os.Exit(1)
	}
}

// convert reads inPath (stdin if empty) and writes outPath. Without an output
// path, a named input gets "<input>.tsv" and stdin goes to stdout.
func convert(log hal.Logger, inPath, outPath string) error {
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
			outPath = inPath + ".tsv"
		}
	}

	br := bufio.NewReader(in)
	h, err := wav.Decode(br)
	if err != nil {
		return fmt.Errorf("%s: %w", inName, err)
	}
	log.WriteLineString(fmt.Sprintf("%s: %s (%.1f seconds)", inName, h, h.Seconds()))

	outName := "stdout"
	var out io.Writer = os.Stdout
	var outFile *os.File
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out, outFile = f, f
		outName = outPath
	}

	if err := wav.WriteTSV(out, br, h); err != nil {
		return fmt.Errorf("%s: %w", inName, err)
	}
	if outFile != nil {
		if err := outFile.Close(); err != nil {
			return err
		}
	}
	log.WriteLineString(fmt.Sprintf("'%s' --> '%s' (OK)", inName, outName))
	return nil
}
