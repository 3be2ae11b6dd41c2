package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"tsvplot/hal"
	"tsvplot/internal/buildinfo"
	"tsvplot/wav"
)

type options struct {
	channels int    // 0 keeps the input's
	bits     int    // 0 keeps the input's
	rate     uint32 // 0 keeps the input's
}

func main() {
	var (
		showVersion bool
		rate        uint
		opts        options
	)
	flag.BoolVar(&showVersion, "version", false, "Show version info.")
	flag.IntVar(&opts.channels, "channels", 0, "Specify the number of channels (1 or 2).")
	flag.IntVar(&opts.bits, "bits", 0, "Specify bits per sample (8 or 16).")
	flag.UintVar(&rate, "rate", 0, "Specify sampling rate.")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "wav2wav --- Converts a wave file to another wave file")
		fmt.Fprintln(out, "Usage: wav2wav [options] wave-file-1.wav [wave-file-2.wav]")
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Println("wav2wav version " + buildinfo.Short())
		return
	}
	log := hal.NewLogger(os.Stderr)
	if rate > 1<<32-1 {
		log.WriteLineString(fmt.Sprintf("ERROR: invalid sampling rate %d", rate))
		os.Exit(1)
	}
	opts.rate = uint32(rate)
	switch {
	case flag.NArg() == 0:
		log.WriteLineString("ERROR: no input file")
		os.Exit(1)
	case flag.NArg() > 2:
		flag.Usage()
		os.Exit(2)
	}

	if err := convert(log, flag.Arg(0), flag.Arg(1), opts); err != nil {
		log.WriteLineString("ERROR: " + err.Error())
		os.Exit(1)
	}
}

var errOption = errors.New("invalid option")

// convert rewrites inPath into outPath ("<input>.wav" if empty) with the
// channel count, sample width and rate of opts.
func convert(log hal.Logger, inPath, outPath string, opts options) error {
	if opts.channels != 0 && opts.channels != 1 && opts.channels != 2 {
		return fmt.Errorf("%w: -channels %d", errOption, opts.channels)
	}
	if opts.bits != 0 && opts.bits != 8 && opts.bits != 16 {
		return fmt.Errorf("%w: -bits %d", errOption, opts.bits)
	}
	if outPath == "" {
		outPath = inPath + ".wav"
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()
	s, err := wav.ReadSound(in)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	h := s.Header()
	log.WriteLineString(fmt.Sprintf("%s: %s (%.1f seconds)", inPath, h, h.Seconds()))

	if opts.channels != 0 {
		if s, err = s.WithChannels(opts.channels); err != nil {
			return fmt.Errorf("%s: %w", inPath, err)
		}
	}
	if opts.bits != 0 {
		if s, err = s.WithBits(opts.bits); err != nil {
			return fmt.Errorf("%s: %w", inPath, err)
		}
	}
	if opts.rate != 0 {
		s.SampleRate = opts.rate
	}
	h = s.Header()
	log.WriteLineString(fmt.Sprintf("%s: %s (%.1f seconds)", outPath, h, h.Seconds()))

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := s.Encode(out); err != nil {
		out.Close()
		return fmt.Errorf("%s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	log.WriteLineString(fmt.Sprintf("'%s' --> '%s' (OK)", inPath, outPath))
	return nil
}
