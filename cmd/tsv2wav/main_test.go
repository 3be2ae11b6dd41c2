package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tsvplot/hal"
	"tsvplot/wav"

	"github.com/google/go-cmp/cmp"
)

func TestConvertDefaultOutput(t *testing.T) {
	in := filepath.Join(t.TempDir(), "tone.tsv")
	if err := os.WriteFile(in, []byte("0\t5\n-7\t300\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var log bytes.Buffer
	if err := convert(hal.NewLogger(&log), in, "", 8000); err != nil {
		t.Fatalf("convert: %v", err)
	}
	for _, want := range []string{"8000 Hz sampling, 16-bit, 2 channel", "--> '" + in + ".wav' (OK)"} {
		if !strings.Contains(log.String(), want) {
			t.Fatalf("log = %q, want %q", log.String(), want)
		}
	}

	f, err := os.Open(in + ".wav")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	s, err := wav.ReadSound(f)
	if err != nil {
		t.Fatalf("ReadSound: %v", err)
	}
	if diff := cmp.Diff([]int{0, 5, -7, 300}, s.Samples); diff != "" {
		t.Fatalf("samples (-want +got):\n%s", diff)
	}
}

func TestConvertBadSample(t *testing.T) {
	in := filepath.Join(t.TempDir(), "bad.tsv")
	if err := os.WriteFile(in, []byte("1\n2.5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := convert(hal.NewLogger(&bytes.Buffer{}), in, filepath.Join(t.TempDir(), "out.wav"), 8000)
	if !errors.Is(err, wav.ErrSample) {
		t.Fatalf("err = %v, want ErrSample", err)
	}
}
