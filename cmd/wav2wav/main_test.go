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

func writeSound(t *testing.T, s *wav.Sound) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := s.Encode(f); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return path
}

func readSound(t *testing.T, path string) *wav.Sound {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	s, err := wav.ReadSound(f)
	if err != nil {
		t.Fatalf("ReadSound: %v", err)
	}
	return s
}

func TestConvertStereo16ToMono8(t *testing.T) {
	in := writeSound(t, &wav.Sound{
		SampleRate: 44100, Channels: 2, BitsPerSample: 16,
		Samples: []int{-32768, -32768, 32767, 32767},
	})

	var log bytes.Buffer
	if err := convert(hal.NewLogger(&log), in, "", options{channels: 1, bits: 8, rate: 8000}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(log.String(), "8000 Hz sampling, 8-bit, 1 channel") {
		t.Fatalf("log = %q", log.String())
	}

	want := &wav.Sound{SampleRate: 8000, Channels: 1, BitsPerSample: 8, Samples: []int{0, 255}}
	if diff := cmp.Diff(want, readSound(t, in+".wav")); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
}

func TestConvertKeepsFormat(t *testing.T) {
	src := &wav.Sound{SampleRate: 11025, Channels: 1, BitsPerSample: 8, Samples: []int{1, 2, 3}}
	in := writeSound(t, src)
	out := filepath.Join(t.TempDir(), "out.wav")
	if err := convert(hal.NewLogger(&bytes.Buffer{}), in, out, options{}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if diff := cmp.Diff(src, readSound(t, out)); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
}

func TestConvertRejectsOptions(t *testing.T) {
	for _, opts := range []options{{channels: 3}, {bits: 24}} {
		err := convert(hal.NewLogger(&bytes.Buffer{}), "unused.wav", "", opts)
		if !errors.Is(err, errOption) {
			t.Fatalf("%+v: err = %v", opts, err)
		}
	}
}
