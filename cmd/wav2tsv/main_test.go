package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tsvplot/hal"
	"tsvplot/table"
)

func monoWAV(samples ...int16) []byte {
	var data bytes.Buffer
	for _, s := range samples {
		_ = binary.Write(&data, binary.LittleEndian, s)
	}

	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+data.Len()))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	for _, v := range []any{uint32(16), uint16(1), uint16(1), uint32(8000), uint32(16000), uint16(2), uint16(16)} {
		_ = binary.Write(&b, binary.LittleEndian, v)
	}
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, uint32(data.Len()))
	b.Write(data.Bytes())
	return b.Bytes()
}

func TestConvertDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "tone.wav")
	if err := os.WriteFile(in, monoWAV(0, 100, -100), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var log bytes.Buffer
	if err := convert(hal.NewLogger(&log), in, ""); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(log.String(), "8000 Hz sampling, 16-bit, 1 channel") {
		t.Fatalf("log = %q", log.String())
	}

	tbl, err := table.Load(in + ".tsv")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Rows() != 3 || tbl.NumColumns() != 1 {
		t.Fatalf("shape = %dx%d", tbl.Rows(), tbl.NumColumns())
	}
	if v := tbl.Column(0).Values; v[0] != 0 || v[1] != 100 || v[2] != -100 {
		t.Fatalf("values = %v", v)
	}
}

func TestConvertMissingInput(t *testing.T) {
	err := convert(hal.NewLogger(&bytes.Buffer{}), filepath.Join(t.TempDir(), "none.wav"), "")
	if err == nil {
		t.Fatal("expected error for missing input")
	}
}
