// Package wav reads and writes PCM WAVE files and converts their samples to
// and from tab-separated text.
package wav

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	// ErrHeader reports a stream that is not a RIFF/WAVE file.
	ErrHeader = errors.New("wav: bad header")
	// ErrFormat reports a WAVE file this package cannot decode.
	ErrFormat = errors.New("wav: unsupported format")
)

// Header describes the PCM stream that follows it.
type Header struct {
	SampleRate    uint32
	Channels      uint16
	BitsPerSample uint16
	DataSize      uint32
}

// Frames returns the number of sample frames in the data chunk.
func (h *Header) Frames() int {
	fs := h.frameSize()
	if fs == 0 {
		return 0
	}
	return int(h.DataSize) / fs
}

func (h *Header) frameSize() int {
	return int(h.Channels) * int(h.BitsPerSample/8)
}

// Seconds returns the playing time of the data chunk.
func (h *Header) Seconds() float64 {
	if h.SampleRate == 0 {
		return 0
	}
	return float64(h.Frames()) / float64(h.SampleRate)
}

func (h *Header) String() string {
	return fmt.Sprintf("%d Hz sampling, %d-bit, %d channel", h.SampleRate, h.BitsPerSample, h.Channels)
}

// Decode reads chunks up to and including the data chunk header, leaving r
// positioned at the first sample. The fmt chunk must precede the data chunk.
func Decode(r io.Reader) (*Header, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHeader, err)
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return nil, ErrHeader
	}

	var (
		h        Header
		foundFmt bool
	)
	for {
		var ch [8]byte
		if _, err := io.ReadFull(r, ch[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: missing data chunk", ErrHeader)
			}
			return nil, err
		}
		id := string(ch[0:4])
		sz := binary.LittleEndian.Uint32(ch[4:8])

		switch id {
		case "fmt ":
			if sz < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrHeader)
			}
			var buf [16]byte
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return nil, err
			}
			if _, err := io.CopyN(io.Discard, r, int64(sz)-16); err != nil {
				return nil, err
			}
			audioFormat := binary.LittleEndian.Uint16(buf[0:2])
			h.Channels = binary.LittleEndian.Uint16(buf[2:4])
			h.SampleRate = binary.LittleEndian.Uint32(buf[4:8])
			h.BitsPerSample = binary.LittleEndian.Uint16(buf[14:16])
			if audioFormat != 1 {
				return nil, fmt.Errorf("%w: only PCM is supported (format=%d)", ErrFormat, audioFormat)
			}
			if h.Channels == 0 {
				return nil, fmt.Errorf("%w: zero channels", ErrFormat)
			}
			if h.BitsPerSample != 8 && h.BitsPerSample != 16 {
				return nil, fmt.Errorf("%w: %d-bit samples", ErrFormat, h.BitsPerSample)
			}
			foundFmt = true

		case "data":
			if !foundFmt {
				return nil, fmt.Errorf("%w: data chunk before fmt chunk", ErrHeader)
			}
			h.DataSize = sz
			return &h, nil

		default:
			if _, err := io.CopyN(io.Discard, r, int64(sz)); err != nil {
				return nil, err
			}
		}

		if sz%2 == 1 {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil {
				return nil, err
			}
		}
	}
}

// WriteTSV writes one line per frame with channel samples separated by tabs.
// 8-bit samples are written unsigned, 16-bit samples signed.
func WriteTSV(w io.Writer, r io.Reader, h *Header) error {
	fs := h.frameSize()
	if fs == 0 {
		return fmt.Errorf("%w: empty frame", ErrFormat)
	}
	bw := bufio.NewWriter(w)
	frame := make([]byte, fs)
	line := make([]byte, 0, 8*int(h.Channels))
	for i := 0; i < h.Frames(); i++ {
		if _, err := io.ReadFull(r, frame); err != nil {
			return fmt.Errorf("wav: frame %d: %w", i, err)
		}
		line = line[:0]
		for c := 0; c < int(h.Channels); c++ {
			if c > 0 {
				line = append(line, '\t')
			}
			line = strconv.AppendInt(line, int64(sampleAt(frame, c, h.BitsPerSample)), 10)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// sampleAt returns sample c of frame: 0..255 for 8-bit, signed for 16-bit.
func sampleAt(frame []byte, c int, bits uint16) int {
	if bits == 8 {
		return int(frame[c])
	}
	return int(int16(binary.LittleEndian.Uint16(frame[c*2:])))
}
