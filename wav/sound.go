package wav

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"tsvplot/table"
)

// ErrSample reports text input that cannot become PCM samples.
var ErrSample = errors.New("wav: bad sample")

// DefaultRate is the sample rate used when none is given.
const DefaultRate = 44100

// Sound is a PCM stream held in memory. Samples are interleaved by frame and
// hold 0..255 for 8-bit streams and -32768..32767 for 16-bit streams.
type Sound struct {
	SampleRate    uint32
	Channels      uint16
	BitsPerSample uint16
	Samples       []int
}

// Header returns the header describing s.
func (s *Sound) Header() *Header {
	return &Header{
		SampleRate:    s.SampleRate,
		Channels:      s.Channels,
		BitsPerSample: s.BitsPerSample,
		DataSize:      uint32(len(s.Samples) * int(s.BitsPerSample/8)),
	}
}

// Frames returns the number of sample frames.
func (s *Sound) Frames() int {
	if s.Channels == 0 {
		return 0
	}
	return len(s.Samples) / int(s.Channels)
}

// ReadSound decodes a whole WAVE stream.
func ReadSound(r io.Reader) (*Sound, error) {
	br := bufio.NewReader(r)
	h, err := Decode(br)
	if err != nil {
		return nil, err
	}
	s := &Sound{SampleRate: h.SampleRate, Channels: h.Channels, BitsPerSample: h.BitsPerSample}
	frame := make([]byte, h.frameSize())
	for i := 0; i < h.Frames(); i++ {
		if _, err := io.ReadFull(br, frame); err != nil {
			return nil, fmt.Errorf("wav: frame %d: %w", i, err)
		}
		for c := 0; c < int(h.Channels); c++ {
			s.Samples = append(s.Samples, sampleAt(frame, c, h.BitsPerSample))
		}
	}
	return s, nil
}

// WriteHeader writes a 44-byte RIFF/WAVE header for a PCM stream of h.DataSize bytes.
func WriteHeader(w io.Writer, h *Header) error {
	if h.Channels == 0 || (h.BitsPerSample != 8 && h.BitsPerSample != 16) {
		return fmt.Errorf("%w: %d channel, %d-bit", ErrFormat, h.Channels, h.BitsPerSample)
	}
	align := uint32(h.frameSize())
	var b [44]byte
	copy(b[0:4], "RIFF")
	binary.LittleEndian.PutUint32(b[4:8], 36+h.DataSize+h.DataSize%2)
	copy(b[8:12], "WAVE")
	copy(b[12:16], "fmt ")
	binary.LittleEndian.PutUint32(b[16:20], 16)
	binary.LittleEndian.PutUint16(b[20:22], 1)
	binary.LittleEndian.PutUint16(b[22:24], h.Channels)
	binary.LittleEndian.PutUint32(b[24:28], h.SampleRate)
	binary.LittleEndian.PutUint32(b[28:32], h.SampleRate*align)
	binary.LittleEndian.PutUint16(b[32:34], uint16(align))
	binary.LittleEndian.PutUint16(b[34:36], h.BitsPerSample)
	copy(b[36:40], "data")
	binary.LittleEndian.PutUint32(b[40:44], h.DataSize)
	_, err := w.Write(b[:])
	return err
}

// Encode writes s as a PCM WAVE file.
func (s *Sound) Encode(w io.Writer) error {
	h := s.Header()
	bw := bufio.NewWriter(w)
	if err := WriteHeader(bw, h); err != nil {
		return err
	}
	for _, v := range s.Samples {
		var err error
		if s.BitsPerSample == 8 {
			err = bw.WriteByte(byte(v))
		} else {
			_, err = bw.Write(binary.LittleEndian.AppendUint16(nil, uint16(int16(v))))
		}
		if err != nil {
			return err
		}
	}
	if h.DataSize%2 == 1 {
		if err := bw.WriteByte(0); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WithChannels returns s with n channels. Mono is duplicated into stereo and
// stereo is averaged into mono.
func (s *Sound) WithChannels(n int) (*Sound, error) {
	switch {
	case n == int(s.Channels):
		return s, nil
	case s.Channels == 1 && n == 2:
		out := &Sound{SampleRate: s.SampleRate, Channels: 2, BitsPerSample: s.BitsPerSample}
		out.Samples = make([]int, 0, 2*len(s.Samples))
		for _, v := range s.Samples {
			out.Samples = append(out.Samples, v, v)
		}
		return out, nil
	case s.Channels == 2 && n == 1:
		out := &Sound{SampleRate: s.SampleRate, Channels: 1, BitsPerSample: s.BitsPerSample}
		out.Samples = make([]int, 0, len(s.Samples)/2)
		for i := 0; i+1 < len(s.Samples); i += 2 {
			out.Samples = append(out.Samples, (s.Samples[i]+s.Samples[i+1])/2)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d to %d channels", ErrFormat, s.Channels, n)
}

// WithBits returns s rescaled to 8 or 16 bits per sample.
func (s *Sound) WithBits(bits int) (*Sound, error) {
	switch {
	case bits == int(s.BitsPerSample):
		return s, nil
	case bits != 8 && bits != 16:
		return nil, fmt.Errorf("%w: %d-bit samples", ErrFormat, bits)
	}
	out := &Sound{SampleRate: s.SampleRate, Channels: s.Channels, BitsPerSample: uint16(bits)}
	out.Samples = make([]int, len(s.Samples))
	for i, v := range s.Samples {
		if bits == 16 {
			out.Samples[i] = rescale(v, 0, math.MaxUint8, math.MinInt16, math.MaxInt16)
		} else {
			out.Samples[i] = rescale(v, math.MinInt16, math.MaxInt16, 0, math.MaxUint8)
		}
	}
	return out, nil
}

// rescale maps v from [lo1, hi1] onto [lo2, hi2], truncating toward zero.
func rescale(v, lo1, hi1, lo2, hi2 int) int {
	return (v-lo1)*(hi2-lo2)/(hi1-lo1) + lo2
}

// PCM16Stereo returns s as interleaved little-endian 16-bit stereo, the layout
// audio devices are opened with. Mono is sent to both sides; streams with more
// channels keep their first two.
func (s *Sound) PCM16Stereo() ([]byte, error) {
	s16, err := s.WithBits(16)
	if err != nil {
		return nil, err
	}
	ch := int(s16.Channels)
	out := make([]byte, 0, 4*s16.Frames())
	for f := 0; f < s16.Frames(); f++ {
		l := s16.Samples[f*ch]
		r := l
		if ch > 1 {
			r = s16.Samples[f*ch+1]
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(int16(l)))
		out = binary.LittleEndian.AppendUint16(out, uint16(int16(r)))
	}
	return out, nil
}

// ParseTSV reads tab-separated integer samples, one frame per line, as written
// by WriteTSV. The stream is 8-bit when every sample fits in 0..255 and 16-bit
// otherwise. A zero rate selects DefaultRate.
func ParseTSV(r io.Reader, rate uint32) (*Sound, error) {
	t, err := table.Parse(r)
	if err != nil {
		return nil, err
	}
	if t.Rows() == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrSample)
	}
	if t.NumColumns() > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d channels", ErrSample, t.NumColumns())
	}
	if rate == 0 {
		rate = DefaultRate
	}

	s := &Sound{SampleRate: rate, Channels: uint16(t.NumColumns()), BitsPerSample: 8}
	s.Samples = make([]int, 0, t.Rows()*t.NumColumns())
	cols := t.Columns()
	for c, col := range cols {
		if col.Kind != table.KindNumeric {
			return nil, fmt.Errorf("%w: column %d is not numeric", ErrSample, c)
		}
	}
	for row := 0; row < t.Rows(); row++ {
		for c, col := range cols {
			v := col.Values[row]
			if math.IsNaN(v) || v != math.Trunc(v) || v < math.MinInt16 || v > math.MaxInt16 {
				return nil, fmt.Errorf("%w: frame %d, column %d: %q", ErrSample, row, c, col.Text[row])
			}
			if v < 0 || v > math.MaxUint8 {
				s.BitsPerSample = 16
			}
			s.Samples = append(s.Samples, int(v))
		}
	}
	return s, nil
}
