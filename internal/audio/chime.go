package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ErrUnsupportedWAV is returned for WAV files that aren't integer PCM.
var ErrUnsupportedWAV = errors.New("unsupported WAV encoding")

const maxChunkSize = 64 << 20

// Tone is one note of a synthesised chime.
type Tone struct {
	Freq     float64 // Hz
	Duration float64 // seconds
}

// DefaultChime is a two-note "ding-dong".
var DefaultChime = []Tone{
	{Freq: 880, Duration: 0.35},
	{Freq: 659.25, Duration: 0.55},
}

// Synthesize renders tones as PCM in format f. Each note decays
// exponentially so consecutive notes don't click.
func Synthesize(f Format, tones []Tone) []byte {
	var buf bytes.Buffer
	for _, t := range tones {
		frames := int(t.Duration * float64(f.SampleRate))
		for i := 0; i < frames; i++ {
			x := float64(i) / float64(f.SampleRate)
			attack := math.Min(1, x/0.005)
			env := attack * math.Exp(-4*x/t.Duration)
			v := 0.6 * env * (math.Sin(2*math.Pi*t.Freq*x) + 0.25*math.Sin(4*math.Pi*t.Freq*x)) / 1.25
			s := int16(v * math.MaxInt16)
			for c := 0; c < f.Channels; c++ {
				_ = binary.Write(&buf, binary.LittleEndian, s)
			}
		}
	}
	return buf.Bytes()
}

// LoadWAV reads an integer PCM WAV file and converts it to format f.
func LoadWAV(path string, f Format) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeWAV(bytes.NewReader(b), f)
}

type wavFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// DecodeWAV parses a RIFF/WAVE stream and converts its samples to format
// f, down-mixing or duplicating channels and resampling linearly.
func DecodeWAV(r io.Reader, f Format) ([]byte, error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("unable to read WAV header: %w", err)
	}
	if string(hdr[0:4]) != "RIFF" || string(hdr[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}

	var fmtChunk *wavFormat
	var data []byte
	for data == nil {
		var id [4]byte
		var size uint32
		if _, err := io.ReadFull(r, id[:]); err != nil {
			return nil, fmt.Errorf("missing data chunk: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("truncated chunk header: %w", err)
		}
		if size > maxChunkSize {
			return nil, fmt.Errorf("%q chunk too large: %d bytes", string(id[:]), size)
		}
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, fmt.Errorf("truncated %q chunk: %w", string(id[:]), err)
		}
		if size%2 == 1 {
			_, _ = io.ReadFull(r, make([]byte, 1))
		}

		switch string(id[:]) {
		case "fmt ":
			if size < 16 {
				return nil, errors.New("fmt chunk too short")
			}
			var wf wavFormat
			_ = binary.Read(bytes.NewReader(body), binary.LittleEndian, &wf)
			fmtChunk = &wf
		case "data":
			if fmtChunk == nil {
				return nil, errors.New("data chunk before fmt chunk")
			}
			data = body
		}
	}

	// 1 = PCM, 0xFFFE = WAVE_FORMAT_EXTENSIBLE (integer PCM assumed).
	if fmtChunk.AudioFormat != 1 && fmtChunk.AudioFormat != 0xFFFE {
		return nil, fmt.Errorf("%w: format tag %d", ErrUnsupportedWAV, fmtChunk.AudioFormat)
	}
	if fmtChunk.Channels == 0 || fmtChunk.SampleRate == 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedWAV, fmtChunk.Channels, fmtChunk.SampleRate)
	}

	samples, err := decodeSamples(data, int(fmtChunk.BitsPerSample), int(fmtChunk.Channels))
	if err != nil {
		return nil, err
	}
	samples = remix(samples, f.Channels)
	samples = resample(samples, int(fmtChunk.SampleRate), f.SampleRate)
	return encodeS16LE(samples), nil
}

// decodeSamples returns one float slice per input frame, values in [-1, 1].
func decodeSamples(data []byte, bits, channels int) ([][]float64, error) {
	width := bits / 8
	switch bits {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedWAV, bits)
	}

	frame := width * channels
	out := make([][]float64, 0, len(data)/frame)
	for off := 0; off+frame <= len(data); off += frame {
		ch := make([]float64, channels)
		for c := 0; c < channels; c++ {
			p := data[off+c*width:]
			switch bits {
			case 8:
				ch[c] = (float64(p[0]) - 128) / 128
			case 16:
				ch[c] = float64(int16(binary.LittleEndian.Uint16(p))) / 32768
			case 24:
				v := int32(uint32(p[0])<<8|uint32(p[1])<<16|uint32(p[2])<<24) >> 8
				ch[c] = float64(v) / 8388608
			case 32:
				ch[c] = float64(int32(binary.LittleEndian.Uint32(p))) / 2147483648
			}
		}
		out = append(out, ch)
	}
	return out, nil
}

func remix(frames [][]float64, channels int) [][]float64 {
	out := make([][]float64, len(frames))
	for i, in := range frames {
		o := make([]float64, channels)
		switch {
		case len(in) == channels:
			copy(o, in)
		case channels == 1:
			var sum float64
			for _, v := range in {
				sum += v
			}
			o[0] = sum / float64(len(in))
		default:
			for c := range o {
				o[c] = in[c%len(in)]
			}
		}
		out[i] = o
	}
	return out
}

func resample(frames [][]float64, from, to int) [][]float64 {
	if from == to || len(frames) == 0 {
		return frames
	}
	n := int(int64(len(frames)) * int64(to) / int64(from))
	out := make([][]float64, n)
	ratio := float64(from) / float64(to)
	for i := range out {
		pos := float64(i) * ratio
		j := int(pos)
		frac := pos - float64(j)
		a := frames[min(j, len(frames)-1)]
		b := frames[min(j+1, len(frames)-1)]
		o := make([]float64, len(a))
		for c := range o {
			o[c] = a[c] + (b[c]-a[c])*frac
		}
		out[i] = o
	}
	return out
}

func encodeS16LE(frames [][]float64) []byte {
	if len(frames) == 0 {
		return nil
	}
	out := make([]byte, 0, len(frames)*len(frames[0])*2)
	for _, fr := range frames {
		for _, v := range fr {
			v = math.Max(-1, math.Min(1, v))
			out = binary.LittleEndian.AppendUint16(out, uint16(int16(math.Round(v*32767))))
		}
	}
	return out
}
