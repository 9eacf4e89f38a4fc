package engines

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/antrian/loket/internal/tts"
)

type call struct {
	name  string
	args  []string
	stdin string
}

type fakeRunner struct {
	calls []call
	out   [][]byte
	err   error
}

func (f *fakeRunner) run(_ context.Context, _ time.Duration, name string, args []string, stdin []byte) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args, stdin: string(stdin)})
	if f.err != nil {
		return nil, f.err
	}
	out := f.out[0]
	f.out = f.out[1:]
	return out, nil
}

func wavMono(rate int, samples ...int16) []byte {
	var data bytes.Buffer
	_ = binary.Write(&data, binary.LittleEndian, samples)
	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+data.Len()))
	b.WriteString("WAVEfmt ")
	for _, v := range []any{uint32(16), uint16(1), uint16(1), uint32(rate), uint32(rate * 2), uint16(2), uint16(16)} {
		_ = binary.Write(&b, binary.LittleEndian, v)
	}
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, uint32(data.Len()))
	b.Write(data.Bytes())
	return b.Bytes()
}

func TestEspeak_Synthesize(t *testing.T) {
	fr := &fakeRunner{out: [][]byte{wavMono(SampleRate, 1, 2, 3)}}
	e := NewEspeak(EspeakConfig{}, "id-ID")
	e.run = fr.run

	pcm, err := e.Synthesize(context.Background(), "Nomor antrian 1, menuju Loket 1", 1.0)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(pcm) != 6 {
		t.Errorf("Expected 6 bytes of PCM, got %d", len(pcm))
	}

	c := fr.calls[0]
	if c.name != "espeak-ng" {
		t.Errorf("Expected espeak-ng, got %s", c.name)
	}
	want := []string{"-v", "id", "-s", "175", "--stdin", "--stdout"}
	if !reflect.DeepEqual(c.args, want) {
		t.Errorf("Expected args %v, got %v", want, c.args)
	}
	if c.stdin != "Nomor antrian 1, menuju Loket 1" {
		t.Errorf("Expected text on stdin, got %q", c.stdin)
	}
}

func TestEspeak_SpeedScalesWPM(t *testing.T) {
	e := NewEspeak(EspeakConfig{WPM: 200}, "id")
	if args := e.args(0.9); args[3] != "180" {
		t.Errorf("Expected 180 wpm, got %s", args[3])
	}
	if args := e.args(0.1); args[3] != "80" {
		t.Errorf("Expected wpm floor of 80, got %s", args[3])
	}
}

func TestEspeak_BadOutput(t *testing.T) {
	e := NewEspeak(EspeakConfig{}, "id")
	e.run = (&fakeRunner{out: [][]byte{[]byte("not wav")}}).run
	_, err := e.Synthesize(context.Background(), "halo", 1)
	if tts.CodeOf(err) != tts.ErrorCodeAudioFormat {
		t.Errorf("Expected AUDIO_FORMAT error, got %v", err)
	}
}

func TestEmptyTextRejected(t *testing.T) {
	for _, e := range []tts.Engine{NewEspeak(EspeakConfig{}, "id"), NewGTTS(GTTSConfig{}, "id"), NewMock()} {
		if _, err := e.Synthesize(context.Background(), "  ", 1); tts.CodeOf(err) != tts.ErrorCodeInvalidInput {
			t.Errorf("%s: expected INVALID_INPUT, got %v", e.Info().Name, err)
		}
	}
}

func TestPiper(t *testing.T) {
	if _, err := NewPiper(PiperConfig{}); err == nil {
		t.Error("Expected error without a model")
	}
	if _, err := NewPiper(PiperConfig{ModelPath: filepath.Join(t.TempDir(), "missing.onnx")}); err == nil {
		t.Error("Expected error for a missing model")
	}

	model := filepath.Join(t.TempDir(), "id_ID-news_tts-medium.onnx")
	if err := os.WriteFile(model, []byte("fake model"), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := NewPiper(PiperConfig{ModelPath: model})
	if err != nil {
		t.Fatalf("NewPiper failed: %v", err)
	}
	fr := &fakeRunner{out: [][]byte{{1, 2, 3, 4, 5}}}
	p.run = fr.run

	pcm, err := p.Synthesize(context.Background(), "Nomor antrian 2", 2.0)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(pcm) != 4 {
		t.Errorf("Expected trailing odd byte to be dropped, got %d bytes", len(pcm))
	}
	want := []string{"--model", model, "--output-raw", "--length_scale", "0.50"}
	if !reflect.DeepEqual(fr.calls[0].args, want) {
		t.Errorf("Expected args %v, got %v", want, fr.calls[0].args)
	}
	if fr.calls[0].stdin != "Nomor antrian 2\n" {
		t.Errorf("Expected newline-terminated text on stdin, got %q", fr.calls[0].stdin)
	}
	if info := p.Info(); info.Voice != "id_ID-news_tts-medium" || info.IsOnline {
		t.Errorf("Unexpected info %+v", info)
	}
}

func TestLengthScale(t *testing.T) {
	tests := []struct{ speed, want float64 }{
		{0.5, 2.0}, {1.0, 1.0}, {2.0, 0.5}, {0, 1},
	}
	for _, tt := range tests {
		if got := lengthScale(tt.speed); got != tt.want {
			t.Errorf("lengthScale(%v): expected %v, got %v", tt.speed, tt.want, got)
		}
	}
}

func TestGTTS_Pipeline(t *testing.T) {
	fr := &fakeRunner{out: [][]byte{[]byte("mp3"), {9, 9, 9, 9}}}
	g := NewGTTS(GTTSConfig{Slow: true}, "id-ID")
	g.run = fr.run

	pcm, err := g.Synthesize(context.Background(), "Nomor antrian 3", 0.9)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(pcm) != 4 {
		t.Errorf("Expected 4 bytes, got %d", len(pcm))
	}
	if len(fr.calls) != 2 || fr.calls[0].name != "gtts-cli" || fr.calls[1].name != "ffmpeg" {
		t.Fatalf("Expected gtts-cli then ffmpeg, got %+v", fr.calls)
	}
	if !reflect.DeepEqual(fr.calls[0].args, []string{"-", "-l", "id", "--slow"}) {
		t.Errorf("Unexpected gtts-cli args %v", fr.calls[0].args)
	}
	if fr.calls[1].stdin != "mp3" {
		t.Errorf("Expected MP3 piped into ffmpeg, got %q", fr.calls[1].stdin)
	}
	ff := strings.Join(fr.calls[1].args, " ")
	for _, part := range []string{"-f s16le", "-ar 22050", "-ac 1", "atempo=0.90"} {
		if !strings.Contains(ff, part) {
			t.Errorf("Expected ffmpeg args to contain %q, got %q", part, ff)
		}
	}
}

func TestGTTS_NormalSpeedHasNoFilter(t *testing.T) {
	if strings.Contains(strings.Join(ffmpegArgs(1.0), " "), "atempo") {
		t.Error("Expected no atempo filter at normal speed")
	}
	if atempo(5) != 2.0 || atempo(0.1) != 0.5 {
		t.Error("Expected atempo to clamp to [0.5, 2.0]")
	}
}

func TestGTTS_RunnerErrorPropagates(t *testing.T) {
	g := NewGTTS(GTTSConfig{}, "id")
	want := tts.NewError(tts.ErrorCodeEngineFailure, "gtts-cli failed", nil)
	g.run = (&fakeRunner{err: want}).run
	if _, err := g.Synthesize(context.Background(), "halo", 1); !errors.Is(err, want) {
		t.Errorf("Expected runner error, got %v", err)
	}
}

func TestMock(t *testing.T) {
	m := NewMock()
	pcm, err := m.Synthesize(context.Background(), strings.Repeat("a", 15), 1)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if len(pcm) != 2*SampleRate {
		t.Errorf("Expected one second of silence, got %d bytes", len(pcm))
	}
	if got := m.Texts(); len(got) != 1 {
		t.Errorf("Expected 1 recorded text, got %v", got)
	}

	m.Delay = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Synthesize(ctx, "halo", 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected canceled, got %v", err)
	}
}

func TestNew(t *testing.T) {
	e, err := New(tts.EngineMock, Options{})
	if err != nil {
		t.Fatalf("New(mock) failed: %v", err)
	}
	if e.Info().Name != "mock" {
		t.Errorf("Expected mock engine, got %s", e.Info().Name)
	}
	if _, err := New(tts.EngineNone, Options{}); !errors.Is(err, tts.ErrNoEngine) {
		t.Errorf("Expected ErrNoEngine, got %v", err)
	}
	if _, err := New("festival", Options{}); !errors.Is(err, tts.ErrInvalidEngine) {
		t.Errorf("Expected ErrInvalidEngine, got %v", err)
	}
	if _, err := New(tts.EnginePiper, Options{}); err == nil {
		t.Error("Expected piper without a model to fail")
	}
}

func TestEspeakMissingBinary(t *testing.T) {
	e := NewEspeak(EspeakConfig{Binary: "definitely-not-a-real-espeak"}, "id")
	err := e.Validate()
	if !errors.Is(err, tts.ErrEngineNotAvailable) {
		t.Errorf("Expected ErrEngineNotAvailable, got %v", err)
	}
}
