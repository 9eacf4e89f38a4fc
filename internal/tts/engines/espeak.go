package engines

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/antrian/loket/internal/audio"
	"github.com/antrian/loket/internal/tts"
)

// EspeakConfig configures the espeak-ng engine.
type EspeakConfig struct {
	Binary  string // defaults to espeak-ng
	Voice   string // espeak voice, defaults to the base language
	WPM     int    // words per minute at speed 1, defaults to 175
	Timeout time.Duration
}

// Espeak synthesises with espeak-ng, which writes a WAV file to stdout.
type Espeak struct {
	cfg EspeakConfig
	run runFunc
}

// NewEspeak creates an espeak-ng engine speaking language.
func NewEspeak(cfg EspeakConfig, language string) *Espeak {
	if cfg.Binary == "" {
		cfg.Binary = "espeak-ng"
	}
	if cfg.Voice == "" {
		cfg.Voice = tts.BaseLanguage(language)
	}
	if cfg.WPM == 0 {
		cfg.WPM = 175
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Espeak{cfg: cfg, run: runCommand}
}

func (e *Espeak) args(speed float64) []string {
	wpm := int(math.Round(float64(e.cfg.WPM) * speed))
	return []string{
		"-v", e.cfg.Voice,
		"-s", fmt.Sprint(max(wpm, 80)),
		"--stdin",
		"--stdout",
	}
}

// Synthesize implements tts.Engine.
func (e *Espeak) Synthesize(ctx context.Context, text string, speed float64) ([]byte, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	wav, err := e.run(ctx, e.cfg.Timeout, e.cfg.Binary, e.args(speed), []byte(text))
	if err != nil {
		return nil, err
	}
	pcm, err := audio.DecodeWAV(bytes.NewReader(wav), audio.Format{SampleRate: SampleRate, Channels: 1})
	if err != nil {
		return nil, tts.NewError(tts.ErrorCodeAudioFormat, "unable to decode espeak-ng output", err)
	}
	return pcm, nil
}

// Info implements tts.Engine.
func (e *Espeak) Info() tts.EngineInfo {
	return tts.EngineInfo{Name: "espeak", Voice: e.cfg.Voice, SampleRate: SampleRate}
}

// Validate implements tts.Engine.
func (e *Espeak) Validate() error {
	return lookPath(e.cfg.Binary, tts.EngineEspeak)
}

// Close implements tts.Engine.
func (e *Espeak) Close() error { return nil }
