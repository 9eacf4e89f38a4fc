package engines

import (
	"context"
	"fmt"
	"time"

	"github.com/antrian/loket/internal/tts"
	"golang.org/x/time/rate"
)

// GTTSConfig configures the gTTS engine.
type GTTSConfig struct {
	Slow bool
	// RequestsPerMinute keeps Google from throttling us, defaults to 50.
	RequestsPerMinute int
	Timeout           time.Duration
}

// GTTS fetches speech from Google Translate with gtts-cli and converts the
// MP3 to PCM with ffmpeg. Both run as pipes, nothing touches the disk.
type GTTS struct {
	cfg      GTTSConfig
	language string
	limiter  *rate.Limiter
	run      runFunc
}

// NewGTTS creates a gTTS engine speaking language.
func NewGTTS(cfg GTTSConfig, language string) *GTTS {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &GTTS{
		cfg:      cfg,
		language: tts.BaseLanguage(language),
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		run:      runCommand,
	}
}

func (g *GTTS) gttsArgs() []string {
	// "-" reads the text from stdin, the MP3 goes to stdout.
	args := []string{"-", "-l", g.language}
	if g.cfg.Slow {
		args = append(args, "--slow")
	}
	return args
}

// atempo clamps speed to the range ffmpeg's atempo filter accepts.
func atempo(speed float64) float64 {
	return min(max(speed, 0.5), 2.0)
}

func ffmpegArgs(speed float64) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", fmt.Sprint(SampleRate),
		"-ac", "1",
	}
	if speed != 1.0 {
		args = append(args, "-filter:a", fmt.Sprintf("atempo=%.2f", atempo(speed)))
	}
	return append(args, "pipe:1")
}

// Synthesize implements tts.Engine.
func (g *GTTS) Synthesize(ctx context.Context, text string, speed float64) ([]byte, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, tts.NewError(tts.ErrorCodeCanceled, "rate limit wait canceled", err)
	}

	mp3, err := g.run(ctx, g.cfg.Timeout, "gtts-cli", g.gttsArgs(), []byte(text))
	if err != nil {
		return nil, err
	}
	pcm, err := g.run(ctx, 15*time.Second, "ffmpeg", ffmpegArgs(speed), mp3)
	if err != nil {
		return nil, err
	}
	return evenLength(pcm), nil
}

// Info implements tts.Engine.
func (g *GTTS) Info() tts.EngineInfo {
	return tts.EngineInfo{Name: "gtts", Voice: g.language, SampleRate: SampleRate, IsOnline: true}
}

// Validate implements tts.Engine.
func (g *GTTS) Validate() error {
	return tts.CheckPrograms(tts.EngineGTTS)
}

// Close implements tts.Engine.
func (g *GTTS) Close() error { return nil }
