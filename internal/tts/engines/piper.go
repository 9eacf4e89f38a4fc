package engines

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/antrian/loket/internal/tts"
)

// PiperConfig configures the Piper engine.
type PiperConfig struct {
	Binary     string // defaults to piper
	ModelPath  string // .onnx voice model, required
	ConfigPath string // defaults to <model>.onnx.json
	Speaker    int
	Timeout    time.Duration
}

// Piper synthesises with a local Piper voice model. Text goes in on stdin,
// raw PCM comes out on stdout.
type Piper struct {
	cfg PiperConfig
	run runFunc
}

// NewPiper creates a Piper engine. The model file must exist.
func NewPiper(cfg PiperConfig) (*Piper, error) {
	if cfg.ModelPath == "" {
		return nil, tts.NewError(tts.ErrorCodeEngineUnavailable, "piper needs tts.piper.model", tts.ErrEngineNotAvailable)
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, tts.NewError(tts.ErrorCodeEngineUnavailable, "piper model not found", err)
	}
	if cfg.Binary == "" {
		cfg.Binary = "piper"
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = cfg.ModelPath + ".json"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Piper{cfg: cfg, run: runCommand}, nil
}

// lengthScale converts a tempo factor to Piper's phoneme length scale.
func lengthScale(speed float64) float64 {
	if speed <= 0 {
		return 1
	}
	return 1 / speed
}

func (p *Piper) args(speed float64) []string {
	args := []string{
		"--model", p.cfg.ModelPath,
		"--output-raw",
		"--length_scale", fmt.Sprintf("%.2f", lengthScale(speed)),
	}
	if _, err := os.Stat(p.cfg.ConfigPath); err == nil {
		args = append(args, "--config", p.cfg.ConfigPath)
	}
	if p.cfg.Speaker > 0 {
		args = append(args, "--speaker", fmt.Sprint(p.cfg.Speaker))
	}
	return args
}

// Synthesize implements tts.Engine.
func (p *Piper) Synthesize(ctx context.Context, text string, speed float64) ([]byte, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	pcm, err := p.run(ctx, p.cfg.Timeout, p.cfg.Binary, p.args(speed), []byte(text+"\n"))
	if err != nil {
		return nil, err
	}
	return evenLength(pcm), nil
}

// Info implements tts.Engine.
func (p *Piper) Info() tts.EngineInfo {
	voice := strings.TrimSuffix(filepath.Base(p.cfg.ModelPath), filepath.Ext(p.cfg.ModelPath))
	return tts.EngineInfo{Name: "piper", Voice: voice, SampleRate: SampleRate}
}

// Validate implements tts.Engine.
func (p *Piper) Validate() error {
	return lookPath(p.cfg.Binary, tts.EnginePiper)
}

// Close implements tts.Engine.
func (p *Piper) Close() error { return nil }
