package tts

import (
	"context"
	"time"
)

// Engine turns text into 16-bit mono PCM at the engine's sample rate.
type Engine interface {
	// Synthesize renders text. speed is a tempo factor, 1 is normal.
	// Implementations stop work when ctx is done.
	Synthesize(ctx context.Context, text string, speed float64) ([]byte, error)

	// Info describes the engine output.
	Info() EngineInfo

	// Validate checks that the programs and files the engine needs exist.
	Validate() error

	Close() error
}

// EngineInfo describes an engine.
type EngineInfo struct {
	Name       string
	Voice      string // language or model, part of the cache key
	SampleRate int
	IsOnline   bool
}

// EngineType names a supported engine.
type EngineType string

const (
	EngineNone   EngineType = ""
	EngineEspeak EngineType = "espeak"
	EnginePiper  EngineType = "piper"
	EngineGTTS   EngineType = "gtts"
	EngineMock   EngineType = "mock"
)

// Config configures the announcer.
type Config struct {
	Engine    EngineType
	Language  string        // BCP 47 tag, e.g. "id"
	Speed     float64       // tempo factor
	Delay     time.Duration // wait between a call and its announcement
	Template  string        // phrase template, see Phrase
	QueueSize int
	Volume    float64
}

// DefaultTemplate is the spoken phrase for a call.
const DefaultTemplate = "Nomor antrian {{.Number}}, menuju {{.Counter}}"

// DefaultConfig returns the announcer defaults.
func DefaultConfig() Config {
	return Config{
		Engine:    EngineEspeak,
		Language:  "id",
		Speed:     0.9,
		Delay:     300 * time.Millisecond,
		Template:  DefaultTemplate,
		QueueSize: 16,
		Volume:    1.0,
	}
}
