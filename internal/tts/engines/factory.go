package engines

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/antrian/loket/internal/tts"
)

// Options holds per-engine settings for New.
type Options struct {
	Language string
	Espeak   EspeakConfig
	Piper    PiperConfig
	GTTS     GTTSConfig
}

// New builds and validates the engine named by et.
func New(et tts.EngineType, opts Options) (tts.Engine, error) {
	var e tts.Engine
	switch et {
	case tts.EngineEspeak:
		e = NewEspeak(opts.Espeak, opts.Language)
	case tts.EnginePiper:
		p, err := NewPiper(opts.Piper)
		if err != nil {
			return nil, err
		}
		e = p
	case tts.EngineGTTS:
		e = NewGTTS(opts.GTTS, opts.Language)
	case tts.EngineMock:
		e = NewMock()
	case tts.EngineNone:
		return nil, tts.ErrNoEngine
	default:
		return nil, fmt.Errorf("%w: %q", tts.ErrInvalidEngine, et)
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func lookPath(binary string, et tts.EngineType) error {
	if _, err := exec.LookPath(binary); err != nil {
		if programs := tts.RequiredPrograms(et); len(programs) > 0 && programs[0] == binary {
			return tts.CheckPrograms(et)
		}
		return tts.NewError(tts.ErrorCodeEngineUnavailable, binary+" not found in PATH", errors.Join(tts.ErrEngineNotAvailable, err))
	}
	return nil
}

var (
	_ tts.Engine = (*Espeak)(nil)
	_ tts.Engine = (*Piper)(nil)
	_ tts.Engine = (*GTTS)(nil)
	_ tts.Engine = (*Mock)(nil)
)
