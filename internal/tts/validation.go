package tts

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// ParseEngine normalises an engine name. Empty means speech is off.
func ParseEngine(name string) (EngineType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return EngineNone, nil
	case "espeak", "espeak-ng":
		return EngineEspeak, nil
	case "piper":
		return EnginePiper, nil
	case "gtts", "google":
		return EngineGTTS, nil
	case "mock":
		return EngineMock, nil
	default:
		return EngineNone, fmt.Errorf("%w: %q (supported: espeak, piper, gtts, mock)", ErrInvalidEngine, name)
	}
}

// ValidateLanguage checks that tag is a well-formed BCP 47 tag and returns
// its canonical form.
func ValidateLanguage(tag string) (string, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", tag, err)
	}
	return t.String(), nil
}

// BaseLanguage returns the primary language subtag ("id" for "id-ID"),
// which gtts-cli and espeak voices are named after.
func BaseLanguage(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	base, _ := t.Base()
	return base.String()
}

// ValidateSpeed checks a tempo factor.
func ValidateSpeed(speed float64) error {
	if speed < 0.5 || speed > 2.0 {
		return fmt.Errorf("%w, got %.2f", ErrInvalidSpeed, speed)
	}
	return nil
}

// ValidateConfig checks cfg and returns it with the language normalised.
func ValidateConfig(cfg Config) (Config, error) {
	var errs []error

	lang, err := ValidateLanguage(cfg.Language)
	if err != nil {
		errs = append(errs, err)
	}
	cfg.Language = lang

	if err := ValidateSpeed(cfg.Speed); err != nil {
		errs = append(errs, err)
	}
	if cfg.Delay < 0 || cfg.Delay > time.Minute {
		errs = append(errs, fmt.Errorf("delay must be between 0 and 1m, got %v", cfg.Delay))
	}
	if cfg.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("queue size must be positive, got %d", cfg.QueueSize))
	}
	if cfg.Volume < 0 || cfg.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume must be between 0 and 1, got %.2f", cfg.Volume))
	}
	if _, err := NewPhrase(cfg.Template); err != nil {
		errs = append(errs, err)
	}
	return cfg, errors.Join(errs...)
}

// RequiredPrograms lists the executables an engine shells out to.
func RequiredPrograms(et EngineType) []string {
	switch et {
	case EngineEspeak:
		return []string{"espeak-ng"}
	case EnginePiper:
		return []string{"piper"}
	case EngineGTTS:
		return []string{"gtts-cli", "ffmpeg"}
	default:
		return nil
	}
}

// CheckPrograms looks up every program et needs in PATH.
func CheckPrograms(et EngineType) error {
	for _, p := range RequiredPrograms(et) {
		if _, err := exec.LookPath(p); err != nil {
			return NewError(ErrorCodeEngineUnavailable,
				fmt.Sprintf("%s not found in PATH\n\n%s", p, installGuidance(p)),
				errors.Join(ErrEngineNotAvailable, err))
		}
	}
	return nil
}

func installGuidance(program string) string {
	switch program {
	case "espeak-ng":
		return "Install espeak-ng:\n  apt install espeak-ng   # Debian/Ubuntu\n  brew install espeak-ng  # macOS"
	case "piper":
		return "Install Piper from https://github.com/rhasspy/piper/releases and set tts.piper.model"
	case "gtts-cli":
		return "Install gTTS:\n  pip install gTTS"
	case "ffmpeg":
		return "Install ffmpeg:\n  apt install ffmpeg   # Debian/Ubuntu\n  brew install ffmpeg  # macOS"
	default:
		return ""
	}
}
