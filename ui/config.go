package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Mode selects which views the program renders.
type Mode string

const (
	ModeDisplay Mode = "display"
	ModeTeller  Mode = "teller"
	ModeBoth    Mode = "both"
)

// ParseMode parses a --mode value.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeDisplay, ModeTeller, ModeBoth:
		return m, nil
	case "":
		return ModeBoth, nil
	default:
		return "", fmt.Errorf("invalid mode %q: use display, teller or both", s)
	}
}

func (m Mode) hasDisplay() bool { return m == ModeDisplay || m == ModeBoth }
func (m Mode) hasTeller() bool  { return m == ModeTeller || m == ModeBoth }

// DisplayConfig holds the presentation switches of the display view.
type DisplayConfig struct {
	ForceFullscreen bool
	Kiosk           bool
	HideCursor      bool
	TargetScreen    int
}

// Config contains TUI-specific configuration.
type Config struct {
	Mode     Mode
	Counters []string
	Display  DisplayConfig

	Title           string
	MarqueeText     string
	MarqueeFile     string
	MarqueeInterval time.Duration
	Logos           []string
	VideoPath       string
	Footer          string

	GlamourStyle string `env:"GLAMOUR_STYLE"`

	// For debugging the UI
	HighContrast bool `env:"LOKET_HIGH_CONTRAST"`
	NoBigDigits  bool `env:"LOKET_NO_BIG_DIGITS"`
}

const (
	defaultTitle           = "Display Antrian Loket"
	defaultMarqueeText     = "Selamat datang di Loket Antrian"
	defaultMarqueeInterval = 70 * time.Millisecond
	defaultFooter          = "© Sistem Antrian Modular"
)

// DefaultCounters are offered by the teller when none are configured.
var DefaultCounters = []string{"Loket 1", "Loket 2", "Loket 3", "Loket 4"}

func (c Config) withDefaults() Config {
	if c.Mode == "" {
		c.Mode = ModeBoth
	}
	if len(c.Counters) == 0 {
		c.Counters = DefaultCounters
	}
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.MarqueeText == "" {
		c.MarqueeText = defaultMarqueeText
	}
	if c.MarqueeInterval <= 0 {
		c.MarqueeInterval = defaultMarqueeInterval
	}
	if c.Footer == "" {
		c.Footer = defaultFooter
	}
	return c
}

// ValidateCounters rejects an empty counter list and blank names.
func ValidateCounters(counters []string) error {
	if len(counters) == 0 {
		return fmt.Errorf("at least one counter is required")
	}
	seen := make(map[string]bool, len(counters))
	for i, c := range counters {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("counter %d has a blank name", i+1)
		}
		if seen[c] {
			return fmt.Errorf("counter %q is listed twice", c)
		}
		seen[c] = true
	}
	return nil
}

// screenCount is the number of screens a terminal program can target.
const screenCount = 1

// resolveScreen maps a screen index to one the terminal can show.
func resolveScreen(idx int) int {
	if idx < 0 || idx >= screenCount {
		log.Warn(fmt.Sprintf("screen-index %d tidak valid. Gunakan 0..%d", idx, screenCount-1))
		return 0
	}
	return idx
}
