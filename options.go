package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/antrian/loket/internal/tts"
	"github.com/antrian/loket/internal/tts/engines"
	"github.com/antrian/loket/ui"
	"github.com/antrian/loket/utils"
	env "github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

var errInvalidStartNumber = errors.New("start number must not be negative")

type chimeOptions struct {
	enabled bool
	path    string
	volume  float64
}

type speechOptions struct {
	enabled bool
	config  tts.Config
	engines engines.Options

	cacheDir     string
	cacheMaxSize int64
	memorySize   int64
}

// options is the validated configuration of one run.
type options struct {
	debug       bool
	startNumber int
	noSample    bool

	ui     ui.Config
	chime  chimeOptions
	speech speechOptions
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", string(ui.ModeBoth))
	v.SetDefault("start_number", 1)
	v.SetDefault("counters", ui.DefaultCounters)

	v.SetDefault("display.logos", []string{"assets/logo1.png", "assets/logo2.png"})
	v.SetDefault("display.video_path", "assets/sample.mp4")
	v.SetDefault("display.marquee_interval", 70*time.Millisecond)

	v.SetDefault("chime.enabled", true)
	v.SetDefault("chime.path", "assets/chime.wav")
	v.SetDefault("chime.volume", 0.9)

	d := tts.DefaultConfig()
	v.SetDefault("tts.enabled", true)
	v.SetDefault("tts.engine", string(d.Engine))
	v.SetDefault("tts.delay", d.Delay)
	v.SetDefault("tts.template", d.Template)
	v.SetDefault("tts.language", d.Language)
	v.SetDefault("tts.rate", d.Speed)
	v.SetDefault("tts.queue_size", d.QueueSize)
	v.SetDefault("tts.volume", d.Volume)
	v.SetDefault("tts.timeout", 30*time.Second)
	v.SetDefault("tts.espeak.binary", "espeak-ng")
	v.SetDefault("tts.espeak.voice", "")
	v.SetDefault("tts.piper.binary", "piper")
	v.SetDefault("tts.piper.model", "")
	v.SetDefault("tts.piper.speaker", 0)
	v.SetDefault("tts.gtts.slow", false)
	v.SetDefault("tts.gtts.requests_per_minute", 50)
	v.SetDefault("tts.cache.dir", "")
	v.SetDefault("tts.cache.max_size", 100)
	v.SetDefault("tts.cache.memory_size", 16)
}

// speechDisabled reports whether an engine name switches speech off.
func speechDisabled(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "off", "false":
		return true
	}
	return false
}

func loadOptions(v *viper.Viper) (options, error) {
	var o options
	o.debug = v.GetBool("debug")
	o.noSample = v.GetBool("no_sample")

	o.startNumber = v.GetInt("start_number")
	if o.startNumber < 0 {
		return o, fmt.Errorf("%w, got %d", errInvalidStartNumber, o.startNumber)
	}

	uiCfg, err := loadUIConfig(v)
	if err != nil {
		return o, err
	}
	o.ui = uiCfg

	o.chime = chimeOptions{
		enabled: v.GetBool("chime.enabled"),
		path:    utils.ExpandPath(v.GetString("chime.path")),
		volume:  v.GetFloat64("chime.volume"),
	}
	if o.chime.volume < 0 || o.chime.volume > 1 {
		return o, fmt.Errorf("chime volume must be between 0 and 1, got %.2f", o.chime.volume)
	}

	speech, err := loadSpeechOptions(v)
	if err != nil {
		return o, err
	}
	o.speech = speech
	return o, nil
}

func loadUIConfig(v *viper.Viper) (ui.Config, error) {
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}

	mode, err := ui.ParseMode(v.GetString("mode"))
	if err != nil {
		return cfg, err
	}
	cfg.Mode = mode

	cfg.Counters = v.GetStringSlice("counters")
	if err := ui.ValidateCounters(cfg.Counters); err != nil {
		return cfg, fmt.Errorf("invalid counters: %w", err)
	}

	cfg.Display = ui.DisplayConfig{
		ForceFullscreen: v.GetBool("display.fullscreen"),
		Kiosk:           v.GetBool("display.kiosk"),
		HideCursor:      v.GetBool("display.hide_cursor"),
		TargetScreen:    v.GetInt("display.screen_index"),
	}
	cfg.Title = v.GetString("display.title")
	cfg.MarqueeText = v.GetString("display.marquee_text")
	cfg.MarqueeFile = utils.ExpandPath(v.GetString("display.marquee_file"))
	cfg.MarqueeInterval = v.GetDuration("display.marquee_interval")
	cfg.VideoPath = utils.ExpandPath(v.GetString("display.video_path"))
	cfg.Footer = v.GetString("display.footer")
	for _, l := range v.GetStringSlice("display.logos") {
		cfg.Logos = append(cfg.Logos, utils.ExpandPath(l))
	}
	return cfg, nil
}

func loadSpeechOptions(v *viper.Viper) (speechOptions, error) {
	var s speechOptions
	name := v.GetString("tts.engine")
	if !v.GetBool("tts.enabled") || speechDisabled(name) {
		return s, nil
	}

	et, err := tts.ParseEngine(name)
	if err != nil {
		return s, err
	}

	cfg, err := tts.ValidateConfig(tts.Config{
		Engine:    et,
		Language:  v.GetString("tts.language"),
		Speed:     v.GetFloat64("tts.rate"),
		Delay:     v.GetDuration("tts.delay"),
		Template:  v.GetString("tts.template"),
		QueueSize: v.GetInt("tts.queue_size"),
		Volume:    v.GetFloat64("tts.volume"),
	})
	if err != nil {
		return s, fmt.Errorf("invalid tts configuration: %w", err)
	}

	timeout := v.GetDuration("tts.timeout")
	s.enabled = true
	s.config = cfg
	s.engines = engines.Options{
		Language: cfg.Language,
		Espeak: engines.EspeakConfig{
			Binary:  v.GetString("tts.espeak.binary"),
			Voice:   v.GetString("tts.espeak.voice"),
			Timeout: timeout,
		},
		Piper: engines.PiperConfig{
			Binary:    v.GetString("tts.piper.binary"),
			ModelPath: utils.ExpandPath(v.GetString("tts.piper.model")),
			Speaker:   v.GetInt("tts.piper.speaker"),
			Timeout:   timeout,
		},
		GTTS: engines.GTTSConfig{
			Slow:              v.GetBool("tts.gtts.slow"),
			RequestsPerMinute: v.GetInt("tts.gtts.requests_per_minute"),
			Timeout:           timeout,
		},
	}

	s.cacheDir = utils.ExpandPath(v.GetString("tts.cache.dir"))
	s.cacheMaxSize = v.GetInt64("tts.cache.max_size") * humanize.MByte
	s.memorySize = v.GetInt64("tts.cache.memory_size") * humanize.MByte
	if s.cacheMaxSize < 0 || s.memorySize < 0 {
		return s, errors.New("tts cache sizes must not be negative")
	}
	return s, nil
}
