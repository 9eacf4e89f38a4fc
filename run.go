package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/antrian/loket/internal/audio"
	"github.com/antrian/loket/internal/cache"
	"github.com/antrian/loket/internal/hooks"
	"github.com/antrian/loket/internal/queue"
	"github.com/antrian/loket/internal/tts"
	"github.com/antrian/loket/internal/tts/engines"
	"github.com/antrian/loket/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const shutdownGrace = 2 * time.Second

// sampleCalls are advanced at startup unless --no-sample is given.
var sampleCalls = []string{"Loket 1", "Loket 3", "Loket 4", "Loket 4"}

var errNotATerminal = errors.New("loket needs an interactive terminal")

func execute(*cobra.Command, []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errNotATerminal
	}
	return run(opts)
}

// run wires the sequencer, the views and the notification hooks, then blocks
// until the program exits.
func run(o options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seq := queue.New(o.startNumber)

	// The views subscribe first.
	p := ui.NewProgram(o.ui, seq)

	player, err := audio.NewPlayer(audio.DefaultPlayerConfig())
	if err != nil {
		log.Warn("No audio device, falling back to the terminal bell", "err", err)
	}
	var out audio.Output
	if player != nil {
		out = player
	}

	var chime *hooks.Chime
	if o.chime.enabled {
		clip := hooks.LoadChime(o.chime.path, audio.DefaultFormat)
		chime = hooks.NewChime(out, clip, o.chime.volume)
	}

	announcer, store := newAnnouncer(o.speech, out)
	hooks.Register(seq, callObservers(log.WithPrefix("call"), chime, announcer)...)

	if announcer != nil {
		results := make(chan tts.Result, o.speech.config.QueueSize)
		announcer.Start(ctx, results)
		go forwardResults(ctx, p, results)
	}

	bootstrap(seq, o.noSample)

	_, runErr := p.Run()

	cancel()
	if announcer != nil {
		if err := announcer.Close(shutdownGrace); err != nil {
			log.Warn("Announcer did not stop cleanly", "err", err)
		}
	}
	if chime != nil {
		chime.Close()
	}
	if player != nil {
		if err := player.Close(shutdownGrace); err != nil {
			log.Warn("Audio player did not stop cleanly", "err", err)
		}
	}
	if store != nil {
		log.Debug("Speech cache", "stats", store.Stats())
		if err := store.Close(); err != nil {
			log.Warn("Unable to close speech cache", "err", err)
		}
	}

	if runErr != nil {
		return fmt.Errorf("unable to run loket program: %w", runErr)
	}
	return nil
}

// callObservers lists the hooks in notification order: log line, chime,
// speech. Disabled hooks are nil and left out.
func callObservers(logger *log.Logger, chime *hooks.Chime, announcer *tts.Announcer) []queue.Observer {
	observers := []queue.Observer{hooks.Logger(logger)}
	if chime != nil {
		observers = append(observers, chime)
	}
	if announcer != nil {
		observers = append(observers, announcer)
	}
	return observers
}

// bootstrap makes the demo calls. It must run after every observer is
// registered.
func bootstrap(seq *queue.Sequencer, noSample bool) {
	if noSample {
		return
	}
	for _, c := range sampleCalls {
		seq.Advance(c)
	}
}

// newAnnouncer builds the speech observer. Speech is left out, with a
// warning, when it is disabled or its engine or device is unavailable.
func newAnnouncer(s speechOptions, out audio.Output) (*tts.Announcer, *cache.Tiered) {
	if !s.enabled {
		log.Debug("Speech disabled")
		return nil, nil
	}
	if out == nil {
		log.Warn("Speech disabled, no audio device")
		return nil, nil
	}

	engine, err := engines.New(s.config.Engine, s.engines)
	if err != nil {
		log.Warn("Speech disabled", "engine", s.config.Engine, "err", err)
		return nil, nil
	}

	store := openCache(s)
	a, err := tts.NewAnnouncer(s.config, engine, out, store)
	if err != nil {
		log.Warn("Speech disabled", "err", err)
		_ = engine.Close()
		_ = store.Close()
		return nil, nil
	}
	log.Debug("Speech enabled", "engine", engine.Info().Name, "voice", engine.Info().Voice)
	return a, store
}

func cacheDir(s speechOptions) (string, error) {
	if s.cacheDir != "" {
		return s.cacheDir, nil
	}
	dir, err := gap.NewScope(gap.User, "loket").CacheDir()
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	return filepath.Join(dir, "speech"), nil
}

// openCache opens the tiered speech cache. Without a usable directory the
// cache is memory only.
func openCache(s speechOptions) *cache.Tiered {
	mem := cache.NewMemory(s.memorySize)
	if s.cacheMaxSize == 0 {
		return cache.NewTiered(mem, nil)
	}

	dir, err := cacheDir(s)
	if err != nil {
		log.Warn("No cache directory, caching speech in memory only", "err", err)
		return cache.NewTiered(mem, nil)
	}
	disk, err := cache.OpenDisk(dir, s.cacheMaxSize)
	if err != nil {
		log.Warn("Unable to open speech cache, caching in memory only", "dir", dir, "err", err)
		return cache.NewTiered(mem, nil)
	}
	return cache.NewTiered(mem, disk)
}

type sender interface {
	Send(msg tea.Msg)
}

// forwardResults reports finished announcements to the program.
func forwardResults(ctx context.Context, p sender, results <-chan tts.Result) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-results:
			if r.Err != nil {
				log.Warn("Announcement failed", "id", r.ID, "entry", r.Entry, "err", r.Err)
			}
			p.Send(ui.AnnouncementMsg{Entry: r.Entry, Err: r.Err})
		}
	}
}
