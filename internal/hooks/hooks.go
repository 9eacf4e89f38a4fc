// Package hooks holds the log line and chime observers attached to a call,
// and Register, which subscribes them with the speech announcer.
package hooks

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/antrian/loket/internal/audio"
	"github.com/antrian/loket/internal/queue"
	"github.com/charmbracelet/log"
)

// Logger returns an observer that writes one line per call.
func Logger(l *log.Logger) queue.Observer {
	return queue.ObserverFunc(func(e queue.CallEntry) {
		l.Infof("Dipanggil: Nomor %d -> %s", e.Number, e.Counter)
	})
}

// Chime plays a short clip on every call without blocking the caller.
// Without an audio output it rings the terminal bell instead.
type Chime struct {
	out    audio.Output // nil means bell only
	clip   []byte
	volume float64
	bell   io.Writer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	playing *playback
}

// NewChime creates a Chime. out may be nil.
func NewChime(out audio.Output, clip []byte, volume float64) *Chime {
	ctx, cancel := context.WithCancel(context.Background())
	return &Chime{
		out:    out,
		clip:   clip,
		volume: volume,
		bell:   os.Stderr,
		ctx:    ctx,
		cancel: cancel,
	}
}

type playback struct {
	stop context.CancelFunc
	done chan struct{}
}

// OnCall implements queue.Observer. A new call restarts the chime: the clip
// still playing is stopped before the next one starts.
func (c *Chime) OnCall(queue.CallEntry) {
	if c.out == nil || len(c.clip) == 0 {
		c.ring()
		return
	}
	if c.ctx.Err() != nil {
		return
	}

	ctx, stop := context.WithCancel(c.ctx)
	cur := &playback{stop: stop, done: make(chan struct{})}
	c.mu.Lock()
	prev := c.playing
	c.playing = cur
	c.mu.Unlock()
	if prev != nil {
		prev.stop()
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(cur.done)
		defer stop()
		if prev != nil {
			<-prev.done
		}
		if ctx.Err() != nil {
			return
		}
		if err := c.out.Play(ctx, c.clip, c.volume); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("Chime failed, ringing bell", "err", err)
			c.ring()
		}
	}()
}

func (c *Chime) ring() {
	_, _ = io.WriteString(c.bell, "\a")
}

// Close stops playing clips and waits for them to return.
func (c *Chime) Close() {
	c.cancel()
	c.wg.Wait()
}

// LoadChime returns the clip at path converted to f. When path is empty,
// missing or unreadable a synthesised chime is returned instead.
func LoadChime(path string, f audio.Format) []byte {
	if path != "" {
		pcm, err := audio.LoadWAV(path, f)
		switch {
		case err == nil:
			log.Debug("Loaded chime", "path", path, "length", f.Duration(len(pcm)))
			return pcm
		case errors.Is(err, fs.ErrNotExist):
			log.Debug("Chime file not found, using built-in chime", "path", path)
		default:
			log.Warn("Unable to load chime, using built-in chime", "path", path, "err", err)
		}
	}
	return audio.Synthesize(f, audio.DefaultChime)
}

// Register subscribes observers in the order given, skipping nil ones.
// The composition root passes the log line, the chime and the speech
// observer in that order.
func Register(s *queue.Sequencer, observers ...queue.Observer) {
	for _, o := range observers {
		if o != nil {
			s.Subscribe(o)
		}
	}
}
