package tts

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/antrian/loket/internal/audio"
	"github.com/antrian/loket/internal/cache"
	"github.com/antrian/loket/internal/queue"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Announcer speaks calls in the background. OnCall never blocks: each call
// becomes a job that a single worker plays once its delay has elapsed, so
// announcements keep call order and never overlap.
type Announcer struct {
	engine Engine
	out    audio.Output
	store  cache.Store // may be nil
	phrase *Phrase
	cfg    Config
	logger *log.Logger

	jobs chan job
	done chan struct{}

	mu      sync.Mutex
	closed  bool
	cancel  context.CancelFunc
	started bool

	// now is replaced in tests.
	now func() time.Time
}

type job struct {
	id        string
	entry     queue.CallEntry
	text      string
	notBefore time.Time
}

// Result reports the outcome of one announcement to an optional listener.
type Result struct {
	ID    string
	Entry queue.CallEntry
	Text  string
	Err   error
	Dur   time.Duration
}

// NewAnnouncer creates an Announcer. store may be nil to disable caching.
func NewAnnouncer(cfg Config, engine Engine, out audio.Output, store cache.Store) (*Announcer, error) {
	if engine == nil || out == nil {
		return nil, errors.New("announcer needs an engine and an audio output")
	}
	phrase, err := NewPhrase(cfg.Template)
	if err != nil {
		return nil, err
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	return &Announcer{
		engine: engine,
		out:    out,
		store:  store,
		phrase: phrase,
		cfg:    cfg,
		logger: log.WithPrefix("tts"),
		jobs:   make(chan job, cfg.QueueSize),
		done:   make(chan struct{}),
		now:    time.Now,
	}, nil
}

// Start runs the worker until ctx is done or Close is called. results, if
// not nil, receives every outcome; sends never block the worker.
func (a *Announcer) Start(ctx context.Context, results chan<- Result) {
	a.mu.Lock()
	if a.started || a.closed {
		a.mu.Unlock()
		return
	}
	a.started = true
	ctx, a.cancel = context.WithCancel(ctx)
	a.mu.Unlock()

	go a.run(ctx, results)
}

// OnCall implements queue.Observer.
func (a *Announcer) OnCall(entry queue.CallEntry) {
	if err := a.Announce(entry); err != nil {
		a.logger.Warn("Announcement dropped", "number", entry.Number, "counter", entry.Counter, "err", err)
	}
}

// Announce schedules entry to be spoken after the configured delay.
func (a *Announcer) Announce(entry queue.CallEntry) error {
	text, err := a.phrase.Render(entry)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}

	j := job{
		id:        uuid.NewString(),
		entry:     entry,
		text:      text,
		notBefore: a.now().Add(a.cfg.Delay),
	}
	select {
	case a.jobs <- j:
		a.logger.Debug("Announcement queued", "job", j.id, "text", text)
		return nil
	default:
		return NewError(ErrorCodeQueueFull, "too many pending announcements", ErrQueueFull)
	}
}

// Pending returns the number of queued announcements.
func (a *Announcer) Pending() int { return len(a.jobs) }

// Close stops the worker. Pending announcements are discarded; Close waits
// at most grace for the worker to exit. The engine is closed once the worker
// is done, never while it is synthesizing.
func (a *Announcer) Close(grace time.Duration) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	started := a.started
	if a.cancel != nil {
		a.cancel()
	}
	a.mu.Unlock()

	if started {
		select {
		case <-a.done:
		case <-time.After(grace):
			// the engine may still be synthesizing
			a.logger.Debug("Speech worker still busy at shutdown, engine closes when it returns")
			go func() {
				<-a.done
				_ = a.engine.Close()
			}()
			return nil
		}
	}
	return a.engine.Close()
}

func (a *Announcer) run(ctx context.Context, results chan<- Result) {
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-a.jobs:
			if !a.wait(ctx, j.notBefore) {
				return
			}
			r := a.speak(ctx, j)
			if r.Err != nil && !errors.Is(r.Err, context.Canceled) {
				a.logger.Error("TTS error", "job", j.id, "number", j.entry.Number, "err", r.Err)
			}
			if results != nil {
				select {
				case results <- r:
				default:
				}
			}
		}
	}
}

func (a *Announcer) wait(ctx context.Context, until time.Time) bool {
	d := until.Sub(a.now())
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (a *Announcer) speak(ctx context.Context, j job) Result {
	start := a.now()
	r := Result{ID: j.id, Entry: j.entry, Text: j.text}

	pcm, err := a.synthesize(ctx, j.text)
	if err != nil {
		r.Err = err
		return r
	}
	if err := a.out.Play(ctx, pcm, a.cfg.Volume); err != nil {
		r.Err = NewError(ErrorCodeAudioDevice, "playback failed", err)
		return r
	}
	r.Dur = a.now().Sub(start)
	a.logger.Debug("Announced", "job", j.id, "took", r.Dur)
	return r
}

func (a *Announcer) synthesize(ctx context.Context, text string) ([]byte, error) {
	info := a.engine.Info()
	key := cache.Key(text, info.Name+"/"+info.Voice, a.cfg.Speed)
	if a.store != nil {
		if pcm, ok := a.store.Get(key); ok {
			return pcm, nil
		}
	}

	pcm, err := a.engine.Synthesize(ctx, text, a.cfg.Speed)
	if err != nil {
		return nil, err
	}
	if len(pcm) == 0 {
		return nil, NewError(ErrorCodeEngineFailure, "engine returned no audio", ErrSynthesisFailed)
	}
	if f := a.out.Format(); info.SampleRate != 0 && info.SampleRate != f.SampleRate {
		return nil, NewError(ErrorCodeAudioFormat, "engine sample rate does not match the audio device", nil)
	}

	if a.store != nil {
		if err := a.store.Put(key, pcm); err != nil {
			a.logger.Debug("Unable to cache announcement", "err", err)
		}
	}
	return pcm, nil
}

var _ queue.Observer = (*Announcer)(nil)
