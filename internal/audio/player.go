package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

var (
	// ErrEmpty is returned when asked to play no audio.
	ErrEmpty = errors.New("audio data is empty")

	// ErrClosed is returned when playing through a closed Player.
	ErrClosed = errors.New("player is closed")
)

// Output plays PCM clips. Play blocks until the clip finished or ctx is
// done. Implementations must be safe for concurrent use.
type Output interface {
	Play(ctx context.Context, pcm []byte, volume float64) error
	Format() Format
}

// Format describes signed 16-bit little-endian PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// BytesPerFrame returns the size of one sample across all channels.
func (f Format) BytesPerFrame() int { return 2 * f.Channels }

// Duration returns how long n bytes of PCM in this format play for.
func (f Format) Duration(n int) time.Duration {
	if f.SampleRate == 0 || f.Channels == 0 {
		return 0
	}
	frames := n / f.BytesPerFrame()
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// DefaultFormat matches the output of the speech engines.
var DefaultFormat = Format{SampleRate: 22050, Channels: 1}

// PlayerConfig configures the audio device.
type PlayerConfig struct {
	Format     Format
	BufferSize time.Duration // device buffer, 0 leaves oto's default
}

// DefaultPlayerConfig returns the default player configuration.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Format:     DefaultFormat,
		BufferSize: 100 * time.Millisecond,
	}
}

func validateConfig(cfg PlayerConfig) error {
	switch cfg.Format.SampleRate {
	case 16000, 22050, 24000, 44100, 48000:
	default:
		return fmt.Errorf("unsupported sample rate %d", cfg.Format.SampleRate)
	}
	if cfg.Format.Channels != 1 && cfg.Format.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", cfg.Format.Channels)
	}
	if cfg.BufferSize < 0 {
		return errors.New("buffer size must not be negative")
	}
	return nil
}

var (
	contextMu  sync.Mutex
	contextSet bool
)

// Player is the oto-backed Output.
type Player struct {
	ctx    *oto.Context
	format Format

	active atomic.Int32
	closed atomic.Bool
	wg     sync.WaitGroup

	pollInterval time.Duration
}

// NewPlayer opens the audio device. It fails if a Player was already
// created in this process.
func NewPlayer(cfg PlayerConfig) (*Player, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	contextMu.Lock()
	defer contextMu.Unlock()
	if contextSet {
		return nil, errors.New("audio context already created")
	}

	octx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.Format.SampleRate,
		ChannelCount: cfg.Format.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   cfg.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open audio device: %w", err)
	}
	<-ready
	contextSet = true

	log.Debug("Audio device ready", "rate", cfg.Format.SampleRate, "channels", cfg.Format.Channels)
	return &Player{
		ctx:          octx,
		format:       cfg.Format,
		pollInterval: 10 * time.Millisecond,
	}, nil
}

// Format implements Output.
func (p *Player) Format() Format { return p.format }

// Active returns the number of clips currently playing.
func (p *Player) Active() int { return int(p.active.Load()) }

// Play implements Output. The clip is copied so callers may reuse pcm.
func (p *Player) Play(ctx context.Context, pcm []byte, volume float64) error {
	if len(pcm) == 0 {
		return ErrEmpty
	}
	if p.closed.Load() {
		return ErrClosed
	}

	data := make([]byte, len(pcm))
	copy(data, pcm)

	player := p.ctx.NewPlayer(bytes.NewReader(data))
	defer player.Close() //nolint:errcheck
	player.SetVolume(clampVolume(volume))

	p.wg.Add(1)
	p.active.Add(1)
	defer func() {
		p.active.Add(-1)
		p.wg.Done()
	}()

	player.Play()

	t := time.NewTicker(p.pollInterval)
	defer t.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-t.C:
		}
	}
	if err := player.Err(); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}

// Close stops accepting clips and waits up to grace for playing ones to
// finish.
func (p *Player) Close(grace time.Duration) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		log.Debug("Audio still playing at shutdown", "clips", p.Active())
	}
	return p.ctx.Suspend()
}

func clampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

var _ Output = (*Player)(nil)
