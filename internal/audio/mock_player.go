package audio

import (
	"context"
	"sync"
	"time"
)

// MockPlayer is an Output that records clips instead of playing them.
type MockPlayer struct {
	mu     sync.Mutex
	format Format
	plays  []MockPlay

	// Delay simulates playback time; Play returns early if ctx is done.
	Delay time.Duration
	// Err is returned from every Play when set.
	Err error
	// OnPlay is called with each clip before Play returns.
	OnPlay func(pcm []byte)
}

// MockPlay is one recorded clip.
type MockPlay struct {
	PCM    []byte
	Volume float64
	At     time.Time
}

// NewMockPlayer returns a MockPlayer reporting DefaultFormat.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{format: DefaultFormat}
}

// Format implements Output.
func (m *MockPlayer) Format() Format { return m.format }

// Play implements Output.
func (m *MockPlayer) Play(ctx context.Context, pcm []byte, volume float64) error {
	if len(pcm) == 0 {
		return ErrEmpty
	}

	m.mu.Lock()
	err := m.Err
	delay := m.Delay
	onPlay := m.OnPlay
	if err == nil {
		m.plays = append(m.plays, MockPlay{PCM: append([]byte(nil), pcm...), Volume: volume, At: time.Now()})
	}
	m.mu.Unlock()

	if err != nil {
		return err
	}
	if onPlay != nil {
		onPlay(pcm)
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}

// Plays returns the clips played so far.
func (m *MockPlayer) Plays() []MockPlay {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockPlay, len(m.plays))
	copy(out, m.plays)
	return out
}

// Count returns the number of clips played so far.
func (m *MockPlayer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.plays)
}

var _ Output = (*MockPlayer)(nil)
