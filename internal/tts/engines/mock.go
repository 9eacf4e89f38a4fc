package engines

import (
	"context"
	"sync"
	"time"

	"github.com/antrian/loket/internal/tts"
)

// Mock is an engine that renders silence sized to the text. It speaks at
// roughly 15 characters per second.
type Mock struct {
	// Delay simulates synthesis latency.
	Delay time.Duration
	// Err, when set, is returned by Synthesize.
	Err error

	mu    sync.Mutex
	texts []string
}

// NewMock returns a Mock engine.
func NewMock() *Mock { return &Mock{} }

// Synthesize implements tts.Engine.
func (m *Mock) Synthesize(ctx context.Context, text string, speed float64) ([]byte, error) {
	if err := checkText(text); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.texts = append(m.texts, text)
	delay, err := m.Delay, m.Err
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, tts.NewError(tts.ErrorCodeCanceled, "mock synthesis canceled", ctx.Err())
		case <-time.After(delay):
		}
	}
	if err != nil {
		return nil, err
	}

	if speed <= 0 {
		speed = 1
	}
	frames := int(float64(len(text)) / 15 / speed * SampleRate)
	return make([]byte, 2*max(frames, 1)), nil
}

// Texts returns every phrase synthesised so far.
func (m *Mock) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

// Info implements tts.Engine.
func (m *Mock) Info() tts.EngineInfo {
	return tts.EngineInfo{Name: "mock", Voice: "silence", SampleRate: SampleRate}
}

// Validate implements tts.Engine.
func (m *Mock) Validate() error { return nil }

// Close implements tts.Engine.
func (m *Mock) Close() error { return nil }
