package hooks

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/antrian/loket/internal/audio"
	"github.com/antrian/loket/internal/queue"
	"github.com/charmbracelet/log"
)

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := log.New(&buf)
	Logger(l).OnCall(queue.CallEntry{Number: 4, Counter: "Loket 4"})
	if !strings.Contains(buf.String(), "Dipanggil: Nomor 4 -> Loket 4") {
		t.Errorf("Unexpected log output %q", buf.String())
	}
}

func TestChimePlaysClip(t *testing.T) {
	out := audio.NewMockPlayer()
	c := NewChime(out, []byte{1, 2, 3, 4}, 0.9)
	bell := &syncBuffer{}
	c.bell = bell

	c.OnCall(queue.CallEntry{Number: 1, Counter: "Loket 1"})
	c.Close()

	plays := out.Plays()
	if len(plays) != 1 || plays[0].Volume != 0.9 {
		t.Fatalf("Expected one clip at volume 0.9, got %+v", plays)
	}
	if bell.String() != "" {
		t.Error("Expected no bell when the clip played")
	}
}

func TestChimeFallsBackToBell(t *testing.T) {
	c := NewChime(nil, nil, 1)
	bell := &syncBuffer{}
	c.bell = bell
	c.OnCall(queue.CallEntry{Number: 1, Counter: "Loket 1"})
	if bell.String() != "\a" {
		t.Errorf("Expected a bell, got %q", bell.String())
	}

	out := audio.NewMockPlayer()
	out.Err = errors.New("device gone")
	c = NewChime(out, []byte{1, 2}, 1)
	bell = &syncBuffer{}
	c.bell = bell
	c.OnCall(queue.CallEntry{Number: 2, Counter: "Loket 1"})
	c.Close()
	if bell.String() != "\a" {
		t.Errorf("Expected a bell after a playback error, got %q", bell.String())
	}
}

func TestChimeAfterCloseIsSilent(t *testing.T) {
	out := audio.NewMockPlayer()
	c := NewChime(out, []byte{1, 2}, 1)
	c.Close()
	c.OnCall(queue.CallEntry{Number: 1, Counter: "Loket 1"})
	if out.Count() != 0 {
		t.Errorf("Expected no playback after Close, got %d", out.Count())
	}
}

func TestLoadChime(t *testing.T) {
	builtin := audio.Synthesize(audio.DefaultFormat, audio.DefaultChime)

	if got := LoadChime("", audio.DefaultFormat); !bytes.Equal(got, builtin) {
		t.Error("Expected built-in chime without a path")
	}
	if got := LoadChime(filepath.Join(t.TempDir(), "missing.wav"), audio.DefaultFormat); !bytes.Equal(got, builtin) {
		t.Error("Expected built-in chime for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(bad, []byte("garbage"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := LoadChime(bad, audio.DefaultFormat); !bytes.Equal(got, builtin) {
		t.Error("Expected built-in chime for an unreadable file")
	}
}

func TestRegisterKeepsOrder(t *testing.T) {
	s := queue.New(1)
	var order []string
	mk := func(name string) queue.Observer {
		return queue.ObserverFunc(func(queue.CallEntry) { order = append(order, name) })
	}
	Register(s, mk("log"), nil, mk("chime"), mk("speech"))
	s.Advance("Loket 1")

	if strings.Join(order, ",") != "log,chime,speech" {
		t.Errorf("Expected log,chime,speech, got %v", order)
	}
}

// overlapOutput records how many clips play at the same time.
type overlapOutput struct {
	mu        sync.Mutex
	active    int
	maxActive int
	started   int
	stopped   int
}

func (o *overlapOutput) Format() audio.Format { return audio.DefaultFormat }

func (o *overlapOutput) Play(ctx context.Context, _ []byte, _ float64) error {
	o.mu.Lock()
	o.active++
	o.started++
	o.maxActive = max(o.maxActive, o.active)
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.active--
		o.mu.Unlock()
	}()
	select {
	case <-ctx.Done():
		o.mu.Lock()
		o.stopped++
		o.mu.Unlock()
		return ctx.Err()
	case <-time.After(10 * time.Second):
		return nil
	}
}

func (o *overlapOutput) snapshot() (active, maxActive, started, stopped int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active, o.maxActive, o.started, o.stopped
}

func TestChimeRestartsOnNewCall(t *testing.T) {
	out := &overlapOutput{}
	c := NewChime(out, []byte{1, 2}, 1)
	for i := 1; i <= 4; i++ {
		c.OnCall(queue.CallEntry{Number: i, Counter: "Loket 4"})
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		active, _, started, stopped := out.snapshot()
		if active == 1 && started >= 1 && stopped == started-1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected only the last clip to keep playing, got active %d started %d stopped %d", active, started, stopped)
		}
		time.Sleep(5 * time.Millisecond)
	}

	c.Close()
	if active, maxActive, _, _ := out.snapshot(); maxActive != 1 || active != 0 {
		t.Errorf("Expected clips never to overlap, got max %d active %d", maxActive, active)
	}
}
