package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	runewidth "github.com/mattn/go-runewidth"
)

const marqueeGap = "   "

type (
	marqueeTickMsg struct{ id int }
	marqueeFileMsg struct {
		text   string
		err    error
		reload bool // sent by the watcher, which must be waited on again
	}
)

// marquee rotates its text one rune per tick.
type marquee struct {
	text     []rune
	offset   int
	interval time.Duration

	// id drops ticks scheduled for a previous text.
	id int
}

func newMarquee(text string, interval time.Duration) marquee {
	m := marquee{interval: interval}
	m.setText(text)
	return m
}

func (m *marquee) setText(s string) {
	m.text = []rune(marqueeGap + s + marqueeGap)
	m.offset = 0
	m.id++
}

func (m *marquee) step() {
	if len(m.text) == 0 {
		return
	}
	m.offset = (m.offset + 1) % len(m.text)
}

// rotated returns the text as currently scrolled.
func (m marquee) rotated() string {
	if len(m.text) == 0 {
		return ""
	}
	return string(m.text[m.offset:]) + string(m.text[:m.offset])
}

// view fills width cells with the scrolled text, repeating it when the text
// is narrower than the line.
func (m marquee) view(width int) string {
	if width <= 0 || len(m.text) == 0 {
		return ""
	}
	s := m.rotated()
	for runewidth.StringWidth(s) < width {
		s += m.rotated()
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

func (m marquee) tick() tea.Cmd {
	id := m.id
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return marqueeTickMsg{id: id}
	})
}

// readMarqueeFile returns the file contents as one line.
func readMarqueeFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("unable to read marquee file: %w", err)
	}
	return strings.Join(strings.Fields(string(b)), " "), nil
}

// marqueeWatcher reports edits of the marquee file.
type marqueeWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

func newMarqueeWatcher(path string) *marqueeWatcher {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("error creating fsnotify watcher", "error", err)
		return nil
	}
	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		log.Error("error adding dir to fsnotify watcher", "error", err)
		_ = w.Close()
		return nil
	}
	log.Info("fsnotify watching dir", "dir", dir)
	return &marqueeWatcher{path: abs, watcher: w}
}

// load reads the file right away.
func (w *marqueeWatcher) load() tea.Msg {
	return w.read(false)
}

func (w *marqueeWatcher) read(reload bool) marqueeFileMsg {
	text, err := readMarqueeFile(w.path)
	return marqueeFileMsg{text: text, err: err, reload: reload}
}

// wait blocks until the file is written or created and returns its text.
func (w *marqueeWatcher) wait() tea.Msg {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			return w.read(true)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "file", w.path, "error", err)
		}
	}
}

func (w *marqueeWatcher) close() {
	if err := w.watcher.Close(); err != nil {
		log.Debug("fsnotify close", "error", err)
	}
}
