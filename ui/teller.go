package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/antrian/loket/internal/queue"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
	"github.com/sahilm/fuzzy"
)

type tellerTickMsg struct{}

var calledAgoMagnitudes = []humanize.RelTimeMagnitude{
	{D: 2 * time.Second, Format: "baru saja", DivBy: time.Second},
	{D: time.Minute, Format: "%d detik %s", DivBy: time.Second},
	{D: time.Hour, Format: "%d menit %s", DivBy: time.Minute},
	{D: humanize.Day, Format: "%d jam %s", DivBy: time.Hour},
	{D: math.MaxInt64, Format: "%d hari %s", DivBy: humanize.Day},
}

type tellerModel struct {
	common   *commonModel
	seq      *queue.Sequencer
	counters []string

	// selected indexes counters; cursor indexes visible().
	selected int
	cursor   int

	filter    textinput.Model
	filtering bool
	matches   []int
	preFilter int // selection to restore when the filter is cancelled

	last    queue.CallEntry
	hasLast bool
	lastAt  time.Time
	next    int

	showHelp bool
	helpView string
	helpW    int

	now  func() time.Time
	copy func(string)
}

func newTellerModel(common *commonModel, seq *queue.Sequencer) *tellerModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "cari loket"
	ti.CharLimit = 32

	t := &tellerModel{
		common:   common,
		seq:      seq,
		counters: common.cfg.Counters,
		filter:   ti,
		now:      time.Now,
		copy:     copyToClipboard,
	}
	t.sync()
	return t
}

// nextPreview is the number the next call will receive.
func nextPreview(s *queue.Sequencer) int {
	if c, ok := s.Current(); ok {
		return c.Number + 1
	}
	return 1
}

// OnCall implements queue.Observer.
func (t *tellerModel) OnCall(e queue.CallEntry) {
	t.last = e
	t.hasLast = true
	t.lastAt = t.now()
	t.next = nextPreview(t.seq)
}

func (t *tellerModel) sync() {
	t.last, t.hasLast = t.seq.Current()
	t.next = nextPreview(t.seq)
}

func (t *tellerModel) selectedCounter() string {
	return t.counters[t.selected]
}

// visible lists the counter indexes on screen.
func (t *tellerModel) visible() []int {
	if t.filtering && t.filter.Value() != "" {
		return t.matches
	}
	all := make([]int, len(t.counters))
	for i := range all {
		all[i] = i
	}
	return all
}

func (t *tellerModel) moveCursor(delta int) {
	v := t.visible()
	if len(v) == 0 {
		return
	}
	t.cursor = (t.cursor + delta + len(v)) % len(v)
	t.selected = v[t.cursor]
}

func (t *tellerModel) pick(i int) {
	if i < 0 || i >= len(t.counters) {
		return
	}
	t.selected = i
	t.cursor = i
}

func (t *tellerModel) init() tea.Cmd {
	return tellerTick()
}

func tellerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tellerTickMsg{}
	})
}

func (t *tellerModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tellerTickMsg:
		return tellerTick()

	case tea.KeyMsg:
		if t.showHelp {
			if key.Matches(msg, keys.Help, keys.Escape, keys.Quit) {
				t.showHelp = false
			}
			return nil
		}
		if t.filtering {
			return t.updateFilter(msg)
		}

		switch {
		case key.Matches(msg, keys.Next):
			t.callNext()
		case key.Matches(msg, keys.Up):
			t.moveCursor(-1)
		case key.Matches(msg, keys.Down):
			t.moveCursor(1)
		case key.Matches(msg, keys.Pick):
			t.pick(int(msg.Runes[0] - '1'))
		case key.Matches(msg, keys.Filter):
			return t.startFilter()
		case key.Matches(msg, keys.Copy):
			return t.copyLast()
		case key.Matches(msg, keys.Reset):
			return t.reset()
		case key.Matches(msg, keys.Help):
			t.showHelp = true
		}
	}
	return nil
}

func (t *tellerModel) callNext() {
	e := t.seq.Advance(t.selectedCounter())
	log.Debug("Teller called next", "number", e.Number, "counter", e.Counter)
}

func (t *tellerModel) reset() tea.Cmd {
	t.seq.Reset()
	t.sync()
	log.Info("Queue reset")
	return tea.Batch(
		t.common.showStatus("Antrian direset", false),
		func() tea.Msg { return queueResetMsg{} },
	)
}

func (t *tellerModel) copyLast() tea.Cmd {
	if !t.hasLast {
		return t.common.showStatus("Belum ada nomor yang dipanggil", true)
	}
	text := t.lastText()
	t.copy(text)
	return t.common.showStatus("Disalin: "+text, false)
}

func copyToClipboard(s string) {
	// Copy using OSC 52
	termenv.Copy(s)
	// Copy using native system clipboard
	_ = clipboard.WriteAll(s)
}

func (t *tellerModel) startFilter() tea.Cmd {
	t.filtering = true
	t.preFilter = t.selected
	t.matches = nil
	t.filter.SetValue("")
	return t.filter.Focus()
}

func (t *tellerModel) stopFilter() {
	t.filtering = false
	t.matches = nil
	t.filter.SetValue("")
	t.filter.Blur()
	t.cursor = t.selected
}

func (t *tellerModel) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "enter":
		t.stopFilter()
		return nil
	case key.Matches(msg, keys.Escape):
		t.selected = t.preFilter
		t.stopFilter()
		return nil
	case msg.String() == "up":
		t.moveCursor(-1)
		return nil
	case msg.String() == "down":
		t.moveCursor(1)
		return nil
	}

	var cmd tea.Cmd
	t.filter, cmd = t.filter.Update(msg)
	t.applyFilter()
	return cmd
}

func (t *tellerModel) applyFilter() {
	t.matches = t.matches[:0]
	for _, m := range fuzzy.Find(t.filter.Value(), t.counters) {
		t.matches = append(t.matches, m.Index)
	}
	t.cursor = 0
	if len(t.matches) > 0 {
		t.selected = t.matches[0]
	}
}

func (t *tellerModel) lastText() string {
	return fmt.Sprintf("Nomor %d (%s)", t.last.Number, t.last.Counter)
}

func (t *tellerModel) lastLabel() string {
	if !t.hasLast {
		return "Nomor Terakhir: -"
	}
	return "Nomor Terakhir: " + strings.TrimPrefix(t.lastText(), "Nomor ")
}

func (t *tellerModel) calledAgo() string {
	if !t.hasLast || t.lastAt.IsZero() {
		return ""
	}
	return "dipanggil " + humanize.CustomRelTime(t.lastAt, t.now(), "lalu", "lagi", calledAgoMagnitudes)
}

func (t *tellerModel) previewLabel() string {
	return fmt.Sprintf("Nomor Berikutnya: %d", t.next)
}

func (t *tellerModel) view(width, height int) string {
	if t.showHelp {
		return t.renderHelp(width)
	}

	st := t.common.styles
	panelW := min(width, tellerWidth)
	cw := max(0, panelW-6) // border and padding
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	trunc := func(s string) string {
		return truncate.StringWithTail(s, uint(cw), ellipsis) //nolint:gosec
	}

	lines := []string{
		center.Render(st.tellerTitle.Render("Panel Petugas Loket")),
		"",
		st.label.Render("Pilih Loket:"),
	}
	if t.filtering {
		t.filter.Width = max(0, cw-lipgloss.Width(t.filter.Prompt)-1)
		lines = append(lines, t.filter.View())
	}
	lines = append(lines, t.optionsView(trunc)...)
	lines = append(lines,
		"",
		st.button.Width(cw).Align(lipgloss.Center).Render("PANGGIL NEXT"),
		"",
		center.Render(st.last.Render(trunc(t.lastLabel()))),
	)
	if ago := t.calledAgo(); ago != "" {
		lines = append(lines, center.Render(st.hint.Render(trunc(ago))))
	}
	lines = append(lines,
		center.Render(st.preview.Render(trunc(t.previewLabel()))),
		"",
		center.Render(st.hint.Render(trunc("Shortcut: ENTER / SPACE untuk Next"))),
	)

	panel := st.tellerPanel.Width(panelW - 2).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, panel)
}

func (t *tellerModel) optionsView(trunc func(string) string) []string {
	st := t.common.styles
	v := t.visible()
	if len(v) == 0 {
		return []string{st.option.Render("tidak ada loket yang cocok")}
	}
	out := make([]string, 0, len(v))
	for _, i := range v {
		label := trunc(fmt.Sprintf("%d  %s", i+1, t.counters[i]))
		if i == t.selected {
			out = append(out, st.selected.Render("› "+label))
			continue
		}
		out = append(out, st.option.Render(label))
	}
	return out
}
