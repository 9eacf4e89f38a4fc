package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/antrian/loket/internal/queue"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/truncate"
)

const (
	historyRows  = 3
	logoSlots    = 2
	headerHeight = 2

	// Below this size the display shows only the current call.
	compactWidth  = 40
	compactHeight = 12
)

type displayModel struct {
	common *commonModel
	seq    *queue.Sequencer

	current    queue.CallEntry
	hasCurrent bool
	recent     []queue.CallEntry

	marquee marquee
	watcher *marqueeWatcher
}

func newDisplayModel(common *commonModel, seq *queue.Sequencer) *displayModel {
	d := &displayModel{
		common:  common,
		seq:     seq,
		marquee: newMarquee(common.cfg.MarqueeText, common.cfg.MarqueeInterval),
	}
	if path := common.cfg.MarqueeFile; path != "" {
		d.watcher = newMarqueeWatcher(path)
	}
	d.sync()
	return d
}

// OnCall implements queue.Observer.
func (d *displayModel) OnCall(e queue.CallEntry) {
	d.current = e
	d.hasCurrent = true
	d.recent = d.seq.Recent(historyRows)
}

// sync rereads the sequencer, which a reset does not announce.
func (d *displayModel) sync() {
	d.current, d.hasCurrent = d.seq.Current()
	d.recent = d.seq.Recent(historyRows)
}

func (d *displayModel) init() tea.Cmd {
	cmds := []tea.Cmd{d.marquee.tick()}
	if d.watcher != nil {
		cmds = append(cmds, d.watcher.load, d.watcher.wait)
	}
	return tea.Batch(cmds...)
}

func (d *displayModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case marqueeTickMsg:
		if msg.id != d.marquee.id {
			return nil
		}
		d.marquee.step()
		return d.marquee.tick()

	case marqueeFileMsg:
		var cmds []tea.Cmd
		if msg.reload && d.watcher != nil {
			cmds = append(cmds, d.watcher.wait)
		}
		switch {
		case msg.err != nil:
			log.Warn("Unable to load marquee text", "err", msg.err)
			cmds = append(cmds, d.common.showStatus("Teks berjalan tidak dapat dibaca", true))
		case msg.text != "":
			d.marquee.setText(msg.text)
			cmds = append(cmds, d.marquee.tick())
			if msg.reload {
				cmds = append(cmds, d.common.showStatus("Teks berjalan diperbarui", false))
			}
		}
		return tea.Batch(cmds...)
	}
	return nil
}

func (d *displayModel) close() {
	if d.watcher != nil {
		d.watcher.close()
	}
}

func (d *displayModel) numberText() string {
	if !d.hasCurrent {
		return "--"
	}
	return strconv.Itoa(d.current.Number)
}

func (d *displayModel) counterText() string {
	if !d.hasCurrent {
		return "Ke Loket -"
	}
	return "Ke " + d.current.Counter
}

func (d *displayModel) historyText(i int) string {
	if i >= len(d.recent) {
		return "-"
	}
	e := d.recent[i]
	return fmt.Sprintf("Nomor %d %s", e.Number, e.Counter)
}

// logoLabel is the text shown in logo slot i. Entries with a file extension
// name an image; the file name is shown when it exists.
func (d *displayModel) logoLabel(i int) string {
	logos := d.common.cfg.Logos
	placeholder := fmt.Sprintf("LOGO %d", i+1)
	if i >= len(logos) || strings.TrimSpace(logos[i]) == "" {
		return placeholder
	}
	entry := logos[i]
	ext := filepath.Ext(entry)
	if ext == "" {
		return entry
	}
	if _, err := os.Stat(entry); err != nil {
		return placeholder
	}
	return strings.ToUpper(strings.TrimSuffix(filepath.Base(entry), ext))
}

func (d *displayModel) videoLabel() string {
	path := d.common.cfg.VideoPath
	if path == "" {
		return "AREA VIDEO"
	}
	if _, err := os.Stat(path); err != nil {
		return "AREA VIDEO"
	}
	return "AREA VIDEO\n\n▶ " + filepath.Base(path)
}

func (d *displayModel) view(width, height int) string {
	if width < compactWidth || height < compactHeight {
		return d.compactView(width)
	}

	kiosk := d.common.cfg.Display.Kiosk
	gap := 1
	if kiosk {
		gap = 0
	}

	header := d.headerView(width, gap)
	middleH := height - headerHeight - gap
	middle := d.middleView(width, middleH, gap)

	parts := []string{header}
	if gap > 0 {
		parts = append(parts, "")
	}
	parts = append(parts, middle)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (d *displayModel) compactView(width int) string {
	st := d.common.styles
	line := st.number.Render(d.numberText()) + " " + st.counter.Render(d.counterText())
	return truncate.StringWithTail(line, uint(max(0, width)), ellipsis) //nolint:gosec
}

func (d *displayModel) headerView(width, gap int) string {
	st := d.common.styles
	logoW := max(10, width/5)
	marqueeW := max(0, width-logoW-gap)

	logos := make([]string, logoSlots)
	for i := range logos {
		label := truncate.StringWithTail(d.logoLabel(i), uint(logoW), ellipsis) //nolint:gosec
		logos[i] = st.logo.Width(logoW).Render(label)
	}

	marquee := st.marquee.
		Width(marqueeW).
		Height(headerHeight).
		Render(d.marquee.view(marqueeW))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, logos...),
		strings.Repeat(" ", gap),
		marquee,
	)
}

func (d *displayModel) middleView(width, height, gap int) string {
	st := d.common.styles
	videoW := width * 3 / 5
	infoW := max(0, width-videoW-gap)

	video := st.video.
		Width(videoW).
		Height(height).
		Render(d.videoLabel())

	var panel string
	if d.common.cfg.Display.Kiosk {
		panel = lipgloss.NewStyle().
			Width(infoW).
			Height(height).
			Render(d.infoView(infoW, height))
	} else {
		// border and padding take two cells on each side
		panel = st.panel.
			Width(infoW - 2).
			Height(height - 2).
			Render(d.infoView(infoW-4, height-2))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, video, strings.Repeat(" ", gap), panel)
}

func (d *displayModel) infoView(width, height int) string {
	st := d.common.styles
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	trunc := func(s string) string {
		return truncate.StringWithTail(s, uint(max(0, width)), ellipsis) //nolint:gosec
	}

	top := []string{
		center.Render(st.panelTitle.Render("INFORMASI ANTRIAN")),
		"",
		st.heading.Render(trunc("3 Nomor Terakhir")),
	}
	for i := 0; i < historyRows; i++ {
		top = append(top, st.history.Render(trunc(d.historyText(i))))
	}

	bottom := []string{
		center.Render(d.numberView(width)),
		center.Render(st.counter.Render(trunc(d.counterText()))),
		st.separator.Render(strings.Repeat("─", max(0, width))),
		center.Render(st.footer.Render(trunc(d.common.cfg.Footer))),
	}

	topView := strings.Join(top, "\n")
	bottomView := strings.Join(bottom, "\n")
	spacer := max(1, height-lipgloss.Height(topView)-lipgloss.Height(bottomView))
	return topView + strings.Repeat("\n", spacer+1) + bottomView
}

// numberView draws the current number, with block digits when the
// terminal is tall enough and they fit.
func (d *displayModel) numberView(width int) string {
	st := d.common.styles
	text := d.numberText()
	scale := scaleFor(d.common.height)
	if scale >= 1 && !d.common.cfg.NoBigDigits {
		wide := 1
		if scale >= 1.4 {
			wide = 2
		}
		if big := bigDigits(text, wide); lipgloss.Width(big) <= width {
			return st.number.Render(big)
		}
	}
	return st.number.Render(text)
}
