// Package ui provides the display and teller views of the queue.
package ui

import (
	"strings"
	"time"

	"github.com/antrian/loket/internal/queue"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/truncate"
	te "github.com/muesli/termenv"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "disalin"
	ellipsis             = "…"

	tellerWidth     = 46
	sideBySideWidth = 110
	fallbackWidth   = 80
	fallbackHeight  = 24
)

// NewProgram returns a new Tea program. The views are subscribed to seq in
// order, display first, so they must be created before any other observer.
func NewProgram(cfg Config, seq *queue.Sequencer) *tea.Program {
	log.Debug(
		"Starting loket",
		"mode", cfg.Mode,
		"fullscreen", cfg.Display.ForceFullscreen,
		"kiosk", cfg.Display.Kiosk,
	)

	m := newModel(cfg, seq)
	var opts []tea.ProgramOption
	if m.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	return tea.NewProgram(m, opts...)
}

// AnnouncementMsg reports a finished spoken announcement.
type AnnouncementMsg struct {
	Entry queue.CallEntry
	Err   error
}

type (
	statusTimeoutMsg struct{ id int }
	queueResetMsg    struct{}
)

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg    Config
	styles viewStyles
	width  int
	height int
	help   help.Model

	statusMessage string
	statusError   bool
	statusID      int
}

// showStatus shows text in the status bar for a few seconds.
func (c *commonModel) showStatus(text string, isError bool) tea.Cmd {
	c.statusID++
	c.statusMessage = text
	c.statusError = isError
	id := c.statusID
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusTimeoutMsg{id: id}
	})
}

type model struct {
	common *commonModel

	// Sub-models; nil when the mode leaves them out.
	display *displayModel
	teller  *tellerModel

	altScreen bool

	// showTeller picks the visible view when both do not fit side by side.
	showTeller bool
}

func newModel(cfg Config, seq *queue.Sequencer) model {
	cfg = cfg.withDefaults()
	cfg.Display.TargetScreen = resolveScreen(cfg.Display.TargetScreen)

	if cfg.GlamourStyle == "" || cfg.GlamourStyle == styles.AutoStyle || styles.DefaultStyles[cfg.GlamourStyle] == nil {
		if te.HasDarkBackground() {
			cfg.GlamourStyle = styles.DarkStyle
		} else {
			cfg.GlamourStyle = styles.LightStyle
		}
	}

	common := &commonModel{
		cfg:    cfg,
		styles: newStyles(cfg.HighContrast),
		help:   help.New(),
	}

	m := model{common: common}
	if cfg.Mode.hasDisplay() {
		m.display = newDisplayModel(common, seq)
		seq.Subscribe(m.display)
		m.altScreen = cfg.Display.ForceFullscreen || cfg.Display.Kiosk
	}
	if cfg.Mode.hasTeller() {
		m.teller = newTellerModel(common, seq)
		seq.Subscribe(m.teller)
	}
	m.showTeller = m.display == nil
	return m
}

func (m model) title() string {
	if m.display == nil {
		return "Teller - Pemanggilan Antrian"
	}
	return m.common.cfg.Title
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle(m.title())}
	if m.common.cfg.Display.HideCursor {
		cmds = append(cmds, tea.HideCursor)
	}
	if m.display != nil {
		cmds = append(cmds, m.display.init())
	}
	if m.teller != nil {
		cmds = append(cmds, m.teller.init())
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The filter and the help overlay see keys first.
		if m.teller != nil && (m.teller.filtering || m.teller.showHelp) && msg.String() != "ctrl+c" {
			return m, m.teller.update(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, m.quit()
		case key.Matches(msg, keys.Fullscreen):
			return m, m.toggleFullscreen()
		case key.Matches(msg, keys.Escape):
			if m.altScreen {
				m.altScreen = false
				return m, tea.ExitAltScreen
			}
			return m, m.quit()
		case key.Matches(msg, keys.Switch):
			if m.display != nil && m.teller != nil {
				m.showTeller = !m.showTeller
			}
			return m, nil
		case msg.String() == "ctrl+z":
			return m, tea.Suspend
		}

		if m.teller != nil {
			return m, m.teller.update(msg)
		}

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height

	case statusTimeoutMsg:
		if msg.id == m.common.statusID {
			m.common.statusMessage = ""
			m.common.statusError = false
		}

	case AnnouncementMsg:
		if msg.Err != nil {
			return m, m.common.showStatus("TTS error: "+msg.Err.Error(), true)
		}
		return m, m.common.showStatus("Diumumkan: Nomor "+msg.Entry.String(), false)

	case queueResetMsg:
		if m.display != nil {
			m.display.sync()
		}

	case marqueeTickMsg, marqueeFileMsg:
		if m.display != nil {
			return m, m.display.update(msg)
		}

	case tellerTickMsg:
		if m.teller != nil {
			return m, m.teller.update(msg)
		}
	}

	return m, nil
}

func (m *model) toggleFullscreen() tea.Cmd {
	m.altScreen = !m.altScreen
	if m.altScreen {
		return tea.EnterAltScreen
	}
	return tea.ExitAltScreen
}

func (m model) quit() tea.Cmd {
	if m.display != nil {
		m.display.close()
	}
	return tea.Quit
}

func (m model) size() (int, int) {
	w, h := m.common.width, m.common.height
	if w <= 0 {
		w = fallbackWidth
	}
	if h <= 0 {
		h = fallbackHeight
	}
	return w, h
}

func (m model) showStatusBar() bool {
	return !m.common.cfg.Display.Kiosk
}

func (m model) View() string {
	w, h := m.size()
	bodyH := h
	if m.showStatusBar() {
		bodyH--
	}

	var body string
	switch {
	case m.display != nil && m.teller != nil && w >= sideBySideWidth:
		dw := w - tellerWidth - 1
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.display.view(dw, bodyH),
			" ",
			m.teller.view(tellerWidth, bodyH),
		)
	case m.teller != nil && (m.display == nil || m.showTeller):
		body = m.teller.view(w, bodyH)
	default:
		body = m.display.view(w, bodyH)
	}

	if !m.showStatusBar() {
		return body
	}
	return body + "\n" + m.statusBarView(w)
}

func (m model) helpKeys() help.KeyMap {
	if m.teller != nil {
		return tellerKeys{keys}
	}
	return displayKeys{keys}
}

func (m model) statusBarView(width int) string {
	st := m.common.styles

	note, style := m.common.statusMessage, st.statusNote
	switch {
	case note != "" && m.common.statusError:
		style = st.statusError
	case note != "":
		style = st.statusMessage
	case m.display != nil:
		note = "Sistem Antrian Siap"
	default:
		note = m.title()
	}

	helpView := m.common.help.ShortHelpView(m.helpKeys().ShortHelp())
	if lipgloss.Width(helpView)+lipgloss.Width(note)+3 > width {
		helpView = ""
	}

	note = truncate.StringWithTail(" "+note+" ", uint(max(0, width-lipgloss.Width(helpView)-1)), ellipsis) //nolint:gosec
	padding := max(0, width-lipgloss.Width(note)-lipgloss.Width(helpView)-1)

	return style.Render(note) +
		st.statusNote.Render(strings.Repeat(" ", padding)) +
		st.statusNote.Render(helpView+" ")
}
