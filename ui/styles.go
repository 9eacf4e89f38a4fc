package ui

import "github.com/charmbracelet/lipgloss"

var (
	white     = lipgloss.Color("#FFFFFF")
	panelBg   = lipgloss.AdaptiveColor{Light: "#E2E8F0", Dark: "#0F172A"}
	panelEdge = lipgloss.AdaptiveColor{Light: "#94A3B8", Dark: "#1E293B"}
	textFg    = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#F8FAFC"}
	mutedFg   = lipgloss.AdaptiveColor{Light: "#475569", Dark: "#CBD5E1"}
	subtleFg  = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#64748B"}
	numberFg  = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FACC15"}
	counterFg = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#38BDF8"}
	previewFg = lipgloss.AdaptiveColor{Light: "#4338CA", Dark: "#A5B4FC"}
	buttonBg  = lipgloss.Color("#2563EB")
	logoBg    = lipgloss.Color("#10B981")
	videoBg   = lipgloss.Color("#1E3A8A")
	marqueeBg = lipgloss.Color("#222222")

	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	mintGreen       = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen       = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	errorFg         = lipgloss.Color("#FFFFFF")
	errorRedBg      = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#7F1D1D"}
)

// viewStyles groups the styles of both views. High contrast swaps the palette
// for plain black and white.
type viewStyles struct {
	logo       lipgloss.Style
	marquee    lipgloss.Style
	video      lipgloss.Style
	panel      lipgloss.Style
	panelTitle lipgloss.Style
	heading    lipgloss.Style
	history    lipgloss.Style
	number     lipgloss.Style
	counter    lipgloss.Style
	separator  lipgloss.Style
	footer     lipgloss.Style

	tellerPanel lipgloss.Style
	tellerTitle lipgloss.Style
	label       lipgloss.Style
	option      lipgloss.Style
	selected    lipgloss.Style
	button      lipgloss.Style
	last        lipgloss.Style
	preview     lipgloss.Style
	hint        lipgloss.Style

	statusNote    lipgloss.Style
	statusMessage lipgloss.Style
	statusError   lipgloss.Style
}

func newStyles(highContrast bool) viewStyles {
	s := viewStyles{
		logo: lipgloss.NewStyle().
			Foreground(white).
			Background(logoBg).
			Bold(true).
			Align(lipgloss.Center),
		marquee: lipgloss.NewStyle().
			Foreground(white).
			Background(marqueeBg),
		video: lipgloss.NewStyle().
			Foreground(white).
			Background(videoBg).
			Align(lipgloss.Center, lipgloss.Center),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelEdge).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().
			Foreground(textFg).
			Bold(true),
		heading: lipgloss.NewStyle().
			Foreground(mutedFg).
			Bold(true),
		history: lipgloss.NewStyle().
			Foreground(mutedFg),
		number: lipgloss.NewStyle().
			Foreground(numberFg).
			Bold(true),
		counter: lipgloss.NewStyle().
			Foreground(counterFg).
			Bold(true),
		separator: lipgloss.NewStyle().
			Foreground(panelEdge),
		footer: lipgloss.NewStyle().
			Foreground(subtleFg),

		tellerPanel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(panelEdge).
			Padding(0, 2),
		tellerTitle: lipgloss.NewStyle().
			Foreground(textFg).
			Bold(true),
		label: lipgloss.NewStyle().
			Foreground(subtleFg),
		option: lipgloss.NewStyle().
			Foreground(mutedFg).
			PaddingLeft(2),
		selected: lipgloss.NewStyle().
			Foreground(textFg).
			Background(panelBg).
			Bold(true),
		button: lipgloss.NewStyle().
			Foreground(white).
			Background(buttonBg).
			Bold(true).
			Padding(1, 4),
		last: lipgloss.NewStyle().
			Foreground(textFg).
			Bold(true),
		preview: lipgloss.NewStyle().
			Foreground(previewFg).
			Bold(true),
		hint: lipgloss.NewStyle().
			Foreground(subtleFg),

		statusNote: lipgloss.NewStyle().
			Foreground(statusBarNoteFg).
			Background(statusBarBg),
		statusMessage: lipgloss.NewStyle().
			Foreground(mintGreen).
			Background(darkGreen),
		statusError: lipgloss.NewStyle().
			Foreground(errorFg).
			Background(errorRedBg),
	}

	if highContrast {
		plain := func(st lipgloss.Style) lipgloss.Style {
			return st.UnsetForeground().UnsetBackground().Bold(true)
		}
		s.logo = plain(s.logo).Reverse(true)
		s.marquee = plain(s.marquee)
		s.video = plain(s.video).Reverse(true)
		s.number = plain(s.number)
		s.counter = plain(s.counter)
		s.button = plain(s.button).Reverse(true)
		s.selected = plain(s.selected).Reverse(true)
		s.statusMessage = plain(s.statusMessage).Reverse(true)
		s.statusError = plain(s.statusError).Reverse(true)
	}
	return s
}
