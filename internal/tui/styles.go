package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary  = lipgloss.Color("#2563eb")
	colorPositive = lipgloss.Color("#16a34a")
	colorNegative = lipgloss.Color("#dc2626")
	colorMuted    = lipgloss.Color("#6b7280")
	colorWarning  = lipgloss.Color("#d97706")
	colorBorder   = lipgloss.Color("#d1d5db")
)

type Styles struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Card       lipgloss.Style
	CardTitle  lipgloss.Style
	CardValue  lipgloss.Style
	Positive   lipgloss.Style
	Negative   lipgloss.Style
	Neutral    lipgloss.Style
	Muted      lipgloss.Style
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
	Error      lipgloss.Style
	Banner     lipgloss.Style
	Bar        lipgloss.Style
	Help       lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Subtitle: lipgloss.NewStyle().Foreground(colorMuted),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(cardWidth),
		CardTitle: lipgloss.NewStyle().Foreground(colorMuted),
		CardValue: lipgloss.NewStyle().Bold(true),
		Positive:  lipgloss.NewStyle().Foreground(colorPositive),
		Negative:  lipgloss.NewStyle().Foreground(colorNegative),
		Neutral:   lipgloss.NewStyle().Foreground(colorMuted),
		Muted:     lipgloss.NewStyle().Foreground(colorMuted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().Bold(true),
		Error:      lipgloss.NewStyle().Foreground(colorNegative),
		Banner:     lipgloss.NewStyle().Foreground(colorWarning),
		Bar:        lipgloss.NewStyle().Foreground(colorPrimary),
		Help:       lipgloss.NewStyle().Foreground(colorMuted),
	}
}
