// Package tui renders a dashboard view in the terminal.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"validprop/internal/dashboard"
)

const (
	cardWidth    = 32
	cardsPerRow  = 3
	barWidth     = 30
	updatedAtFmt = "15:04:05"
)

// Controller is the part of a dashboard controller the terminal view uses.
type Controller interface {
	View() dashboard.View
	Refresh()
	Subscribe() chan struct{}
}

type updateMsg struct{}

type closedMsg struct{}

type Model struct {
	ctrl    Controller
	updates chan struct{}
	view    dashboard.View
	spinner spinner.Model
	styles  Styles
	width   int

	quitting bool
}

// New subscribes to ctrl. The caller mounts and closes the controller.
func New(ctrl Controller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctrl:    ctrl,
		updates: ctrl.Subscribe(),
		view:    ctrl.View(),
		spinner: sp,
		styles:  DefaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForUpdate(m.updates))
}

func waitForUpdate(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return closedMsg{}
		}
		return updateMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.ctrl.Refresh()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case updateMsg:
		m.view = m.ctrl.View()
		return m, waitForUpdate(m.updates)

	case closedMsg:
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("ValidProp Dashboard"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Real-time overview of provider validation system"))
	b.WriteString("\n\n")

	v := m.view
	switch {
	case v.StatsPending():
		b.WriteString(m.spinner.View() + " Loading dashboard...")
	case v.StatsUnavailable():
		b.WriteString(m.styles.Error.Render("Unable to load dashboard statistics: " + v.Stats.Reason()))
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Press r to retry."))
	default:
		if v.Stats.IsFailed() {
			b.WriteString(m.styles.Banner.Render("Showing last known statistics. Refresh failed: " + v.Stats.Reason()))
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderCards(dashboard.Cards(v.Stats.Data)))
		b.WriteString("\n")
		b.WriteString(m.renderDistribution(dashboard.Distribution(v.Stats.Data)))
		b.WriteString("\n")
		b.WriteString(m.renderActivity())
		if !v.Stats.UpdatedAt.IsZero() {
			b.WriteString("\n")
			b.WriteString(m.styles.Muted.Render("Last updated " + v.Stats.UpdatedAt.Format(updatedAtFmt)))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("r refresh • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCards(cards []dashboard.StatCard) string {
	perRow := cardsPerRow
	if m.width > 0 && m.width < cardsPerRow*(cardWidth+2) {
		perRow = max(1, m.width/(cardWidth+2))
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		boxes := make([]string, 0, end-i)
		for _, c := range cards[i:end] {
			boxes = append(boxes, m.renderCard(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCard(c dashboard.StatCard) string {
	change := m.styles.Neutral
	switch c.ChangeType {
	case dashboard.ChangePositive:
		change = m.styles.Positive
	case dashboard.ChangeNegative:
		change = m.styles.Negative
	}

	body := strings.Join([]string{
		m.styles.CardTitle.Render(c.Title),
		m.styles.CardValue.Render(c.Value),
		change.Render(c.Change) + " " + m.styles.Muted.Render(c.Description),
	}, "\n")
	return m.styles.Card.Render(body)
}

func (m Model) renderDistribution(slices []dashboard.Slice) string {
	var b strings.Builder
	b.WriteString(m.styles.PanelTitle.Render("Validation Status Distribution"))
	b.WriteString("\n")
	for _, s := range slices {
		filled := int(math.Round(s.Percent / 100 * barWidth))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(&b, "%-13s %s %5.1f%% %s\n", s.Label, m.styles.Bar.Render(bar), s.Percent, s.Display())
	}
	return m.styles.Panel.Render(strings.TrimSuffix(b.String(), "\n"))
}

func (m Model) renderActivity() string {
	a := m.view.Activity
	if a.IsLoading() {
		return m.styles.Panel.Render("Loading activity...")
	}

	var b strings.Builder
	b.WriteString(m.styles.PanelTitle.Render("Recent Activity"))

	if a.IsFailed() && !a.HasData {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("Unable to load recent activity: " + a.Reason()))
		return m.styles.Panel.Render(b.String())
	}
	if a.IsFailed() {
		b.WriteString("\n")
		b.WriteString(m.styles.Banner.Render("Activity refresh failed: " + a.Reason()))
	}

	if len(a.Data) == 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("No recent activity"))
	}
	for _, e := range a.Data {
		b.WriteString("\n• " + e.Label())
	}
	return m.styles.Panel.Render(b.String())
}
