// Package components holds the reusable panels of the dashboard.
package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/trackboard/internal/aggregate"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxBarWidth = 40

// SummaryPanelModel shows the headline figures and the per-location breakdown.
type SummaryPanelModel struct {
	theme    themes.Theme
	snapshot model.AggregateSnapshot
	rateBar  progress.Model
	width    int
	compact  bool
}

// NewSummaryPanelModel creates a new summary panel.
func NewSummaryPanelModel(theme themes.Theme) SummaryPanelModel {
	bar := progress.New(progress.WithSolidFill(string(theme.Success)))
	bar.ShowPercentage = false
	bar.Width = maxBarWidth

	return SummaryPanelModel{
		theme:   theme,
		rateBar: bar,
	}
}

// SetSnapshot replaces the figures shown.
func (m *SummaryPanelModel) SetSnapshot(s model.AggregateSnapshot) {
	m.snapshot = s
	tier := aggregate.RateTier(s.OnTrackRate)
	m.rateBar.FullColor = string(m.theme.TierColor(tier))
}

// Snapshot returns the figures shown.
func (m SummaryPanelModel) Snapshot() model.AggregateSnapshot {
	return m.snapshot
}

// SetCompact switches between the one-line and the full layout.
func (m *SummaryPanelModel) SetCompact(compact bool) {
	m.compact = compact
}

// Resize sets the panel width.
func (m *SummaryPanelModel) Resize(width int) {
	m.width = width
	m.rateBar.Width = max(min(width-24, maxBarWidth), 10)
}

// Update handles messages.
func (m SummaryPanelModel) Update(msg tea.Msg) (SummaryPanelModel, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.Resize(msg.Width)
	}
	return m, nil
}

// View renders the panel.
func (m SummaryPanelModel) View() string {
	if m.compact {
		return m.renderCompact()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeadline(),
		"",
		m.renderLocations(),
	)
}

func (m SummaryPanelModel) renderCompact() string {
	s := m.snapshot
	rate := m.theme.Tier(aggregate.RateTier(s.OnTrackRate)).Render(fmt.Sprintf("%.1f%%", s.OnTrackRate))
	return m.theme.Normal.Render(fmt.Sprintf("%d records | %d locations | on-track %s | avg %s",
		s.TotalRecords, s.TotalLocations, rate, ratingText(s)))
}

func (m SummaryPanelModel) renderHeadline() string {
	s := m.snapshot
	rateStyle := m.theme.Tier(aggregate.RateTier(s.OnTrackRate))
	ratingStyle := m.theme.Tier(aggregate.RatingTier(s.AverageRating))
	if s.RatingCount == 0 {
		ratingStyle = m.theme.StatusPending
	}

	lines := []string{
		m.theme.Subtitle.Render("Summary"),
		fmt.Sprintf("Records %s  Locations %s",
			m.theme.Bold.Render(fmt.Sprint(s.TotalRecords)),
			m.theme.Bold.Render(fmt.Sprint(s.TotalLocations))),
		fmt.Sprintf("%s %s  %s %s  Other %d",
			m.theme.StatusSuccess.Render("On-Track"), fmt.Sprint(s.OnTrackCount),
			m.theme.StatusError.Render("Off-Track"), fmt.Sprint(s.OffTrackCount),
			s.OtherCount),
		fmt.Sprintf("%s %s", m.rateBar.ViewAs(s.OnTrackRate/100), rateStyle.Render(fmt.Sprintf("%.1f%%", s.OnTrackRate))),
		fmt.Sprintf("Average rating %s", ratingStyle.Render(ratingText(s))),
	}
	return strings.Join(lines, "\n")
}

func (m SummaryPanelModel) renderLocations() string {
	lines := []string{m.theme.Subtitle.Render("Top locations")}
	if len(m.snapshot.PerLocationBreakdown) == 0 {
		return strings.Join(append(lines, m.theme.StatusPending.Render("none")), "\n")
	}

	nameWidth := 0
	for _, b := range m.snapshot.PerLocationBreakdown {
		nameWidth = max(nameWidth, lipgloss.Width(b.Location))
	}
	nameWidth = min(nameWidth, 24)

	for _, b := range m.snapshot.PerLocationBreakdown {
		pct := aggregate.Percent(b.OnTrack, b.Total)
		name := b.Location
		if r := []rune(name); len(r) > nameWidth {
			name = string(r[:nameWidth-1]) + "…"
		}
		lines = append(lines, fmt.Sprintf("%-*s %3d  %s",
			nameWidth, name, b.Total,
			m.theme.Tier(aggregate.RateTier(pct)).Render(fmt.Sprintf("%5.1f%%", pct))))
	}
	return strings.Join(lines, "\n")
}

func ratingText(s model.AggregateSnapshot) string {
	if s.RatingCount == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", s.AverageRating)
}
