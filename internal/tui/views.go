package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/trackboard/internal/cli"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.dataset == nil {
		return m.renderLoading()
	}

	sections := []string{
		m.renderHeader(),
		m.renderTags(),
		m.renderBody(),
		m.renderFooter(),
	}
	if m.searching {
		sections = append(sections, m.search.View())
	}
	if m.lastErr != nil {
		sections = append(sections, m.theme.StatusError.Render(fmt.Sprintf(
			"Refresh failed: %v (showing data from %s)", m.lastErr, m.dataset.FetchedAt.Format("15:04:05"))))
	}
	sections = append(sections, m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderLoading renders the screen shown until the first dataset arrives.
func (m Model) renderLoading() string {
	status := m.spinner.View() + " Loading audit data..."
	if m.lastErr != nil {
		status = m.theme.StatusError.Render("Failed to load data: "+m.lastErr.Error()) +
			"\n" + m.theme.Subtitle.Render("Press r to retry, q to quit")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.theme.Title.Render("Trackboard"),
		"",
		status,
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Trackboard")
	meta := m.theme.Subtitle.Render(fmt.Sprintf("%s · updated %s",
		m.dataset.Source, m.dataset.FetchedAt.Local().Format("15:04:05")))
	if m.loading {
		meta += " " + m.spinner.View()
	}
	return title + "  " + meta
}

func (m Model) renderTags() string {
	if len(m.view.Tags) == 0 {
		return m.theme.StatusPending.Render("No filters")
	}
	var b strings.Builder
	for _, t := range m.view.Tags {
		b.WriteString(m.theme.Tag.Render(t))
	}
	return b.String()
}

func (m Model) renderBody() string {
	var tableView string
	if m.view.Page.TotalRows == 0 {
		tableView = m.theme.StatusPending.Render(cli.EmptyState)
	} else {
		tableView = m.table.View()
	}

	if m.width < 100 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.summary.View(),
			m.theme.RoundedBox.Render(tableView),
		)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.RoundedBox.Render(tableView),
		m.theme.RoundedBox.Render(m.summary.View()),
	)
}

func (m Model) renderFooter() string {
	parts := []string{
		cli.PageFooter(m.view.Page),
		"page size " + model.FormatPageSize(m.state.PageSize),
		m.focusedColumn(),
	}
	return m.theme.Subtitle.Render(strings.Join(parts, " · "))
}
