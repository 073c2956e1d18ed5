package tui

import (
	"errors"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// refresh triggers one refresh cycle. A trigger during a running cycle is dropped.
func (m Model) refresh() tea.Cmd {
	refresher := m.config.Refresher
	ctx := m.ctx
	return func() tea.Msg {
		if refresher == nil {
			return refreshFailedMsg{err: common.ErrNoData}
		}
		d, err := refresher.Refresh(ctx)
		switch {
		case errors.Is(err, common.ErrRefreshInFlight):
			return refreshDroppedMsg{}
		case err != nil:
			return refreshFailedMsg{err: err}
		}
		return datasetMsg{dataset: d}
	}
}

// tick schedules the next automatic refresh.
func tick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadCurrent shows an already loaded dataset without fetching.
func (m Model) loadCurrent() tea.Cmd {
	refresher := m.config.Refresher
	return func() tea.Msg {
		if refresher == nil {
			return nil
		}
		d, err := refresher.Current()
		if err != nil {
			return nil
		}
		return datasetMsg{dataset: d}
	}
}
