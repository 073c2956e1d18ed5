// Package tui is the interactive terminal dashboard built on bubbletea.
package tui

import (
	"context"
	"fmt"
	"slices"

	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/Veraticus/trackboard/internal/filter"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/tui/components"
	"github.com/Veraticus/trackboard/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 28
	chromeHeight   = 14
)

// Model holds the dashboard state. The filter criteria and table state are
// user-owned and survive every refresh; only the dataset is replaced.
type Model struct {
	ctx         context.Context
	lastErr     error
	dataset     *engine.Dataset
	theme       themes.Theme
	keymap      KeyMap
	criteria    model.FilterCriteria
	view        engine.View
	state       model.TableViewState
	config      Config
	search      textinput.Model
	help        help.Model
	spinner     spinner.Model
	table       table.Model
	summary     components.SummaryPanelModel
	column      int
	presetIndex int
	dropped     int
	width       int
	height      int
	stateReady  bool
	searching   bool
	loading     bool
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Theme.Title

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search all cells"
	search.CharLimit = 120

	tbl := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected
	tbl.SetStyles(styles)

	m := Model{
		ctx:      ctx,
		config:   cfg,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		search:   search,
		table:    tbl,
		summary:  components.NewSummaryPanelModel(cfg.Theme),
		criteria: cfg.Criteria,
		width:    cfg.Width,
		height:   cfg.Height,
		loading:  true,
	}
	m.help.ShowAll = cfg.ShowHelp
	m.resize()
	return m
}

// Init shows the current dataset when one is loaded, otherwise triggers the
// first refresh, and starts the refresh timer.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, tick(m.config.RefreshInterval)}
	if m.config.Refresher != nil {
		if _, err := m.config.Refresher.Current(); err == nil {
			return tea.Batch(append(cmds, m.loadCurrent())...)
		}
	}
	return tea.Batch(append(cmds, m.refresh())...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case datasetMsg:
		m.loading = false
		m.lastErr = nil
		m.setDataset(msg.dataset)
		return m, nil

	case refreshFailedMsg:
		m.loading = false
		m.lastErr = msg.err
		return m, nil

	case refreshDroppedMsg:
		m.dropped++
		return m, nil

	case tickMsg:
		m.loading = true
		return m, tea.Batch(m.refresh(), tick(m.config.RefreshInterval))

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		m.loading = true
		return m, m.refresh()

	case key.Matches(msg, m.keymap.Search):
		m.searching = true
		m.search.SetValue(m.criteria.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()
	}

	if m.dataset == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.PrevColumn):
		m.column = max(m.column-1, 0)
		m.rebuildTable()

	case key.Matches(msg, m.keymap.NextColumn):
		m.column = min(m.column+1, len(m.dataset.Header)-1)
		m.rebuildTable()

	case key.Matches(msg, m.keymap.Sort):
		m.state.ToggleSort(m.column)
		m.recompute()

	case key.Matches(msg, m.keymap.ToggleColumn):
		m.state.ToggleColumn(m.column)
		m.recompute()

	case key.Matches(msg, m.keymap.ShowColumns):
		m.state.VisibleColumns = m.dataset.DefaultViewState().VisibleColumns
		m.recompute()

	case key.Matches(msg, m.keymap.PageSize):
		m.state.SetPageSize(nextPageSize(m.state.PageSize))
		m.recompute()

	case key.Matches(msg, m.keymap.NextPage):
		if m.state.PageIndex < m.view.Page.TotalPages {
			m.state.SetPage(m.state.PageIndex + 1)
			m.recompute()
		}

	case key.Matches(msg, m.keymap.PrevPage):
		if m.state.PageIndex > 1 {
			m.state.SetPage(m.state.PageIndex - 1)
			m.recompute()
		}

	case key.Matches(msg, m.keymap.CycleStatus):
		m.criteria.Status = nextStatus(m.criteria.Status)
		m.applyFilters()

	case key.Matches(msg, m.keymap.Preset):
		m.nextPreset()
		m.applyFilters()

	case key.Matches(msg, m.keymap.ClearFilters):
		m.criteria = model.FilterCriteria{}
		m.presetIndex = 0
		m.applyFilters()

	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.criteria.Search = m.search.Value()
		m.applyFilters()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// setDataset swaps in a new dataset and recomputes the view with the
// criteria and table state the user already had.
func (m *Model) setDataset(d *engine.Dataset) {
	if d == nil {
		return
	}
	m.dataset = d
	if !m.stateReady {
		m.state = d.DefaultViewState()
		m.state.SetPageSize(m.config.PageSize)
		m.stateReady = true
	}
	if m.column >= len(d.Header) {
		m.column = max(len(d.Header)-1, 0)
	}
	m.recompute()
}

// applyFilters re-runs the pipeline from the filter step and returns to page 1.
func (m *Model) applyFilters() {
	m.state.SetPage(1)
	m.recompute()
}

func (m *Model) recompute() {
	if m.dataset == nil {
		return
	}
	m.view = m.dataset.View(m.criteria, m.state)
	m.state.PageIndex = m.view.Page.PageIndex
	m.summary.SetSnapshot(m.view.Snapshot)
	m.rebuildTable()
}

func (m *Model) rebuildTable() {
	page := m.view.Page
	columns := make([]table.Column, len(page.Header))
	for i, title := range page.Header {
		col := page.Columns[i]
		if col == m.state.SortColumn {
			if m.state.SortDirection == model.SortAscending {
				title += " ▲"
			} else {
				title += " ▼"
			}
		}
		if col == m.column {
			title = "[" + title + "]"
		}
		width := len([]rune(title))
		for _, row := range page.Rows {
			width = max(width, len([]rune(row[i])))
		}
		columns[i] = table.Column{Title: title, Width: min(max(width, minColumnWidth), maxColumnWidth)}
	}

	rows := make([]table.Row, len(page.Rows))
	for i, r := range page.Rows {
		rows[i] = table.Row(r)
	}

	// Rows must never be wider than the column set while it changes.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *Model) resize() {
	m.summary.Resize(m.width / 3)
	m.summary.SetCompact(m.width < 100)
	m.help.Width = m.width
	m.table.SetWidth(m.tableWidth())
	m.table.SetHeight(max(m.height-chromeHeight, 5))
}

func (m Model) tableWidth() int {
	if m.width < 100 {
		return max(m.width-4, 20)
	}
	return max(m.width-m.width/3-6, 20)
}

func (m *Model) nextPreset() {
	names := filter.PresetNames()
	m.presetIndex = (m.presetIndex + 1) % (len(names) + 1)
	if m.presetIndex == 0 {
		m.criteria = model.FilterCriteria{}
		return
	}
	c, err := filter.Preset(names[m.presetIndex-1], m.config.Now())
	if err != nil {
		m.lastErr = err
		return
	}
	m.criteria = c
}

// nextPageSize cycles through model.PageSizeOptions.
func nextPageSize(current int) int {
	i := slices.Index(model.PageSizeOptions, current)
	return model.PageSizeOptions[(i+1)%len(model.PageSizeOptions)]
}

// nextStatus cycles none → on-track → off-track → other → none.
func nextStatus(current *model.StatusCategory) *model.StatusCategory {
	var next model.StatusCategory
	switch {
	case current == nil:
		next = model.StatusOnTrack
	case *current == model.StatusOnTrack:
		next = model.StatusOffTrack
	case *current == model.StatusOffTrack:
		next = model.StatusOther
	default:
		return nil
	}
	return &next
}

// focusedColumn describes the column under the cursor.
func (m Model) focusedColumn() string {
	if m.dataset == nil || len(m.dataset.Header) == 0 {
		return ""
	}
	state := "visible"
	if !m.state.IsVisible(m.column) {
		state = "hidden"
	}
	return fmt.Sprintf("Column %s: %s (%s)",
		engine.ColumnLetter(m.column), model.CellAt(m.dataset.Header, m.column), state)
}
