package tui

import (
	"time"

	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme           themes.Theme
	Refresher       *engine.Refresher
	Now             func() time.Time
	Criteria        model.FilterCriteria
	RefreshInterval time.Duration
	PageSize        int
	Width           int
	Height          int
	ShowHelp        bool
	AltScreen       bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:           themes.Default,
		Now:             time.Now,
		RefreshInterval: engine.DefaultRefreshInterval,
		PageSize:        model.DefaultPageSize,
		Width:           120,
		Height:          40,
		AltScreen:       true,
	}
}

// WithRefresher sets the refresh cycle that feeds the dashboard.
func WithRefresher(r *engine.Refresher) Option {
	return func(c *Config) {
		c.Refresher = r
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithCriteria sets the filters applied at startup.
func WithCriteria(criteria model.FilterCriteria) Option {
	return func(c *Config) {
		c.Criteria = criteria
	}
}

// WithPageSize sets the initial page size; model.PageSizeAll shows every row.
func WithPageSize(size int) Option {
	return func(c *Config) {
		c.PageSize = size
	}
}

// WithRefreshInterval sets the automatic refresh period. Zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Config) {
		c.RefreshInterval = d
	}
}

// WithClock overrides the time source used by date presets.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
