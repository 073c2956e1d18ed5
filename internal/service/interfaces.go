// Package service defines the interfaces for the collaborators around the pipeline.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/trackboard/internal/model"
)

// MatrixSource retrieves the raw matrix from an external provider.
// Implementations return a *common.FetchError rather than a partial matrix.
type MatrixSource interface {
	Fetch(ctx context.Context) (model.Matrix, error)
	Describe() string
}

// ReportWriter publishes a computed report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, report *Report) error
}

// Report is the export view-model: summary plus the visible-column projection
// of every filtered row (not only the current page).
type Report struct {
	GeneratedAt time.Time
	Criteria    model.FilterCriteria
	Header      []string
	Rows        [][]string
	Snapshot    model.AggregateSnapshot
	Title       string
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
