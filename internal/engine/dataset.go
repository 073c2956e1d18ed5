// Package engine runs the dashboard pipeline and owns the refresh cycle.
package engine

import (
	"time"

	"github.com/Veraticus/trackboard/internal/aggregate"
	"github.com/Veraticus/trackboard/internal/filter"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/service"
	"github.com/Veraticus/trackboard/internal/tableview"
)

// Dataset is the result of one successful refresh. It is immutable:
// a refresh replaces it wholesale.
type Dataset struct {
	FetchedAt time.Time
	Source    string
	RunID     string
	Matrix    model.Matrix
	Header    []string
	Rows      []model.ClassifiedRow
	Schema    model.ColumnSchema
}

// View is everything a presentation layer needs for one criteria and table state.
type View struct {
	Criteria model.FilterCriteria
	Snapshot model.AggregateSnapshot
	Page     tableview.Page
	Filtered []model.ClassifiedRow
	Tags     []string
}

// View recomputes the downstream pipeline: filter, then aggregate and page.
func (d *Dataset) View(c model.FilterCriteria, st model.TableViewState) View {
	filtered := filter.Apply(d.Rows, c)
	return View{
		Criteria: c,
		Snapshot: aggregate.Compute(filtered),
		Page:     tableview.Build(d.Header, filtered, st),
		Filtered: filtered,
		Tags:     filter.Describe(c),
	}
}

// Snapshot aggregates the rows matching c.
func (d *Dataset) Snapshot(c model.FilterCriteria) model.AggregateSnapshot {
	return aggregate.Compute(filter.Apply(d.Rows, c))
}

// Report builds the export view-model: summary plus every filtered row
// projected onto the visible columns.
func (d *Dataset) Report(c model.FilterCriteria, visible []int, title string, now time.Time) *service.Report {
	filtered := filter.Apply(d.Rows, c)
	projection := tableview.Projection(d.Header, filtered, visible)
	return &service.Report{
		Title:       title,
		GeneratedAt: now,
		Criteria:    c,
		Header:      projection[0],
		Rows:        projection[1:],
		Snapshot:    aggregate.Compute(filtered),
	}
}

// Locations lists the distinct locations in first-seen order.
func (d *Dataset) Locations() []string {
	return filter.Locations(d.Rows)
}

// Persons lists the distinct persons in first-seen order.
func (d *Dataset) Persons() []string {
	return filter.Persons(d.Rows)
}

// DefaultViewState shows every column of the dataset.
func (d *Dataset) DefaultViewState() model.TableViewState {
	return model.NewTableViewState(len(d.Header))
}
