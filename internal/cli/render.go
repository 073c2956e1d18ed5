package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/trackboard/internal/aggregate"
	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/tableview"
)

// EmptyState is printed when a row set has nothing to show.
const EmptyState = "No records match the current filters."

const trendBarWidth = 20

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeHeader(tw *tabwriter.Writer, columns ...string) {
	styled := make([]string, len(columns))
	rules := make([]string, len(columns))
	for i, c := range columns {
		styled[i] = BoldStyle.Render(c)
		rules[i] = strings.Repeat("-", max(4, len(c)))
	}
	fmt.Fprintln(tw, strings.Join(styled, "\t"))
	fmt.Fprintln(tw, strings.Join(rules, "\t"))
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatRating renders an average rating, or "-" when no row had one.
func FormatRating(avg float64, count int) string {
	if count == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", avg)
}

// RenderTags renders the active filter tags on one line.
func RenderTags(tags []string) string {
	if len(tags) == 0 {
		return SubtleStyle.Render("No filters")
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = TagStyle.Render(t)
	}
	return strings.Join(parts, "")
}

// RenderSummary renders the headline figures of a snapshot in a box.
func RenderSummary(w io.Writer, s model.AggregateSnapshot, tags []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total records:   %d\n", s.TotalRecords)
	fmt.Fprintf(&b, "Locations:       %d\n", s.TotalLocations)
	fmt.Fprintf(&b, "On-Track:        %s\n", SuccessStyle.Render(fmt.Sprint(s.OnTrackCount)))
	fmt.Fprintf(&b, "Off-Track:       %s\n", ErrorStyle.Render(fmt.Sprint(s.OffTrackCount)))
	fmt.Fprintf(&b, "Other:           %d\n", s.OtherCount)
	fmt.Fprintf(&b, "On-Track rate:   %s\n",
		TierStyle(aggregate.RateTier(s.OnTrackRate)).Render(FormatPercent(s.OnTrackRate)))
	fmt.Fprintf(&b, "Average rating:  %s (%d rated)\n",
		TierStyle(aggregate.RatingTier(s.AverageRating)).Render(FormatRating(s.AverageRating, s.RatingCount)),
		s.RatingCount)
	b.WriteString(RenderTags(tags))

	_, err := fmt.Fprintln(w, RenderBox(ChartIcon+" Summary", b.String()))
	return err
}

// RenderLocations renders the per-location breakdown.
func RenderLocations(w io.Writer, breakdown []model.LocationBreakdown) error {
	if len(breakdown) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render(EmptyState))
		return err
	}
	tw := newTable(w)
	writeHeader(tw, "Location", "On-Track", "Off-Track", "Other", "Total", "Rate")
	for _, b := range breakdown {
		rate := aggregate.Percent(b.OnTrack, b.Total)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n",
			b.Location, b.OnTrack, b.OffTrack, b.Other, b.Total, FormatPercent(rate))
	}
	return tw.Flush()
}

// RenderTrend renders the monthly trend with a proportional bar per month.
func RenderTrend(w io.Writer, trend []model.MonthlyBucket) error {
	if len(trend) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No dated records."))
		return err
	}
	tw := newTable(w)
	writeHeader(tw, "Month", "On-Track", "Off-Track", "Records", "Rate", "")
	for _, m := range trend {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
			m.Label, m.OnTrack, m.OffTrack, m.TotalRecords, FormatPercent(m.OnTrackPercent), bar(m.OnTrackPercent))
	}
	return tw.Flush()
}

func bar(pct float64) string {
	filled := int(pct / 100 * trendBarWidth)
	filled = min(max(filled, 0), trendBarWidth)
	return TierStyle(aggregate.RateTier(pct)).Render(strings.Repeat("█", filled)) +
		SubtleStyle.Render(strings.Repeat("░", trendBarWidth-filled))
}

// RenderPage renders one page of the table followed by its footer.
func RenderPage(w io.Writer, p tableview.Page) error {
	if p.TotalRows == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render(EmptyState))
		return err
	}
	tw := newTable(w)
	writeHeader(tw, p.Header...)
	for _, row := range p.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, SubtleStyle.Render(PageFooter(p)))
	return err
}

// PageFooter describes the visible range, e.g. "Showing 26-50 of 120 (page 2 of 5)".
func PageFooter(p tableview.Page) string {
	return fmt.Sprintf("Showing %d-%d of %d (page %d of %d)",
		p.ShowingStart, p.ShowingEnd, p.TotalRows, p.PageIndex, p.TotalPages)
}

// RenderSchema renders the detected column roles against the header row.
func RenderSchema(w io.Writer, d *engine.Dataset) error {
	tw := newTable(w)
	writeHeader(tw, "Role", "Column", "Header")
	roles := []model.Role{model.RoleLocation, model.RolePerson, model.RoleDate, model.RoleStatus, model.RoleRating}
	for _, role := range roles {
		col := d.Schema.Index(role)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", role, engine.ColumnLetter(col), model.CellAt(d.Header, col))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s\n", SubtleStyle.Render(fmt.Sprintf(
		"Header row %d, %d data rows kept, fetched %s from %s",
		d.Schema.HeaderRowIndex+1, len(d.Rows), d.FetchedAt.Format(time.RFC3339), d.Source)))
	return err
}

// RenderStatuses renders the raw status distribution.
func RenderStatuses(w io.Writer, dist []aggregate.StatusCount) error {
	tw := newTable(w)
	writeHeader(tw, "Status", "Count", "Share")
	for _, s := range dist {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Status, s.Count, FormatPercent(s.Percent))
	}
	return tw.Flush()
}

// RenderColumnMetrics renders the numeric summary of each column.
func RenderColumnMetrics(w io.Writer, metrics []aggregate.ColumnMetric) error {
	if len(metrics) == 0 {
		_, err := fmt.Fprintln(w, SubtleStyle.Render("No numeric columns."))
		return err
	}
	tw := newTable(w)
	writeHeader(tw, "Column", "Header", "Count", "Sum", "Average", "Min", "Max")
	for _, m := range metrics {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
			engine.ColumnLetter(m.Column), m.Header, m.Count, m.Sum, m.Average, m.Min, m.Max)
	}
	return tw.Flush()
}

// RenderLocationDetail renders the drill-down of one location.
func RenderLocationDetail(w io.Writer, s aggregate.LocationSummary) error {
	if s.Snapshot.TotalRecords == 0 {
		_, err := fmt.Fprintln(w, FormatWarning(fmt.Sprintf("No records for location %q", s.Location)))
		return err
	}
	tier := TierStyle(aggregate.RateTier(s.Snapshot.OnTrackRate))
	fmt.Fprintf(w, "%s %s  %s\n", PinIcon, TitleStyle.UnsetMargins().Render(s.Location), tier.Render(s.Performance))
	if err := RenderSummary(w, s.Snapshot, nil); err != nil {
		return err
	}
	return RenderTrend(w, s.Snapshot.MonthlyTrend)
}
