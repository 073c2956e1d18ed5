package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/trackboard/internal/aggregate"
	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/engine"
	"github.com/Veraticus/trackboard/internal/export"
	"github.com/Veraticus/trackboard/internal/filter"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/service"
	"github.com/Veraticus/trackboard/internal/tableview"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type errorResponse struct {
	Error string `json:"error"`
}

type summaryResponse struct {
	FetchedAt time.Time               `json:"fetched_at"`
	Criteria  model.FilterCriteria    `json:"criteria"`
	Tags      []string                `json:"tags"`
	Snapshot  model.AggregateSnapshot `json:"snapshot"`
	Source    string                  `json:"source"`
	RunID     string                  `json:"run_id"`
}

// summaryEvent is pushed over the websocket after every refresh.
type summaryEvent struct {
	Type string `json:"type"`
	summaryResponse
}

func newSummary(d *engine.Dataset, c model.FilterCriteria) summaryResponse {
	return summaryResponse{
		FetchedAt: d.FetchedAt,
		Source:    d.Source,
		RunID:     d.RunID,
		Criteria:  c,
		Tags:      filter.Describe(c),
		Snapshot:  d.Snapshot(c),
	}
}

func newSummaryEvent(d *engine.Dataset, c model.FilterCriteria) summaryEvent {
	return summaryEvent{Type: "refresh", summaryResponse: newSummary(d, c)}
}

type tableResponse struct {
	Criteria model.FilterCriteria `json:"criteria"`
	Sort     string               `json:"sort,omitempty"`
	Dir      string               `json:"dir,omitempty"`
	tableview.Page
}

type locationsResponse struct {
	Locations []model.LocationBreakdown `json:"locations"`
	Names     []string                  `json:"names"`
}

type locationResponse struct {
	aggregate.LocationSummary
	Records int `json:"records"`
}

type statusesResponse struct {
	Statuses []aggregate.StatusCount `json:"statuses"`
	Total    int                     `json:"total"`
}

type columnsResponse struct {
	Header  []string                 `json:"header"`
	Schema  model.ColumnSchema       `json:"schema"`
	Metrics []aggregate.ColumnMetric `json:"metrics"`
}

// dataset returns the current dataset or answers 503.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (*engine.Dataset, bool) {
	d, err := s.refresher.Current()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrNoData) {
			status = http.StatusServiceUnavailable
		}
		s.fail(w, r, status, err)
		return nil, false
	}
	return d, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func (s *Server) parse(r *http.Request) request {
	return parseQuery(s.validate, r.URL.Query(), s.now(), s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.refresher.Status()
	if !st.Loaded {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, st)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, newSummary(d, s.parse(r).Criteria))
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	req := s.parse(r)
	st := req.tableState(d.Header, s.cfg.PageSize, s.logger)
	view := d.View(req.Criteria, st)

	resp := tableResponse{Criteria: req.Criteria, Page: view.Page}
	if st.SortColumn != model.NoSort {
		resp.Sort = d.Header[st.SortColumn]
		resp.Dir = st.SortDirection.String()
	}
	render.JSON(w, r, resp)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, d.Snapshot(s.parse(r).Criteria).MonthlyTrend)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	req := s.parse(r)
	rows := filter.Apply(d.Rows, req.Criteria)
	render.JSON(w, r, locationsResponse{
		Locations: aggregate.Breakdown(rows, req.Limit),
		Names:     d.Locations(),
	})
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	name, err := url.PathUnescape(chi.URLParam(r, "location"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, fmt.Errorf("invalid location: %w", err))
		return
	}

	req := s.parse(r)
	detail := aggregate.LocationDetail(filter.Apply(d.Rows, req.Criteria), name)
	if len(detail.Rows) == 0 {
		s.fail(w, r, http.StatusNotFound, fmt.Errorf("no records for location %q", strings.TrimSpace(name)))
		return
	}
	render.JSON(w, r, locationResponse{LocationSummary: detail, Records: len(detail.Rows)})
}

func (s *Server) handleStatuses(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	rows := filter.Apply(d.Rows, s.parse(r).Criteria)
	render.JSON(w, r, statusesResponse{
		Statuses: aggregate.StatusDistribution(rows, d.Schema.Status),
		Total:    len(rows),
	})
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	d, ok := s.dataset(w, r)
	if !ok {
		return
	}
	rows := filter.Apply(d.Rows, s.parse(r).Criteria)
	render.JSON(w, r, columnsResponse{
		Header:  d.Header,
		Schema:  d.Schema,
		Metrics: aggregate.ColumnMetrics(d.Header, rows),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.refresher.Trigger(s.baseCtx) {
		s.fail(w, r, http.StatusConflict, common.ErrRefreshInFlight)
		return
	}
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "accepted"})
}

// report builds the export view-model for the filtered rows and the
// requested visible columns.
func (s *Server) report(w http.ResponseWriter, r *http.Request) (*service.Report, bool) {
	d, ok := s.dataset(w, r)
	if !ok {
		return nil, false
	}
	req := s.parse(r)
	st := req.tableState(d.Header, s.cfg.PageSize, s.logger)
	return d.Report(req.Criteria, st.VisibleColumns, s.cfg.ReportTitle, s.now()), true
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", contentTypeCSV)
	w.Header().Set("Content-Disposition", attachment(rep.GeneratedAt, "csv"))

	out := &export.CSVWriter{Out: w, Delimiter: s.cfg.ExportDelimiter, BOM: s.cfg.ExportBOM}
	if err := out.Write(r.Context(), rep); err != nil {
		s.logger.Warn("CSV export failed", "error", err)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.report(w, r)
	if !ok {
		return
	}
	f, err := export.BuildWorkbook(r.Context(), rep, nil)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentTypeXLSX)
	w.Header().Set("Content-Disposition", attachment(rep.GeneratedAt, "xlsx"))
	if _, err := f.WriteTo(w); err != nil {
		s.logger.Warn("Excel export failed", "error", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	var initial any
	if d, err := s.refresher.Current(); err == nil {
		initial = newSummaryEvent(d, model.FilterCriteria{})
	}
	s.hub.ServeWS(s.baseCtx, w, r, initial)
}

func attachment(at time.Time, ext string) string {
	return fmt.Sprintf(`attachment; filename="dashboard-%s.%s"`, at.Format("2006-01-02"), ext)
}
