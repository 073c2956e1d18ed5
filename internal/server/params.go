package server

import (
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/trackboard/internal/filter"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/tableview"
	"github.com/go-playground/validator/v10"
)

// queryParams is the raw query string of the dashboard endpoints.
type queryParams struct {
	From      string   `validate:"omitempty,datetime=2006-01-02"`
	To        string   `validate:"omitempty,datetime=2006-01-02"`
	Status    string   `validate:"omitempty,oneof=on-track off-track other"`
	Preset    string   `validate:"omitempty,oneof=today week month year offtrack"`
	Search    string   `validate:"max=200"`
	Sort      string   `validate:"max=64"`
	Dir       string   `validate:"omitempty,oneof=asc desc"`
	Page      string   `validate:"omitempty,number"`
	PageSize  string   `validate:"omitempty,number|eq=all"`
	Limit     string   `validate:"omitempty,number"`
	Columns   []string `validate:"max=256,dive,max=64"`
	Locations []string `validate:"max=100,dive,max=200"`
	Persons   []string `validate:"max=100,dive,max=200"`
}

func readQuery(v url.Values) queryParams {
	status := strings.ToLower(strings.TrimSpace(v.Get("status")))
	status = strings.NewReplacer(" ", "-", "_", "-").Replace(status)
	switch status {
	case "ontrack":
		status = "on-track"
	case "offtrack":
		status = "off-track"
	}

	var columns []string
	if raw := v.Get("columns"); raw != "" {
		columns = strings.Split(raw, ",")
	}

	return queryParams{
		From:      v.Get("from"),
		To:        v.Get("to"),
		Status:    status,
		Preset:    strings.ToLower(v.Get("preset")),
		Search:    v.Get("q"),
		Sort:      v.Get("sort"),
		Dir:       strings.ToLower(v.Get("dir")),
		Page:      v.Get("page"),
		PageSize:  strings.ToLower(v.Get("pageSize")),
		Limit:     v.Get("limit"),
		Columns:   columns,
		Locations: v["location"],
		Persons:   v["person"],
	}
}

// drop clears a field that failed validation, by struct field name.
func (q *queryParams) drop(field string) {
	field, _, _ = strings.Cut(field, "[")
	switch field {
	case "From":
		q.From = ""
	case "To":
		q.To = ""
	case "Status":
		q.Status = ""
	case "Preset":
		q.Preset = ""
	case "Search":
		q.Search = ""
	case "Sort":
		q.Sort = ""
	case "Dir":
		q.Dir = ""
	case "Page":
		q.Page = ""
	case "PageSize":
		q.PageSize = ""
	case "Limit":
		q.Limit = ""
	case "Columns":
		q.Columns = nil
	case "Locations":
		q.Locations = nil
	case "Persons":
		q.Persons = nil
	}
}

// request is a validated query resolved against a dataset.
type request struct {
	Criteria model.FilterCriteria
	Table    tableview.Params
	Limit    int
}

// parseQuery validates the query and resolves it. Invalid parameters are
// dropped and logged; they never fail the request.
func parseQuery(v *validator.Validate, values url.Values, now time.Time, logger *slog.Logger) request {
	q := readQuery(values)
	if err := v.Struct(&q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				logger.Debug("Dropping invalid query parameter", "field", fe.StructField(), "tag", fe.Tag(), "value", fe.Value())
				q.drop(fe.StructField())
			}
		}
	}

	criteria, err := filter.Params{
		From:      q.From,
		To:        q.To,
		Status:    q.Status,
		Preset:    q.Preset,
		Search:    q.Search,
		Locations: q.Locations,
		Persons:   q.Persons,
	}.Criteria(now)
	if err != nil {
		logger.Debug("Dropping invalid filter", "error", err)
	}

	page, _ := strconv.Atoi(q.Page)
	limit, _ := strconv.Atoi(q.Limit)
	return request{
		Criteria: criteria,
		Limit:    limit,
		Table: tableview.Params{
			Sort:       q.Sort,
			Descending: q.Dir == "desc",
			Page:       page,
			PageSize:   q.PageSize,
			Columns:    q.Columns,
		},
	}
}

// tableState applies the table parameters on top of the dataset's default state.
func (req request) tableState(header []string, pageSize int, logger *slog.Logger) model.TableViewState {
	st := model.NewTableViewState(len(header))
	st.SetPageSize(pageSize)
	if err := req.Table.Apply(header, &st); err != nil {
		logger.Debug("Dropping invalid table parameter", "error", err)
	}
	return st
}
