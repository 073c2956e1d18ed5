package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/service"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/sheets/v4"
)

// Reader fetches the audit sheet as a raw matrix.
type Reader struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewReader creates a reader using the configured authentication method.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := newService(ctx, config, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewReaderWithService(srv, config, logger), nil
}

// NewReaderWithService wraps an existing Sheets client.
func NewReaderWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Reader {
	return &Reader{
		service: srv,
		config:  config,
		logger:  logger,
	}
}

// Describe names the sheet and range.
func (r *Reader) Describe() string {
	return fmt.Sprintf("sheets:%s!%s", r.config.SpreadsheetID, r.config.Range)
}

// Fetch reads the configured range. Transient failures are retried.
// Cancellation returns ctx's error; every other failure is a *common.FetchError.
func (r *Reader) Fetch(ctx context.Context) (model.Matrix, error) {
	retryOpts := service.RetryOptions{
		MaxAttempts:  r.config.RetryAttempts,
		InitialDelay: r.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var m model.Matrix
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		m, fetchErr = r.fetchOnce(ctx)
		return fetchErr
	}, retryOpts)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("fetched sheet", "rows", len(m), "range", r.config.Range)
	return m, nil
}

func (r *Reader) fetchOnce(ctx context.Context) (model.Matrix, error) {
	resp, err := r.service.Spreadsheets.Values.Get(r.config.SpreadsheetID, r.config.Range).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, r.classify(err)
	}
	if len(resp.Values) == 0 {
		return nil, common.NewFetchError(r.Describe(), common.FetchEmpty, common.ErrEmptyResult)
	}
	return toMatrix(resp.Values), nil
}

// classify maps a client error onto a fetch failure kind. Rate limiting and
// server errors count as network failures so they are retried.
func (r *Reader) classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests {
			return common.NewFetchError(r.Describe(), common.FetchNetwork, fmt.Errorf("%w: %w", common.ErrRateLimit, err))
		}
		if apiErr.Code >= http.StatusInternalServerError {
			return common.NewFetchError(r.Describe(), common.FetchNetwork, err)
		}
		return common.NewFetchError(r.Describe(), common.FetchAPI, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return common.NewFetchError(r.Describe(), common.FetchNetwork, err)
}

// toMatrix converts API values to text cells. Trailing empty cells are
// omitted by the API, so rows come back ragged.
func toMatrix(values [][]any) model.Matrix {
	m := make(model.Matrix, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		m[i] = cells
	}
	return m
}
