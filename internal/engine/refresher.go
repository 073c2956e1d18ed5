package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/service"
	"github.com/google/uuid"
)

// DefaultRefreshInterval is the auto-refresh period.
const DefaultRefreshInterval = 2 * time.Minute

// Observer receives refresh lifecycle events.
type Observer interface {
	RefreshStarted(runID string)
	RefreshCompleted(runID string, d *Dataset, elapsed time.Duration)
	RefreshFailed(runID string, err error, elapsed time.Duration)
	RefreshDropped()
}

// Status describes the refresher for health reporting.
type Status struct {
	LastSuccess time.Time `json:"last_success,omitempty"`
	LastAttempt time.Time `json:"last_attempt,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
	Rows        int       `json:"rows"`
	InFlight    bool      `json:"in_flight"`
	Loaded      bool      `json:"loaded"`
}

// Refresher owns the current Dataset and replaces it on every successful refresh.
// At most one refresh runs at a time; triggers arriving meanwhile are dropped.
type Refresher struct {
	source    service.MatrixSource
	pipeline  *Pipeline
	observer  Observer
	logger    *slog.Logger
	now       func() time.Time
	current   atomic.Pointer[Dataset]
	listeners []func(*Dataset)
	lastError string
	lastTry   time.Time
	mu        sync.Mutex
	inFlight  atomic.Bool
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithObserver reports refresh events to o.
func WithObserver(o Observer) RefresherOption {
	return func(r *Refresher) {
		r.observer = o
	}
}

// WithLogger sets the logger used for refresh events.
func WithLogger(l *slog.Logger) RefresherOption {
	return func(r *Refresher) {
		r.logger = l
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) RefresherOption {
	return func(r *Refresher) {
		r.now = now
	}
}

// NewRefresher creates a refresher with no dataset loaded.
func NewRefresher(source service.MatrixSource, pipeline *Pipeline, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		source:   source,
		pipeline: pipeline,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "refresher", "source", source.Describe())
	return r
}

// OnRefresh registers fn to be called with every new dataset.
func (r *Refresher) OnRefresh(fn func(*Dataset)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Current returns the latest dataset, or common.ErrNoData before the first success.
func (r *Refresher) Current() (*Dataset, error) {
	d := r.current.Load()
	if d == nil {
		return nil, common.ErrNoData
	}
	return d, nil
}

// Refresh fetches the matrix and rebuilds the dataset. It returns
// common.ErrRefreshInFlight without doing anything when another refresh is running.
// On failure the previous dataset stays current.
func (r *Refresher) Refresh(ctx context.Context) (*Dataset, error) {
	if !r.acquire() {
		return nil, common.ErrRefreshInFlight
	}
	defer r.inFlight.Store(false)
	return r.refresh(ctx)
}

// Trigger starts a refresh in the background and reports whether it was
// accepted. It returns false when a refresh is already running.
func (r *Refresher) Trigger(ctx context.Context) bool {
	if !r.acquire() {
		return false
	}
	go func() {
		defer r.inFlight.Store(false)
		_, _ = r.refresh(ctx)
	}()
	return true
}

func (r *Refresher) acquire() bool {
	if r.inFlight.CompareAndSwap(false, true) {
		return true
	}
	r.logger.Debug("Refresh trigger dropped")
	if r.observer != nil {
		r.observer.RefreshDropped()
	}
	return false
}

func (r *Refresher) refresh(ctx context.Context) (*Dataset, error) {
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)
	start := r.now()
	if r.observer != nil {
		r.observer.RefreshStarted(runID)
	}

	d, err := r.build(ctx, start)
	elapsed := r.now().Sub(start)

	r.mu.Lock()
	r.lastTry = start
	if err != nil {
		r.lastError = err.Error()
		r.mu.Unlock()

		logger.Warn("Refresh failed, keeping previous data", "error", err, "elapsed", elapsed)
		if r.observer != nil {
			r.observer.RefreshFailed(runID, err, elapsed)
		}
		return nil, err
	}
	r.lastError = ""
	d.RunID = runID
	r.current.Store(d)
	listeners := append([]func(*Dataset){}, r.listeners...)
	r.mu.Unlock()

	logger.Info("Refresh completed", "rows", len(d.Rows), "elapsed", elapsed)
	if r.observer != nil {
		r.observer.RefreshCompleted(runID, d, elapsed)
	}
	for _, fn := range listeners {
		fn(d)
	}
	return d, nil
}

func (r *Refresher) build(ctx context.Context, fetchedAt time.Time) (*Dataset, error) {
	m, err := r.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", r.source.Describe(), err)
	}
	d, err := r.pipeline.Build(m, fetchedAt)
	if err != nil {
		return nil, err
	}
	d.Source = r.source.Describe()
	return d, nil
}

// Run refreshes immediately and then on every tick of interval until ctx is done.
// Each tick triggers independently of how the previous refresh ended; a tick
// that lands on a running refresh is dropped.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: refresh interval must be positive, got %s", common.ErrInvalidConfig, interval)
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	trigger := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Refresh(ctx)
		}()
	}

	r.logger.Info("Starting auto refresh", "interval", interval)
	trigger()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Stopping auto refresh")
			return nil
		case <-ticker.C:
			trigger()
		}
	}
}

// Status reports the refresher state.
func (r *Refresher) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := Status{
		LastAttempt: r.lastTry,
		LastError:   r.lastError,
		InFlight:    r.inFlight.Load(),
	}
	if d := r.current.Load(); d != nil {
		st.Loaded = true
		st.LastSuccess = d.FetchedAt
		st.Rows = len(d.Rows)
	}
	return st
}
