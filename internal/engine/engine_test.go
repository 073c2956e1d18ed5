package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatrix() model.Matrix {
	return model.Matrix{
		{"WEEKLY ACCOUNTABILITY", "", "", "", "", "", "", "", "", ""},
		{"OFFICE", "Personnel", "Rock 1", "Rock 2", "Rock Review", "Notes", "Issues", "Rating", "Todo", "Audit Date"},
		{"Alpha", "Jane", "", "", "On Track", "", "", "8", "", "1/5/2024"},
		{"Alpha", "John", "", "", "Off Track", "", "", "6", "", "1/12/2024"},
		{"OFFICE NAME", "Personnel", "", "", "Rock Review", "", "", "", "", ""},
		{"Beta", "Ann", "", "", "On Track", "", "", "", "", "2/2/2024"},
		{"Gamma", "Lee", "", "", "", "", "", "9", "", "", "extra"},
	}
}

// fakeSource returns queued results in order, repeating the last one.
type fakeSource struct {
	gate    chan struct{}
	results []fakeResult
	calls   atomic.Int32
	mu      sync.Mutex
}

type fakeResult struct {
	err error
	m   model.Matrix
}

func (f *fakeSource) Fetch(ctx context.Context) (model.Matrix, error) {
	n := int(f.calls.Add(1)) - 1
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	res := f.results[min(n, len(f.results)-1)]
	return res.m, res.err
}

func (f *fakeSource) Describe() string {
	return "fake"
}

type recordingObserver struct {
	started, completed, failed, dropped atomic.Int32
}

func (o *recordingObserver) RefreshStarted(string) { o.started.Add(1) }
func (o *recordingObserver) RefreshCompleted(string, *Dataset, time.Duration) {
	o.completed.Add(1)
}
func (o *recordingObserver) RefreshFailed(string, error, time.Duration) { o.failed.Add(1) }
func (o *recordingObserver) RefreshDropped()                            { o.dropped.Add(1) }

func TestPipeline_Build(t *testing.T) {
	fetched := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	d, err := DefaultPipeline().Build(sampleMatrix(), fetched)
	require.NoError(t, err)

	assert.Equal(t, 1, d.Schema.HeaderRowIndex)
	assert.Equal(t, 1, d.Schema.Person)
	assert.Equal(t, 9, d.Schema.Date)
	assert.Equal(t, fetched, d.FetchedAt)
	require.Len(t, d.Rows, 4)
	assert.Len(t, d.Header, 11)
	assert.Equal(t, "OFFICE", d.Header[0])
	assert.Equal(t, "K", d.Header[10])
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, d.Locations())
	assert.Equal(t, []string{"Jane", "John", "Ann", "Lee"}, d.Persons())
}

func TestPipeline_BuildSchemaError(t *testing.T) {
	_, err := DefaultPipeline().Build(model.Matrix{{"only"}}, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrSchema))
}

func TestDataset_View(t *testing.T) {
	d, err := DefaultPipeline().Build(sampleMatrix(), time.Now())
	require.NoError(t, err)

	status := model.StatusOnTrack
	st := d.DefaultViewState()
	st.VisibleColumns = []int{0, 4}

	v := d.View(model.FilterCriteria{Status: &status}, st)
	assert.Equal(t, 2, v.Snapshot.TotalRecords)
	assert.Equal(t, 100.0, v.Snapshot.OnTrackRate)
	assert.Len(t, v.Filtered, 2)
	assert.Equal(t, []string{"OFFICE", "Rock Review"}, v.Page.Header)
	assert.Equal(t, [][]string{{"Alpha", "On Track"}, {"Beta", "On Track"}}, v.Page.Rows)
	assert.Equal(t, []string{"Status: On-Track"}, v.Tags)

	all := d.Snapshot(model.FilterCriteria{})
	assert.Equal(t, 4, all.TotalRecords)
	assert.Equal(t, 50.0, all.OnTrackRate)
	assert.Equal(t, 7.7, all.AverageRating)
	require.Len(t, all.MonthlyTrend, 2)
	assert.Equal(t, "2024-01", all.MonthlyTrend[0].MonthKey)
}

func TestDataset_Report(t *testing.T) {
	d, err := DefaultPipeline().Build(sampleMatrix(), time.Now())
	require.NoError(t, err)

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	st := d.DefaultViewState()
	st.SetPageSize(1)

	r := d.Report(model.FilterCriteria{Locations: []string{"Alpha"}}, []int{0, 1}, "Weekly", now)
	assert.Equal(t, "Weekly", r.Title)
	assert.Equal(t, now, r.GeneratedAt)
	assert.Equal(t, []string{"OFFICE", "Personnel"}, r.Header)
	assert.Equal(t, [][]string{{"Alpha", "Jane"}, {"Alpha", "John"}}, r.Rows)
	assert.Equal(t, 2, r.Snapshot.TotalRecords)
}

func TestColumnLetter(t *testing.T) {
	assert.Equal(t, "A", ColumnLetter(0))
	assert.Equal(t, "J", ColumnLetter(9))
	assert.Equal(t, "Z", ColumnLetter(25))
	assert.Equal(t, "AA", ColumnLetter(26))
	assert.Equal(t, "AZ", ColumnLetter(51))
	assert.Equal(t, "BA", ColumnLetter(52))
	assert.Equal(t, "", ColumnLetter(-1))
}

func TestRefresher_Refresh(t *testing.T) {
	fetchErr := common.NewFetchError("fake", common.FetchNetwork, errors.New("connection reset"))
	src := &fakeSource{results: []fakeResult{
		{m: sampleMatrix()},
		{err: fetchErr},
		{m: model.Matrix{{"one row"}}},
	}}
	obs := &recordingObserver{}
	r := NewRefresher(src, DefaultPipeline(), WithObserver(obs), WithLogger(common.DiscardLogger()))

	_, err := r.Current()
	assert.ErrorIs(t, err, common.ErrNoData)

	var notified []*Dataset
	r.OnRefresh(func(d *Dataset) { notified = append(notified, d) })

	first, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, first.RunID)
	assert.Equal(t, "fake", first.Source)

	_, err = r.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFetch)

	_, err = r.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSchema)

	current, err := r.Current()
	require.NoError(t, err)
	assert.Same(t, first, current, "failures keep the previous dataset")
	assert.Equal(t, []*Dataset{first}, notified)

	st := r.Status()
	assert.True(t, st.Loaded)
	assert.Equal(t, 4, st.Rows)
	assert.Contains(t, st.LastError, "schema")

	assert.Equal(t, int32(3), obs.started.Load())
	assert.Equal(t, int32(1), obs.completed.Load())
	assert.Equal(t, int32(2), obs.failed.Load())
}

func TestRefresher_DropsConcurrentTrigger(t *testing.T) {
	src := &fakeSource{gate: make(chan struct{}), results: []fakeResult{{m: sampleMatrix()}}}
	obs := &recordingObserver{}
	r := NewRefresher(src, DefaultPipeline(), WithObserver(obs), WithLogger(common.DiscardLogger()))

	done := make(chan error, 1)
	go func() {
		_, err := r.Refresh(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.True(t, r.Status().InFlight)

	_, err := r.Refresh(context.Background())
	assert.ErrorIs(t, err, common.ErrRefreshInFlight)
	assert.Equal(t, int32(1), obs.dropped.Load())

	close(src.gate)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), src.calls.Load(), "dropped trigger never fetches")
	assert.False(t, r.Status().InFlight)
}

func TestRefresher_RunKeepsTickingAfterFailures(t *testing.T) {
	src := &fakeSource{results: []fakeResult{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
		{m: sampleMatrix()},
	}}
	r := NewRefresher(src, DefaultPipeline(), WithLogger(common.DiscardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx, 5*time.Millisecond) }()

	require.Eventually(t, func() bool {
		_, err := r.Current()
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-errCh)
	assert.GreaterOrEqual(t, src.calls.Load(), int32(3))
}

func TestRefresher_RunRejectsBadInterval(t *testing.T) {
	r := NewRefresher(&fakeSource{results: []fakeResult{{m: sampleMatrix()}}}, DefaultPipeline())
	err := r.Run(context.Background(), 0)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestRefresher_Trigger(t *testing.T) {
	src := &fakeSource{gate: make(chan struct{}), results: []fakeResult{{m: sampleMatrix()}}}
	obs := &recordingObserver{}
	r := NewRefresher(src, DefaultPipeline(), WithObserver(obs), WithLogger(common.DiscardLogger()))

	var notified atomic.Int32
	r.OnRefresh(func(*Dataset) { notified.Add(1) })

	assert.True(t, r.Trigger(context.Background()))
	assert.False(t, r.Trigger(context.Background()), "second trigger is dropped while the first runs")
	assert.Equal(t, int32(1), obs.dropped.Load())

	close(src.gate)
	require.Eventually(t, func() bool { return notified.Load() == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return !r.Status().InFlight }, time.Second, time.Millisecond)
	assert.True(t, r.Trigger(context.Background()), "accepted again once idle")
}
