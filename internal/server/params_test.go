package server

import (
	"net/url"
	"testing"
	"time"

	"github.com/Veraticus/trackboard/internal/common"
	"github.com/Veraticus/trackboard/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadQuery_NormalizesStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "on track", want: "on-track"},
		{raw: "ON_TRACK", want: "on-track"},
		{raw: "offtrack", want: "off-track"},
		{raw: " Other ", want: "other"},
		{raw: "", want: ""},
	}
	for _, tt := range tests {
		q := readQuery(url.Values{"status": {tt.raw}})
		assert.Equal(t, tt.want, q.Status, tt.raw)
	}
}

func TestParseQuery(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	v := validator.New()
	logger := common.DiscardLogger()

	t.Run("valid query", func(t *testing.T) {
		values, err := url.ParseQuery("from=2024-01-01&to=2024-01-31&status=off-track&q=alpha" +
			"&location=A&location=B&person=Jane&sort=Rating&dir=desc&page=2&pageSize=all&limit=3&columns=A,Rating")
		require.NoError(t, err)

		req := parseQuery(v, values, now, logger)
		require.NotNil(t, req.Criteria.DateFrom)
		require.NotNil(t, req.Criteria.DateTo)
		assert.Equal(t, "2024-01-01", req.Criteria.DateFrom.Format("2006-01-02"))
		require.NotNil(t, req.Criteria.Status)
		assert.Equal(t, model.StatusOffTrack, *req.Criteria.Status)
		assert.Equal(t, "alpha", req.Criteria.Search)
		assert.Equal(t, []string{"A", "B"}, req.Criteria.Locations)
		assert.Equal(t, []string{"Jane"}, req.Criteria.Persons)
		assert.Equal(t, 3, req.Limit)
		assert.Equal(t, "Rating", req.Table.Sort)
		assert.True(t, req.Table.Descending)
		assert.Equal(t, 2, req.Table.Page)
		assert.Equal(t, "all", req.Table.PageSize)
		assert.Equal(t, []string{"A", "Rating"}, req.Table.Columns)
	})

	t.Run("invalid fields are dropped individually", func(t *testing.T) {
		values := url.Values{
			"from":     {"01/02/2024"},
			"to":       {"2024-02-01"},
			"status":   {"late"},
			"dir":      {"up"},
			"page":     {"two"},
			"pageSize": {"lots"},
			"limit":    {"-1"},
		}

		req := parseQuery(v, values, now, logger)
		assert.Nil(t, req.Criteria.DateFrom)
		require.NotNil(t, req.Criteria.DateTo)
		assert.Nil(t, req.Criteria.Status)
		assert.False(t, req.Table.Descending)
		assert.Zero(t, req.Table.Page)
		assert.Empty(t, req.Table.PageSize)
		assert.Zero(t, req.Limit)
	})

	t.Run("preset replaces other filters", func(t *testing.T) {
		values := url.Values{"preset": {"offtrack"}, "q": {"ignored"}}

		req := parseQuery(v, values, now, logger)
		require.NotNil(t, req.Criteria.Status)
		assert.Equal(t, model.StatusOffTrack, *req.Criteria.Status)
		assert.Empty(t, req.Criteria.Search)
	})

	t.Run("unknown preset is dropped", func(t *testing.T) {
		values := url.Values{"preset": {"decade"}, "q": {"kept"}}

		req := parseQuery(v, values, now, logger)
		assert.Equal(t, "kept", req.Criteria.Search)
	})
}

func TestRequest_TableState(t *testing.T) {
	header := []string{"Office", "Personnel", "Rating"}
	logger := common.DiscardLogger()

	req := request{}
	req.Table.Sort = "rating"
	req.Table.Page = 3
	req.Table.Columns = []string{"C", "nope", "0"}

	st := req.tableState(header, 10, logger)
	assert.Equal(t, 2, st.SortColumn)
	assert.Equal(t, model.SortAscending, st.SortDirection)
	assert.Equal(t, 10, st.PageSize)
	assert.Equal(t, 3, st.PageIndex)
	assert.Equal(t, []int{0, 2}, st.VisibleColumns)
}
