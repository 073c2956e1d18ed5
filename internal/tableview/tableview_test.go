package tableview

import (
	"fmt"
	"testing"

	"github.com/Veraticus/trackboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedRows(n int) []model.ClassifiedRow {
	rows := make([]model.ClassifiedRow, n)
	for i := range rows {
		rows[i] = model.ClassifiedRow{Cells: []string{fmt.Sprintf("loc-%02d", i), fmt.Sprint(i)}}
	}
	return rows
}

func TestBuild_Pagination(t *testing.T) {
	header := []string{"Office", "Seq"}
	rows := numberedRows(57)

	tests := []struct {
		name       string
		pageSize   int
		pageIndex  int
		wantPage   int
		wantPages  int
		wantRows   int
		wantStart  int
		wantEnd    int
		wantFirstC string
	}{
		{name: "first page", pageSize: 25, pageIndex: 1, wantPage: 1, wantPages: 3, wantRows: 25, wantStart: 1, wantEnd: 25, wantFirstC: "loc-00"},
		{name: "last partial page", pageSize: 25, pageIndex: 3, wantPage: 3, wantPages: 3, wantRows: 7, wantStart: 51, wantEnd: 57, wantFirstC: "loc-50"},
		{name: "page past the end clamps", pageSize: 25, pageIndex: 9, wantPage: 3, wantPages: 3, wantRows: 7, wantStart: 51, wantEnd: 57, wantFirstC: "loc-50"},
		{name: "page zero clamps", pageSize: 25, pageIndex: 0, wantPage: 1, wantPages: 3, wantRows: 25, wantStart: 1, wantEnd: 25, wantFirstC: "loc-00"},
		{name: "all", pageSize: model.PageSizeAll, pageIndex: 4, wantPage: 1, wantPages: 1, wantRows: 57, wantStart: 1, wantEnd: 57, wantFirstC: "loc-00"},
		{name: "exact multiple", pageSize: 19, pageIndex: 3, wantPage: 3, wantPages: 3, wantRows: 19, wantStart: 39, wantEnd: 57, wantFirstC: "loc-38"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := model.NewTableViewState(len(header))
			st.PageSize = tt.pageSize
			st.PageIndex = tt.pageIndex

			p := Build(header, rows, st)
			assert.Equal(t, 57, p.TotalRows)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantPage, p.PageIndex)
			require.Len(t, p.Rows, tt.wantRows)
			assert.Equal(t, tt.wantStart, p.ShowingStart)
			assert.Equal(t, tt.wantEnd, p.ShowingEnd)
			assert.Equal(t, tt.wantFirstC, p.Rows[0][0])
		})
	}
}

func TestBuild_Empty(t *testing.T) {
	p := Build([]string{"Office"}, nil, model.NewTableViewState(1))

	assert.Equal(t, 0, p.TotalRows)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 1, p.PageIndex)
	assert.Empty(t, p.Rows)
	assert.Zero(t, p.ShowingStart)
	assert.Zero(t, p.ShowingEnd)
}

func TestBuild_Projection(t *testing.T) {
	header := []string{"Office", "Person", "Status"}
	rows := []model.ClassifiedRow{
		{Cells: []string{"Alpha", "Jane", "On Track"}},
		{Cells: []string{"Beta"}},
	}

	st := model.NewTableViewState(len(header))
	st.VisibleColumns = []int{2, 0, 2}

	p := Build(header, rows, st)
	assert.Equal(t, []string{"Office", "Status"}, p.Header)
	assert.Equal(t, []int{0, 2}, p.Columns)
	assert.Equal(t, [][]string{{"Alpha", "On Track"}, {"Beta", ""}}, p.Rows)

	st.VisibleColumns = []int{}
	p = Build(header, rows, st)
	assert.Empty(t, p.Header)
	assert.Equal(t, [][]string{{}, {}}, p.Rows)

	st.VisibleColumns = nil
	p = Build(header, rows, st)
	assert.Equal(t, header, p.Header)
}

func TestSort(t *testing.T) {
	rows := []model.ClassifiedRow{
		{Location: "r0", Cells: []string{"beta", "10"}},
		{Location: "r1", Cells: []string{"Alpha", "9"}},
		{Location: "r2", Cells: []string{"beta", "9.5"}},
		{Location: "r3", Cells: []string{"alpha", ""}},
		{Location: "r4", Cells: []string{"Gamma", "100"}},
	}
	order := func(rows []model.ClassifiedRow) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.Location
		}
		return out
	}

	t.Run("text ascending is stable and orders lowercase first", func(t *testing.T) {
		got := Sort(rows, 0, model.SortAscending)
		assert.Equal(t, []string{"r3", "r1", "r0", "r2", "r4"}, order(got))
	})

	t.Run("text descending keeps ties in input order", func(t *testing.T) {
		got := Sort(rows, 0, model.SortDescending)
		assert.Equal(t, []string{"r4", "r0", "r2", "r1", "r3"}, order(got))
	})

	t.Run("numbers compare numerically", func(t *testing.T) {
		numeric := []model.ClassifiedRow{rows[0], rows[1], rows[2], rows[4]}
		got := Sort(numeric, 1, model.SortAscending)
		assert.Equal(t, []string{"r1", "r2", "r0", "r4"}, order(got))
	})

	t.Run("non-finite cells sort as text", func(t *testing.T) {
		mixed := []model.ClassifiedRow{
			{Location: "five", Cells: []string{"", "5"}},
			{Location: "nan", Cells: []string{"", "NaN"}},
			{Location: "one", Cells: []string{"", "1"}},
			{Location: "inf", Cells: []string{"", "Inf"}},
			{Location: "twelve", Cells: []string{"", "12"}},
		}
		got := Sort(mixed, 1, model.SortAscending)
		assert.Equal(t, []string{"one", "five", "twelve", "inf", "nan"}, order(got))
	})

	t.Run("no sort column keeps order", func(t *testing.T) {
		got := Sort(rows, model.NoSort, model.SortAscending)
		assert.Equal(t, []string{"r0", "r1", "r2", "r3", "r4"}, order(got))
	})

	t.Run("input is not modified", func(t *testing.T) {
		_ = Sort(rows, 0, model.SortDescending)
		assert.Equal(t, []string{"r0", "r1", "r2", "r3", "r4"}, order(rows))
	})
}

func TestBuild_SortThenPage(t *testing.T) {
	header := []string{"Office", "Seq"}
	rows := numberedRows(30)

	st := model.NewTableViewState(len(header))
	st.ToggleSort(1)
	st.ToggleSort(1)
	st.SetPageSize(10)

	p := Build(header, rows, st)
	require.Len(t, p.Rows, 10)
	assert.Equal(t, "29", p.Rows[0][1])
	assert.Equal(t, "20", p.Rows[9][1])
}
