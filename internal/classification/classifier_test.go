package classification

import (
	"testing"
	"time"

	"github.com/Veraticus/trackboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() model.ColumnSchema {
	return model.ColumnSchema{Location: 0, Person: 1, Status: 2, Rating: 3, Date: 4, HeaderRowIndex: 0}
}

func TestClassifier_Classify(t *testing.T) {
	m := model.Matrix{
		{"Office", "Name", "Status", "Rating", "Date"},
		{" Alpha ", " Jane ", "On Track", "8", "1/15/2024"},
		{"OFFICE NAME", "Name", "Status", "Rating", "Date"},
		{"office name", "x", "", "", ""},
		{"WAM Week 3", "", "", "", ""},
		{"Weekly Accountability Meeting", "", "", "", ""},
		{"", "Ghost", "On Track", "9", "2024-01-01"},
		{"   ", "Ghost", "On Track", "9", "2024-01-01"},
		{"Beta", "John", "Off-Track", "11", "not a date"},
		{"Gamma"},
	}

	rows := NewClassifier(DefaultExclusionRules()).Classify(m, testSchema())
	require.Len(t, rows, 3)

	assert.Equal(t, "Alpha", rows[0].Location)
	assert.Equal(t, "Jane", rows[0].Person)
	assert.Equal(t, model.StatusOnTrack, rows[0].Status)
	require.NotNil(t, rows[0].Rating)
	assert.InDelta(t, 8.0, *rows[0].Rating, 0.0001)
	require.NotNil(t, rows[0].ParsedDate)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *rows[0].ParsedDate)
	assert.Equal(t, " Alpha ", rows[0].Cells[0], "raw cells are kept untouched")

	assert.Equal(t, "Beta", rows[1].Location)
	assert.Equal(t, model.StatusOffTrack, rows[1].Status)
	assert.Nil(t, rows[1].Rating)
	assert.Nil(t, rows[1].ParsedDate)

	assert.Equal(t, "Gamma", rows[2].Location)
	assert.Equal(t, "", rows[2].Person)
	assert.Equal(t, model.StatusOther, rows[2].Status)
	assert.Nil(t, rows[2].Rating)
	assert.Nil(t, rows[2].ParsedDate)
}

func TestClassifier_ClassifyHeaderOnly(t *testing.T) {
	c := NewClassifier(DefaultExclusionRules())

	rows := c.Classify(model.Matrix{{"Office"}, {"Alpha"}}, model.ColumnSchema{HeaderRowIndex: 1})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestClassifier_IsExcluded(t *testing.T) {
	c := NewClassifier(DefaultExclusionRules())

	tests := []struct {
		location string
		want     bool
	}{
		{"OFFICE NAME", true},
		{"Office Name", true},
		{"  office name  ", true},
		{"OFFICE NAMES", false},
		{"", true},
		{"  ", true},
		{"WAM", true},
		{"Swamp Office", true},
		{"weekly accountability - march", true},
		{"Alpha", false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsExcluded(tt.location))
		})
	}
}

func TestClassifier_CustomRules(t *testing.T) {
	c := NewClassifier(ExclusionRules{
		HeaderLabels: []string{" branch "},
		TitleMarkers: []string{"summary", ""},
	})

	assert.True(t, c.IsExcluded("BRANCH"))
	assert.True(t, c.IsExcluded("Quarterly Summary"))
	assert.False(t, c.IsExcluded("OFFICE NAME"))
	assert.False(t, c.IsExcluded("WAM"))
}
