package filter

import (
	"testing"
	"time"

	"github.com/Veraticus/trackboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Criteria(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	day := func(s string) *time.Time {
		d, err := time.Parse(DateLayout, s)
		require.NoError(t, err)
		return &d
	}
	onTrack := model.StatusOnTrack

	tests := []struct {
		name    string
		params  Params
		want    model.FilterCriteria
		wantErr string
	}{
		{
			name: "empty",
			want: model.FilterCriteria{},
		},
		{
			name: "all fields",
			params: Params{
				From:      "2024-01-01",
				To:        "2024-01-31",
				Status:    "on track",
				Search:    "  jane ",
				Locations: []string{"Alpha", " ", "Beta"},
				Persons:   []string{"Jane"},
			},
			want: model.FilterCriteria{
				DateFrom:  day("2024-01-01"),
				DateTo:    day("2024-01-31"),
				Status:    &onTrack,
				Search:    "jane",
				Locations: []string{"Alpha", "Beta"},
				Persons:   []string{"Jane"},
			},
		},
		{
			name:    "invalid fields are dropped",
			params:  Params{From: "01/02/2024", Status: "sideways", Search: "x"},
			want:    model.FilterCriteria{Search: "x"},
			wantErr: "from: invalid date",
		},
		{
			name:   "preset replaces the rest",
			params: Params{Preset: "offtrack", Search: "ignored"},
			want: func() model.FilterCriteria {
				s := model.StatusOffTrack
				return model.FilterCriteria{Status: &s}
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.params.Criteria(now)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParams_UnknownPreset(t *testing.T) {
	_, err := Params{Preset: "decade"}.Criteria(time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown preset")
}
