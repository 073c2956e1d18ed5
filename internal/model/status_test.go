package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		text string
		want StatusCategory
	}{
		{"On Track", StatusOnTrack},
		{"on-track", StatusOnTrack},
		{"  ON TRACK  ", StatusOnTrack},
		{"Off-Track", StatusOffTrack},
		{"off track", StatusOffTrack},
		{"On/Off Track", StatusOffTrack},
		{"", StatusOther},
		{"Pending", StatusOther},
		{"On hold", StatusOther},
		{"Track", StatusOther},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.text))
		})
	}
}

func TestParseStatusCategory(t *testing.T) {
	for input, want := range map[string]StatusCategory{
		"on-track":  StatusOnTrack,
		"On Track":  StatusOnTrack,
		"off_track": StatusOffTrack,
		"Off-Track": StatusOffTrack,
		"OTHER":     StatusOther,
	} {
		got, err := ParseStatusCategory(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseStatusCategory("sideways")
	assert.Error(t, err)
}

func TestStatusCategory_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]StatusCategory{"s": StatusOffTrack})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"off-track"}`, string(data))
	assert.Equal(t, "Off-Track", StatusOffTrack.String())
}
