package model

// LocationBreakdown holds per-status counts for one location.
type LocationBreakdown struct {
	Location string `json:"location"`
	OnTrack  int    `json:"on_track"`
	OffTrack int    `json:"off_track"`
	Other    int    `json:"other"`
	Total    int    `json:"total"`
}

// MonthlyBucket is one point of the monthly trend series.
type MonthlyBucket struct {
	MonthKey       string  `json:"month_key"`
	Label          string  `json:"label"`
	OnTrack        int     `json:"on_track"`
	OffTrack       int     `json:"off_track"`
	TotalRecords   int     `json:"total_records"`
	OnTrackPercent float64 `json:"on_track_percent"`
}

// AggregateSnapshot is the summary view-model of a row set.
type AggregateSnapshot struct {
	PerLocationBreakdown []LocationBreakdown `json:"per_location_breakdown"`
	MonthlyTrend         []MonthlyBucket     `json:"monthly_trend"`
	TotalRecords         int                 `json:"total_records"`
	TotalLocations       int                 `json:"total_locations"`
	OnTrackCount         int                 `json:"on_track_count"`
	OffTrackCount        int                 `json:"off_track_count"`
	OtherCount           int                 `json:"other_count"`
	RatingCount          int                 `json:"rating_count"`
	OnTrackRate          float64             `json:"on_track_rate"`
	AverageRating        float64             `json:"average_rating"`
}
