package fiber

// ReportResponse is the wide, period-indexed report table.
// @Description Aggregated report DTO
type ReportResponse struct {
	Granularity string            `json:"granularity"`
	Summary     SummaryResponse   `json:"summary"`
	Columns     []string          `json:"columns"`
	Rows        []ReportRow       `json:"rows"`
	Failures    map[string]string `json:"failures,omitempty"`
}

type SummaryResponse struct {
	TotalStreams            int     `json:"total_streams"`
	TotalLivestreams        int     `json:"total_livestreams"`
	TotalUsers              int     `json:"total_users"`
	LatestAvgStreamsPerUser float64 `json:"latest_avg_streams_per_user"`
}

// ReportRow is one period's values, in column order. Status is "projected"
// for the in-progress period and "actual" otherwise.
type ReportRow struct {
	PeriodStart string    `json:"period_start"`
	Values      []float64 `json:"values"`
	Status      string    `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_granularity"`
	Message string `json:"message" example:"granularity must be daily, weekly or monthly"`
}
