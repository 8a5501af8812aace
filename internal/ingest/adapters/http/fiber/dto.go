package fiber

// RefreshResponse summarizes one snapshot refresh run.
// @Description Snapshot refresh result DTO
type RefreshResponse struct {
	RunID   string         `json:"run_id"`
	Full    bool           `json:"full"`
	Fetched map[string]int `json:"fetched"`
	Total   int            `json:"total"`
	Status  string         `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"upstream_fetch_failed"`
	Message string `json:"message" example:"the table store could not be reached"`
}
