package fiber

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"stream-analytics-service/internal/reporting/core/domain"
	"stream-analytics-service/internal/reporting/core/usecase"
	"stream-analytics-service/internal/telemetry"
)

type ComputeReportUseCase interface {
	Execute(ctx context.Context, granularity string) (*domain.Report, error)
}

type ReportHandler struct {
	reportUC ComputeReportUseCase
	metrics  *telemetry.Metrics
}

func NewReportHandler(reportUC ComputeReportUseCase, metrics *telemetry.Metrics) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, metrics: metrics}
}

// GetReport godoc
// @Summary Compute the metrics report
// @Description Computes the full metric catalog over the cached snapshot at the requested granularity. The in-progress period is linearly projected and marked as such.
// @Tags Reports
// @Produce json
// @Param granularity query string false "daily, weekly or monthly" default(weekly)
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	granularity := c.Query("granularity", usecase.GranularityWeekly)

	report, err := h.reportUC.Execute(c.UserContext(), granularity)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidGranularity):
			h.metrics.ObserveReport(granularity, telemetry.StatusFailure)
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_granularity",
				Message: "granularity must be daily, weekly or monthly",
			})
		default:
			h.metrics.ObserveReport(granularity, telemetry.StatusFailure)
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	h.metrics.ObserveReport(granularity, telemetry.StatusSuccess)
	return c.Status(http.StatusOK).JSON(toReportResponse(granularity, report))
}

func toReportResponse(granularity string, report *domain.Report) ReportResponse {
	resp := ReportResponse{
		Granularity: granularity,
		Columns:     report.Columns,
		Rows:        make([]ReportRow, len(report.Periods)),
		Summary: SummaryResponse{
			TotalStreams:            report.Summary.TotalStreams,
			TotalLivestreams:        report.Summary.TotalLivestreams,
			TotalUsers:              report.Summary.TotalUsers,
			LatestAvgStreamsPerUser: report.Summary.LatestAvgStreamsPerUser,
		},
	}

	for i, start := range report.Periods {
		values := make([]float64, len(report.Columns))
		for j, name := range report.Columns {
			values[j] = report.Values[name][i]
		}
		status := "actual"
		if report.Provisional[i] {
			status = "projected"
		}
		resp.Rows[i] = ReportRow{
			PeriodStart: start.UTC().Format(time.RFC3339),
			Values:      values,
			Status:      status,
		}
	}

	if len(report.Failures) > 0 {
		resp.Failures = make(map[string]string, len(report.Failures))
		for name, ferr := range report.Failures {
			resp.Failures[name] = ferr.Error()
		}
	}

	return resp
}
