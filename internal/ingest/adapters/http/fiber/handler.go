package fiber

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"stream-analytics-service/internal/ingest/core/usecase"
)

type RefreshSnapshotUseCase interface {
	Execute(ctx context.Context, full bool) (usecase.RefreshResult, error)
}

type RefreshHandler struct {
	refreshUC RefreshSnapshotUseCase
}

func NewRefreshHandler(refreshUC RefreshSnapshotUseCase) *RefreshHandler {
	return &RefreshHandler{refreshUC: refreshUC}
}

// RefreshSnapshot godoc
// @Summary Refresh the raw-data snapshot
// @Description Pulls new rows from the table store into the session cache. Incremental by default; pass full=true to reload everything.
// @Tags Snapshot
// @Produce json
// @Param full query bool false "Discard the cache and reload all tables"
// @Success 200 {object} RefreshResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /refresh [post]
func (h *RefreshHandler) RefreshSnapshot(c *fiber.Ctx) error {
	full := c.QueryBool("full")

	result, err := h.refreshUC.Execute(c.UserContext(), full)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUpstreamFetch):
			return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
				Error:   "upstream_fetch_failed",
				Message: err.Error(),
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	fetched := make(map[string]int, len(result.Fetched))
	for table, n := range result.Fetched {
		fetched[string(table)] = n
	}

	return c.Status(http.StatusOK).JSON(RefreshResponse{
		RunID:   result.RunID,
		Full:    result.Full,
		Fetched: fetched,
		Total:   result.Total,
		Status:  "refreshed",
	})
}
