package ports

import (
	"context"

	"stream-analytics-service/internal/reporting/core/domain"
)

// SnapshotProviderPort hands the reporting core the immutable raw-row
// snapshot a computation pass runs against. Providers must return the last
// good snapshot even when the most recent upstream fetch failed.
type SnapshotProviderPort interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
}
