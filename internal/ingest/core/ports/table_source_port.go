package ports

import (
	"context"
	"time"

	"stream-analytics-service/internal/ingest/core/domain"
)

// TableSourcePort fetches raw rows from the hosted table store. Every
// method returns rows with created_at at or after since, already filtered
// of developer activity, in ascending (created_at, id) order. Rows at the
// boundary timestamp may be refetched; the cache deduplicates them by ID.
type TableSourcePort interface {
	FetchStreamsSince(ctx context.Context, since time.Time) ([]domain.StreamRow, error)
	FetchHighlightsSince(ctx context.Context, since time.Time) ([]domain.HighlightRow, error)
	FetchLivestreamsSince(ctx context.Context, since time.Time) ([]domain.LivestreamRow, error)
	FetchBotsSince(ctx context.Context, since time.Time) ([]domain.BotRow, error)
	FetchURLsSince(ctx context.Context, since time.Time) ([]domain.URLRow, error)
}
