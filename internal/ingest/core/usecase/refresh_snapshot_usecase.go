package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"stream-analytics-service/internal/ingest/core/domain"
	"stream-analytics-service/internal/ingest/core/ports"
	"stream-analytics-service/internal/logging"
	"stream-analytics-service/internal/telemetry"
)

// ErrUpstreamFetch wraps failures from the table store. The prior cached
// snapshot stays valid when it is returned.
var ErrUpstreamFetch = errors.New("upstream fetch failed")

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	RunID   string
	Full    bool
	Fetched map[domain.Table]int
	Total   int
}

// RefreshSnapshotUseCase owns the session-scoped raw-data cache and refills
// it from the table store. Refreshes are serialized: a run either completes
// and atomically replaces the cache, or fails and leaves it untouched.
type RefreshSnapshotUseCase struct {
	source  ports.TableSourcePort
	metrics *telemetry.Metrics

	mu    sync.Mutex
	cache domain.RawDataCache
}

func NewRefreshSnapshotUseCase(source ports.TableSourcePort, metrics *telemetry.Metrics) *RefreshSnapshotUseCase {
	return &RefreshSnapshotUseCase{
		source:  source,
		metrics: metrics,
		cache:   domain.NewRawDataCache(),
	}
}

// Execute fetches rows newer than each table's high-water mark and merges
// them into the cache. With full set, the cache is invalidated first and
// every table reloads from scratch.
func (uc *RefreshSnapshotUseCase) Execute(ctx context.Context, full bool) (RefreshResult, error) {
	runID := uuid.NewString()
	started := time.Now()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	cache := uc.cache
	if full {
		cache = cache.Invalidate()
	}

	batch, err := uc.fetchAll(ctx, cache)
	if err != nil {
		uc.metrics.ObserveRefresh(telemetry.StatusFailure, time.Since(started))
		logging.Error().Str("run_id", runID).Err(err).Msg("refresh failed, prior snapshot kept")
		return RefreshResult{}, errors.Join(ErrUpstreamFetch, err)
	}

	uc.cache = cache.MergeIncremental(batch)

	result := RefreshResult{
		RunID:   runID,
		Full:    full,
		Fetched: make(map[domain.Table]int, len(domain.Tables)),
		Total:   batch.Total(),
	}
	for _, t := range domain.Tables {
		result.Fetched[t] = batch.Count(t)
		uc.metrics.AddRowsFetched(string(t), batch.Count(t))
	}
	uc.metrics.ObserveRefresh(telemetry.StatusSuccess, time.Since(started))

	logging.Info().
		Str("run_id", runID).
		Bool("full", full).
		Int("rows", result.Total).
		Dur("elapsed", time.Since(started)).
		Msg("snapshot refreshed")

	return result, nil
}

func (uc *RefreshSnapshotUseCase) fetchAll(ctx context.Context, cache domain.RawDataCache) (domain.Batch, error) {
	var batch domain.Batch
	var err error

	if batch.Streams, err = uc.source.FetchStreamsSince(ctx, cache.LastSeen(domain.TableStreams)); err != nil {
		return domain.Batch{}, err
	}
	if batch.Highlights, err = uc.source.FetchHighlightsSince(ctx, cache.LastSeen(domain.TableHighlights)); err != nil {
		return domain.Batch{}, err
	}
	if batch.Livestreams, err = uc.source.FetchLivestreamsSince(ctx, cache.LastSeen(domain.TableLivestreams)); err != nil {
		return domain.Batch{}, err
	}
	if batch.Bots, err = uc.source.FetchBotsSince(ctx, cache.LastSeen(domain.TableBots)); err != nil {
		return domain.Batch{}, err
	}
	if batch.URLs, err = uc.source.FetchURLsSince(ctx, cache.LastSeen(domain.TableURLs)); err != nil {
		return domain.Batch{}, err
	}

	return batch, nil
}

// Rows returns the currently cached rows. An empty cache is a valid input
// for report computation, not an error.
func (uc *RefreshSnapshotUseCase) Rows(ctx context.Context) (domain.Batch, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.cache.Rows(), nil
}
