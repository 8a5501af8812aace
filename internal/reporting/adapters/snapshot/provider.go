// Package snapshot adapts the ingest context's raw-data cache into the
// reporting context's snapshot view.
package snapshot

import (
	"context"

	ingestdomain "stream-analytics-service/internal/ingest/core/domain"
	"stream-analytics-service/internal/reporting/core/domain"
	"stream-analytics-service/internal/reporting/core/ports"
)

// RowSource exposes the cached raw rows. The ingest refresh use case
// satisfies it.
type RowSource interface {
	Rows(ctx context.Context) (ingestdomain.Batch, error)
}

// Provider converts cached ingest rows into the uniform event shape the
// report computation consumes.
type Provider struct {
	source RowSource
}

func NewProvider(source RowSource) *Provider {
	return &Provider{source: source}
}

var _ ports.SnapshotProviderPort = (*Provider)(nil)

func (p *Provider) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	batch, err := p.source.Rows(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}

	snap := domain.Snapshot{
		Streams:     make([]domain.Event, 0, len(batch.Streams)),
		Highlights:  make([]domain.Event, 0, len(batch.Highlights)),
		Livestreams: make([]domain.Event, 0, len(batch.Livestreams)),
		Bots:        make([]domain.Event, 0, len(batch.Bots)),
		URLs:        make([]domain.Event, 0, len(batch.URLs)),
	}

	for _, r := range batch.Streams {
		snap.Streams = append(snap.Streams, domain.Event{
			EntityID:  r.ID,
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
		})
	}
	for _, r := range batch.Highlights {
		snap.Highlights = append(snap.Highlights, domain.Event{
			EntityID:     r.ID,
			UserID:       r.UserID,
			CreatedAt:    r.CreatedAt,
			Liked:        r.Liked,
			Downloaded:   r.Downloaded,
			LinkCopied:   r.LinkCopied,
			StreamID:     r.StreamID,
			LivestreamID: r.LivestreamID,
		})
	}
	for _, r := range batch.Livestreams {
		snap.Livestreams = append(snap.Livestreams, domain.Event{
			EntityID:  r.ID,
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
		})
	}
	for _, r := range batch.Bots {
		snap.Bots = append(snap.Bots, domain.Event{
			EntityID:  r.ID,
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
		})
	}
	for _, r := range batch.URLs {
		snap.URLs = append(snap.URLs, domain.Event{
			EntityID:  r.ID,
			UserID:    r.UserID,
			CreatedAt: r.CreatedAt,
			ViewCount: r.ViewCount,
		})
	}

	return snap, nil
}
