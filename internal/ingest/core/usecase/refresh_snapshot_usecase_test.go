package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"stream-analytics-service/internal/ingest/core/domain"
)

type fakeSource struct {
	streams     []domain.StreamRow
	highlights  []domain.HighlightRow
	livestreams []domain.LivestreamRow
	bots        []domain.BotRow
	urls        []domain.URLRow

	streamsErr error

	streamsSince []time.Time
}

func (f *fakeSource) FetchStreamsSince(ctx context.Context, since time.Time) ([]domain.StreamRow, error) {
	f.streamsSince = append(f.streamsSince, since)
	if f.streamsErr != nil {
		return nil, f.streamsErr
	}
	var out []domain.StreamRow
	for _, r := range f.streams {
		if r.CreatedAt.After(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSource) FetchHighlightsSince(ctx context.Context, since time.Time) ([]domain.HighlightRow, error) {
	return f.highlights, nil
}

func (f *fakeSource) FetchLivestreamsSince(ctx context.Context, since time.Time) ([]domain.LivestreamRow, error) {
	return f.livestreams, nil
}

func (f *fakeSource) FetchBotsSince(ctx context.Context, since time.Time) ([]domain.BotRow, error) {
	return f.bots, nil
}

func (f *fakeSource) FetchURLsSince(ctx context.Context, since time.Time) ([]domain.URLRow, error) {
	return f.urls, nil
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestExecute_FetchesAllTables(t *testing.T) {
	src := &fakeSource{
		streams: []domain.StreamRow{{ID: "s1", UserID: "a", CreatedAt: day(1)}},
		bots:    []domain.BotRow{{ID: "b1", UserID: "x", CreatedAt: day(2)}},
	}

	uc := NewRefreshSnapshotUseCase(src, nil)
	res, err := uc.Execute(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RunID == "" {
		t.Error("expected a run id")
	}
	if res.Total != 2 {
		t.Errorf("expected 2 rows fetched, got %d", res.Total)
	}
	if res.Fetched[domain.TableStreams] != 1 || res.Fetched[domain.TableBots] != 1 {
		t.Errorf("unexpected per-table counts: %v", res.Fetched)
	}

	rows, err := uc.Rows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows.Count(domain.TableStreams) != 1 {
		t.Errorf("expected cached stream row, got %d", rows.Count(domain.TableStreams))
	}
}

func TestExecute_IncrementalUsesHighWaterMark(t *testing.T) {
	src := &fakeSource{
		streams: []domain.StreamRow{
			{ID: "s1", UserID: "a", CreatedAt: day(1)},
			{ID: "s2", UserID: "b", CreatedAt: day(5)},
		},
	}

	uc := NewRefreshSnapshotUseCase(src, nil)
	if _, err := uc.Execute(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Execute(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(src.streamsSince) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(src.streamsSince))
	}
	if !src.streamsSince[0].IsZero() {
		t.Errorf("first fetch must start from zero time, got %v", src.streamsSince[0])
	}
	if !src.streamsSince[1].Equal(day(5)) {
		t.Errorf("second fetch must start from high-water mark %v, got %v", day(5), src.streamsSince[1])
	}

	rows, _ := uc.Rows(context.Background())
	if rows.Count(domain.TableStreams) != 2 {
		t.Errorf("expected 2 cached streams, got %d", rows.Count(domain.TableStreams))
	}
}

func TestExecute_FullReloadResetsHighWaterMark(t *testing.T) {
	src := &fakeSource{
		streams: []domain.StreamRow{{ID: "s1", UserID: "a", CreatedAt: day(1)}},
	}

	uc := NewRefreshSnapshotUseCase(src, nil)
	if _, err := uc.Execute(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Execute(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !src.streamsSince[1].IsZero() {
		t.Errorf("full reload must fetch from zero time, got %v", src.streamsSince[1])
	}

	rows, _ := uc.Rows(context.Background())
	if rows.Count(domain.TableStreams) != 1 {
		t.Errorf("full reload must not duplicate rows, got %d", rows.Count(domain.TableStreams))
	}
}

func TestExecute_FailureKeepsPriorSnapshot(t *testing.T) {
	src := &fakeSource{
		streams: []domain.StreamRow{{ID: "s1", UserID: "a", CreatedAt: day(1)}},
	}

	uc := NewRefreshSnapshotUseCase(src, nil)
	if _, err := uc.Execute(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src.streamsErr = errors.New("connection reset")
	_, err := uc.Execute(context.Background(), false)
	if !errors.Is(err, ErrUpstreamFetch) {
		t.Fatalf("expected ErrUpstreamFetch, got %v", err)
	}

	rows, _ := uc.Rows(context.Background())
	if rows.Count(domain.TableStreams) != 1 {
		t.Errorf("prior snapshot must survive a failed refresh, got %d rows", rows.Count(domain.TableStreams))
	}
}

func TestExecute_EmptyUpstreamIsNotAnError(t *testing.T) {
	uc := NewRefreshSnapshotUseCase(&fakeSource{}, nil)

	res, err := uc.Execute(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("expected 0 rows, got %d", res.Total)
	}
}
