package domain

import (
	"testing"
	"time"
)

func column(t *testing.T, r *Report, name string) []float64 {
	t.Helper()
	col, ok := r.Values[name]
	if !ok {
		t.Fatalf("column %q missing from report", name)
	}
	if len(col) != len(r.Periods) {
		t.Fatalf("column %q has %d values for %d periods", name, len(col), len(r.Periods))
	}
	return col
}

func weeklyInput(snap Snapshot, now time.Time) ComputeInput {
	return ComputeInput{
		Snapshot: snap,
		Spec:     EpochWeekSpec(DefaultWeekEpoch),
		Union:    UnionConfig{MinURLViews: 1},
		Now:      now,
	}
}

func TestComputeReport_CompleteWeekStreams(t *testing.T) {
	// 10 stream rows across 3 distinct users, all within one complete week.
	var streams []Event
	for i := 0; i < 5; i++ {
		streams = append(streams, userEvent("a", weekN.Add(time.Duration(i)*time.Hour)))
	}
	for i := 0; i < 3; i++ {
		streams = append(streams, userEvent("b", weekN.Add(time.Duration(24+i)*time.Hour)))
	}
	streams = append(streams,
		userEvent("c", weekN.Add(50*time.Hour)),
		userEvent("c", weekN.Add(51*time.Hour)),
	)

	report := ComputeReport(weeklyInput(Snapshot{Streams: streams}, utc(2025, time.June, 1, 0)))

	if len(report.Periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(report.Periods))
	}
	if got := column(t, report, "total_streams")[0]; got != 10 {
		t.Errorf("expected total_streams=10, got %v", got)
	}
	if got := column(t, report, "active_users")[0]; got != 3 {
		t.Errorf("expected active_users=3, got %v", got)
	}
	if got := column(t, report, "avg_streams_per_user")[0]; got != 3.33 {
		t.Errorf("expected avg_streams_per_user=3.33, got %v", got)
	}
	if report.Provisional[0] {
		t.Error("complete week must not be provisional")
	}
}

func TestComputeReport_LikeRatioExcludesUnrated(t *testing.T) {
	highlights := []Event{
		{UserID: "a", CreatedAt: weekN.Add(time.Hour), StreamID: "s1", Liked: boolPtr(true)},
		{UserID: "a", CreatedAt: weekN.Add(time.Hour), StreamID: "s2", Liked: boolPtr(true)},
		{UserID: "b", CreatedAt: weekN.Add(time.Hour), StreamID: "s3", Liked: boolPtr(false)},
		{UserID: "b", CreatedAt: weekN.Add(time.Hour), StreamID: "s4"},
		{UserID: "c", CreatedAt: weekN.Add(time.Hour), StreamID: "s5"},
	}

	report := ComputeReport(weeklyInput(Snapshot{Highlights: highlights}, utc(2025, time.June, 1, 0)))

	if got := column(t, report, "vod_like_ratio")[0]; got != 66.67 {
		t.Errorf("expected vod_like_ratio=66.67, got %v", got)
	}
	// No live highlights: column present, zero-filled.
	if got := column(t, report, "live_like_ratio")[0]; got != 0 {
		t.Errorf("expected live_like_ratio=0, got %v", got)
	}
}

func TestComputeReport_AllColumnsAlwaysPresent(t *testing.T) {
	snap := Snapshot{Streams: []Event{userEvent("a", weekN.Add(time.Hour))}}
	report := ComputeReport(weeklyInput(snap, utc(2025, time.June, 1, 0)))

	if len(report.Columns) != len(Catalog()) {
		t.Fatalf("expected %d columns, got %d", len(Catalog()), len(report.Columns))
	}
	for _, name := range report.Columns {
		column(t, report, name)
	}
	// Bots table was empty: its column degrades to zeros, never goes missing.
	for i, v := range column(t, report, "new_bots") {
		if v != 0 {
			t.Errorf("period %d: expected zero-filled new_bots, got %v", i, v)
		}
	}
}

func TestComputeReport_CurrentWeekIsProvisionalAndLast(t *testing.T) {
	now := weekN1.Add(36 * time.Hour) // second day of week N+1

	snap := Snapshot{
		Streams: []Event{
			userEvent("a", weekN.Add(time.Hour)),
			userEvent("a", weekN1.Add(time.Hour)),
			userEvent("b", weekN1.Add(2*time.Hour)),
			userEvent("a", weekN1.Add(26*time.Hour)),
			userEvent("b", weekN1.Add(27*time.Hour)),
		},
	}

	report := ComputeReport(weeklyInput(snap, now))

	if len(report.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(report.Periods))
	}
	if report.Provisional[0] {
		t.Error("historical week must not be provisional")
	}
	if !report.Provisional[1] {
		t.Error("current week must be provisional")
	}
	// 4 streams over 2 elapsed days: ceil(4/2*7) = 14.
	if got := column(t, report, "total_streams")[1]; got != 14 {
		t.Errorf("expected projected total_streams=14, got %v", got)
	}
}

func TestComputeReport_CurrentWeekRetentionIsDirect(t *testing.T) {
	now := weekN1.Add(36 * time.Hour)

	snap := Snapshot{
		Streams: []Event{
			userEvent("A", weekN.Add(time.Hour)),
			userEvent("B", weekN.Add(time.Hour)),
			userEvent("C", weekN.Add(time.Hour)),
			userEvent("B", weekN1.Add(time.Hour)),
			userEvent("C", weekN1.Add(time.Hour)),
			userEvent("D", weekN1.Add(time.Hour)),
		},
	}

	report := ComputeReport(weeklyInput(snap, now))

	// Ratio against last complete cohort, never linearly scaled.
	if got := column(t, report, "retention_rate")[1]; got != 66.67 {
		t.Errorf("expected retention_rate=66.67, got %v", got)
	}
	if got := column(t, report, "churn_rate")[1]; got != 33.33 {
		t.Errorf("expected churn_rate=33.33, got %v", got)
	}
}

func TestComputeReport_EmptySnapshot(t *testing.T) {
	report := ComputeReport(weeklyInput(Snapshot{}, utc(2025, time.June, 1, 0)))

	if len(report.Periods) != 0 {
		t.Fatalf("expected no periods, got %d", len(report.Periods))
	}
	if len(report.Columns) != len(Catalog()) {
		t.Fatalf("column set must stay complete on empty input")
	}
	if len(report.Failures) != 0 {
		t.Fatalf("empty sources are not failures, got %v", report.Failures)
	}
}

func TestComputeReport_URLMetrics(t *testing.T) {
	urls := []Event{
		{UserID: "a", EntityID: "u1", CreatedAt: weekN.Add(time.Hour), ViewCount: 10},
		{UserID: "b", EntityID: "u2", CreatedAt: weekN.Add(time.Hour), ViewCount: 0},
		{UserID: "c", EntityID: "u3", CreatedAt: weekN.Add(time.Hour), ViewCount: 5},
	}

	report := ComputeReport(weeklyInput(Snapshot{URLs: urls}, utc(2025, time.June, 1, 0)))

	if got := column(t, report, "total_url_views")[0]; got != 15 {
		t.Errorf("expected total_url_views=15, got %v", got)
	}
	if got := column(t, report, "avg_views_per_url")[0]; got != 5 {
		t.Errorf("expected avg_views_per_url=5, got %v", got)
	}
	if got := column(t, report, "urls_with_views_percent")[0]; got != 66.67 {
		t.Errorf("expected urls_with_views_percent=66.67, got %v", got)
	}
}

func TestComputeReport_Summary(t *testing.T) {
	snap := Snapshot{
		Streams: []Event{
			userEvent("a", weekN.Add(time.Hour)),
			userEvent("a", weekN.Add(2*time.Hour)),
			userEvent("b", weekN.Add(3*time.Hour)),
		},
		Livestreams: []Event{userEvent("a", weekN.Add(4*time.Hour))},
	}

	report := ComputeReport(weeklyInput(snap, utc(2025, time.June, 1, 0)))

	if report.Summary.TotalStreams != 3 {
		t.Errorf("expected TotalStreams=3, got %d", report.Summary.TotalStreams)
	}
	if report.Summary.TotalLivestreams != 1 {
		t.Errorf("expected TotalLivestreams=1, got %d", report.Summary.TotalLivestreams)
	}
	if report.Summary.TotalUsers != 2 {
		t.Errorf("expected TotalUsers=2, got %d", report.Summary.TotalUsers)
	}
	if report.Summary.LatestAvgStreamsPerUser != 1.5 {
		t.Errorf("expected LatestAvgStreamsPerUser=1.5, got %v", report.Summary.LatestAvgStreamsPerUser)
	}
}

func TestComputeReport_CountsDroppedRows(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	snap := Snapshot{
		Streams: []Event{
			userEvent("a", weekN.Add(time.Hour)),
			{UserID: "b", CreatedAt: time.Date(2024, time.October, 1, 10, 0, 0, 0, loc)},
		},
	}

	report := ComputeReport(weeklyInput(snap, utc(2025, time.June, 1, 0)))
	if report.DroppedRows == 0 {
		t.Fatal("expected dropped rows to be counted")
	}
	if got := column(t, report, "total_streams")[0]; got != 1 {
		t.Errorf("valid rows must still aggregate, got %v", got)
	}
}
