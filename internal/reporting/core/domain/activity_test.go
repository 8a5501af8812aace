package domain

import (
	"testing"
	"time"
)

var (
	weekN  = DefaultWeekEpoch
	weekN1 = DefaultWeekEpoch.AddDate(0, 0, 7)
	weekN2 = DefaultWeekEpoch.AddDate(0, 0, 14)
)

func activityFixture(t *testing.T, snap Snapshot, cfg UnionConfig) ActivitySet {
	t.Helper()
	spec := EpochWeekSpec(DefaultWeekEpoch)
	return UnifyActivity(snap, spec, cfg, utc(2025, time.June, 1, 0))
}

func TestUnifyActivity_DeduplicatesUserPeriodPairs(t *testing.T) {
	snap := Snapshot{
		Streams: []Event{
			userEvent("a", weekN.Add(time.Hour)),
			userEvent("a", weekN.Add(2*time.Hour)),
		},
		URLs: []Event{
			{UserID: "a", CreatedAt: weekN.Add(3 * time.Hour), ViewCount: 5},
		},
	}

	set := activityFixture(t, snap, UnionConfig{MinURLViews: 1})
	if got := len(set.Users[weekN]); got != 1 {
		t.Fatalf("expected 1 distinct user, got %d", got)
	}
}

func TestUnifyActivity_URLViewThreshold(t *testing.T) {
	snap := Snapshot{
		URLs: []Event{
			{UserID: "a", CreatedAt: weekN.Add(time.Hour), ViewCount: 0},
			{UserID: "b", CreatedAt: weekN.Add(time.Hour), ViewCount: 3},
		},
	}

	set := activityFixture(t, snap, UnionConfig{MinURLViews: 1})
	users := set.Users[weekN]
	if _, ok := users["a"]; ok {
		t.Error("user with zero views should not count as active")
	}
	if _, ok := users["b"]; !ok {
		t.Error("user meeting view threshold should count as active")
	}
}

func TestUnifyActivity_LivestreamsConfigurable(t *testing.T) {
	snap := Snapshot{
		Livestreams: []Event{userEvent("a", weekN.Add(time.Hour))},
	}

	excluded := activityFixture(t, snap, UnionConfig{MinURLViews: 1})
	if len(excluded.Users[weekN]) != 0 {
		t.Error("livestream users should be excluded by default")
	}

	included := activityFixture(t, snap, UnionConfig{MinURLViews: 1, IncludeLivestreams: true})
	if len(included.Users[weekN]) != 1 {
		t.Error("livestream users should be included when configured")
	}
}

func TestRetentionAndChurn_ScenarioConsecutiveWeeks(t *testing.T) {
	// Week N has users {A,B,C}; week N+1 has users {B,C,D}.
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

	set := activityFixture(t, snap, UnionConfig{MinURLViews: 1})

	retention := set.Retention()
	if got := retention[weekN1]; got != 66.67 {
		t.Errorf("expected retention 66.67, got %v", got)
	}
	if _, ok := retention[weekN]; ok {
		t.Error("first period has no predecessor and must be omitted")
	}

	churn := set.Churn()
	if got := churn[weekN1]; got != 33.33 {
		t.Errorf("expected churn 33.33, got %v", got)
	}
}

func TestRetention_SinglePeriodIsEmpty(t *testing.T) {
	snap := Snapshot{
		Streams: []Event{userEvent("a", weekN.Add(time.Hour))},
	}
	set := activityFixture(t, snap, UnionConfig{MinURLViews: 1})
	if got := set.Retention(); len(got) != 0 {
		t.Fatalf("expected empty retention series, got %v", got)
	}
}

func TestNewUsers_EarliestAppearanceOnly(t *testing.T) {
	snap := Snapshot{
		Streams: []Event{
			userEvent("a", weekN.Add(time.Hour)),
			userEvent("a", weekN1.Add(time.Hour)),
			userEvent("b", weekN1.Add(time.Hour)),
		},
		URLs: []Event{
			// b was already visiting URLs in week N, so b is not new in N+1.
			{UserID: "b", CreatedAt: weekN.Add(time.Hour), ViewCount: 2},
			{UserID: "c", CreatedAt: weekN2.Add(time.Hour), ViewCount: 2},
		},
	}

	set := activityFixture(t, snap, UnionConfig{MinURLViews: 1})
	newUsers := set.NewUsers()

	if got := newUsers[weekN]; got != 2 {
		t.Errorf("expected 2 new users in week N, got %v", got)
	}
	if got := newUsers[weekN1]; got != 0 {
		t.Errorf("expected 0 new users in week N+1, got %v", got)
	}
	if got := newUsers[weekN2]; got != 1 {
		t.Errorf("expected 1 new user in week N+2, got %v", got)
	}
}
