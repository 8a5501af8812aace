package domain

import (
	"sort"
	"time"
)

// UnionConfig controls which signals count a user as active in a period.
// Livestream inclusion is deployment-configurable rather than fixed.
type UnionConfig struct {
	MinURLViews        int
	IncludeLivestreams bool
}

// ActivitySet is the unified per-period set of active users, deduplicated
// per (user, period) regardless of how many source rows produced the pair.
// Active-user, new-user, retention and churn metrics all derive from the
// same set so their definitions of "active" stay mutually consistent.
type ActivitySet struct {
	Users   map[time.Time]map[string]struct{}
	Starts  []time.Time // ascending
	Dropped int
}

// UnifyActivity merges activity signals from the stream table, qualifying
// URL visits and (optionally) the livestream table into one activity set.
func UnifyActivity(snap Snapshot, spec PeriodSpec, cfg UnionConfig, now time.Time) ActivitySet {
	set := ActivitySet{Users: make(map[time.Time]map[string]struct{})}

	add := func(rows []Event, keep func(Event) bool) {
		for _, row := range rows {
			if keep != nil && !keep(row) {
				continue
			}
			start, err := spec.Assign(row.CreatedAt)
			if err != nil {
				set.Dropped++
				continue
			}
			if row.CreatedAt.After(now) {
				continue
			}
			users, ok := set.Users[start]
			if !ok {
				users = make(map[string]struct{})
				set.Users[start] = users
			}
			users[row.UserID] = struct{}{}
		}
	}

	add(snap.Streams, nil)
	add(snap.URLs, func(e Event) bool { return e.ViewCount >= cfg.MinURLViews })
	if cfg.IncludeLivestreams {
		add(snap.Livestreams, nil)
	}

	set.Starts = make([]time.Time, 0, len(set.Users))
	for start := range set.Users {
		set.Starts = append(set.Starts, start)
	}
	sort.Slice(set.Starts, func(i, j int) bool { return set.Starts[i].Before(set.Starts[j]) })
	return set
}

// ActiveUsers returns the per-period count of distinct active users.
func (s ActivitySet) ActiveUsers() map[time.Time]float64 {
	out := make(map[time.Time]float64, len(s.Starts))
	for start, users := range s.Users {
		out[start] = float64(len(users))
	}
	return out
}

// NewUsers returns, per period, the number of users whose earliest
// appearance across the whole activity set falls in that period.
func (s ActivitySet) NewUsers() map[time.Time]float64 {
	first := make(map[string]time.Time)
	for _, start := range s.Starts {
		for user := range s.Users[start] {
			if _, seen := first[user]; !seen {
				first[user] = start
			}
		}
	}
	out := make(map[time.Time]float64, len(s.Starts))
	for _, start := range first {
		out[start]++
	}
	return out
}

// Retention returns, per period, the percentage of the preceding observed
// period's users who were active again. Periods whose predecessor had no
// users are omitted, not reported as zero.
func (s ActivitySet) Retention() map[time.Time]float64 {
	return s.cohortRate(func(retained, prior int) float64 {
		return Round(float64(retained)/float64(prior)*100, ratioPrecision)
	})
}

// Churn returns, per period, the percentage of the preceding observed
// period's users absent from the period, with the same zero-prior guard
// as Retention.
func (s ActivitySet) Churn() map[time.Time]float64 {
	return s.cohortRate(func(retained, prior int) float64 {
		return Round(float64(prior-retained)/float64(prior)*100, ratioPrecision)
	})
}

func (s ActivitySet) cohortRate(rate func(retained, prior int) float64) map[time.Time]float64 {
	out := make(map[time.Time]float64)
	for i := 1; i < len(s.Starts); i++ {
		prior := s.Users[s.Starts[i-1]]
		if len(prior) == 0 {
			continue
		}
		var retained int
		for user := range s.Users[s.Starts[i]] {
			if _, ok := prior[user]; ok {
				retained++
			}
		}
		out[s.Starts[i]] = rate(retained, len(prior))
	}
	return out
}
