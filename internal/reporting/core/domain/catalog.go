package domain

import (
	"fmt"
	"time"
)

// ActivityMetric names a metric derived from the unified activity set
// instead of a single source table.
type ActivityMetric string

const (
	ActivityNone      ActivityMetric = ""
	ActivityActive    ActivityMetric = "active"
	ActivityNew       ActivityMetric = "new"
	ActivityRetention ActivityMetric = "retention"
	ActivityChurn     ActivityMetric = "churn"
)

// MetricDefinition is the static configuration of one catalog metric.
// Definitions are immutable; the catalog loop treats them uniformly.
type MetricDefinition struct {
	Name            string
	Source          Table
	Filter          func(Event) bool // optional row subset within the source
	Kind            AggKind
	Opt             AggOptions
	Projection      ProjectionPolicy
	EarlyActualDays int
	Activity        ActivityMetric
}

// Applicable reports whether the metric has anything to compute from.
// An inapplicable metric still appears in the report as an all-zero column.
func (d MetricDefinition) Applicable(s Snapshot) bool {
	if d.Activity != ActivityNone {
		return true
	}
	return len(s.Rows(d.Source)) > 0
}

func viewCount(e Event) float64 { return float64(e.ViewCount) }
func likedOf(e Event) *bool     { return e.Liked }
func hasViews(e Event) bool     { return e.ViewCount > 0 }

// Catalog returns the fixed metric set in report column order.
func Catalog() []MetricDefinition {
	return []MetricDefinition{
		{Name: "active_users", Activity: ActivityActive,
			Projection: ProjectLinear, EarlyActualDays: EarlyActualDays},
		{Name: "new_users", Activity: ActivityNew,
			Projection: ProjectLinear, EarlyActualDays: EarlyActualDays},
		{Name: "total_streams", Source: TableStreams, Kind: AggCount,
			Projection: ProjectLinear, EarlyActualDays: EarlyActualDays},
		{Name: "avg_streams_per_user", Source: TableStreams, Kind: AggMeanGroupSize,
			Opt: AggOptions{GroupKey: UserKey}, Projection: ProjectDirect},
		{Name: "total_livestreams", Source: TableLivestreams, Kind: AggCount,
			Projection: ProjectLinear, EarlyActualDays: EarlyActualDays},
		{Name: "avg_livestreams_per_user", Source: TableLivestreams, Kind: AggMeanGroupSize,
			Opt: AggOptions{GroupKey: UserKey}, Projection: ProjectDirect},
		{Name: "vod_like_ratio", Source: TableHighlights, Filter: Event.IsVOD,
			Kind: AggBoolRatio, Opt: AggOptions{Bool: likedOf}, Projection: ProjectDirect},
		{Name: "live_like_ratio", Source: TableHighlights, Filter: Event.IsLive,
			Kind: AggBoolRatio, Opt: AggOptions{Bool: likedOf}, Projection: ProjectDirect},
		{Name: "vod_share_rate", Source: TableHighlights, Filter: Event.IsVOD,
			Kind: AggPredicateRatio, Opt: AggOptions{Pred: Event.Shared}, Projection: ProjectDirect},
		{Name: "live_share_rate", Source: TableHighlights, Filter: Event.IsLive,
			Kind: AggPredicateRatio, Opt: AggOptions{Pred: Event.Shared}, Projection: ProjectDirect},
		{Name: "vod_downloads", Source: TableHighlights,
			Filter: func(e Event) bool { return e.IsVOD() && e.Downloaded },
			Kind:   AggCount, Projection: ProjectLinear, EarlyActualDays: EarlyActualDays},
		{Name: "livestream_downloads", Source: TableHighlights,
			Filter: func(e Event) bool { return e.IsLive() && e.Downloaded },
			Kind:   AggCount, Projection: ProjectLinear, EarlyActualDays: EarlyActualDays},
		{Name: "new_bots", Source: TableBots, Kind: AggCount,
			Projection: ProjectLinear, EarlyActualDays: EarlyActualDays},
		{Name: "total_url_views", Source: TableURLs, Kind: AggSumField,
			Opt: AggOptions{Field: viewCount}, Projection: ProjectLinear, EarlyActualDays: EarlyActualDays},
		{Name: "avg_views_per_url", Source: TableURLs, Kind: AggMeanField,
			Opt: AggOptions{Field: viewCount}, Projection: ProjectDirect},
		{Name: "urls_with_views_percent", Source: TableURLs, Kind: AggPredicateRatio,
			Opt: AggOptions{Pred: hasViews}, Projection: ProjectDirect},
		{Name: "retention_rate", Activity: ActivityRetention, Projection: ProjectDirect},
		{Name: "churn_rate", Activity: ActivityChurn, Projection: ProjectDirect},
	}
}

// MetricColumns returns the catalog's metric names in column order.
func MetricColumns() []string {
	defs := Catalog()
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

func (d MetricDefinition) computeTable(snap Snapshot, spec PeriodSpec, currentStart, now time.Time) (Series, int) {
	rows := snap.Rows(d.Source)
	if d.Filter != nil {
		kept := make([]Event, 0, len(rows))
		for _, r := range rows {
			if d.Filter(r) {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	b := Bucketize(rows, spec, now)
	series := make(Series, 0, len(b.Starts))
	for _, start := range b.Starts {
		v, ok := BucketValue(d.Kind, b.ByStart[start], d.Opt)
		if !ok {
			continue
		}
		if start.Equal(currentStart) {
			if d.Projection == ProjectLinear {
				v = ProjectCurrent(v, spec, start, now, d.EarlyActualDays)
			}
			series = append(series, Point{PeriodStart: start, Value: v, Provisional: true})
			continue
		}
		series = append(series, Point{PeriodStart: start, Value: v})
	}
	return series, b.Dropped
}

func (d MetricDefinition) computeActivity(set ActivitySet, spec PeriodSpec, currentStart, now time.Time) Series {
	var values map[time.Time]float64
	switch d.Activity {
	case ActivityActive:
		values = set.ActiveUsers()
	case ActivityNew:
		values = set.NewUsers()
	case ActivityRetention:
		values = set.Retention()
	case ActivityChurn:
		values = set.Churn()
	}

	series := make(Series, 0, len(set.Starts))
	for _, start := range set.Starts {
		v, ok := values[start]
		if !ok {
			continue
		}
		if start.Equal(currentStart) {
			if d.Projection == ProjectLinear {
				v = ProjectCurrent(v, spec, start, now, d.EarlyActualDays)
			}
			series = append(series, Point{PeriodStart: start, Value: v, Provisional: true})
			continue
		}
		series = append(series, Point{PeriodStart: start, Value: v})
	}
	return series
}

// compute runs one metric in isolation. A panic inside one metric's
// arithmetic must never prevent the rest of the catalog from computing.
func (d MetricDefinition) compute(snap Snapshot, set ActivitySet, spec PeriodSpec, currentStart, now time.Time) (series Series, dropped int, err error) {
	defer func() {
		if r := recover(); r != nil {
			series, dropped = nil, 0
			err = fmt.Errorf("metric %s: %v", d.Name, r)
		}
	}()

	if d.Activity != ActivityNone {
		return d.computeActivity(set, spec, currentStart, now), 0, nil
	}
	if !d.Applicable(snap) {
		return nil, 0, nil
	}
	series, dropped = d.computeTable(snap, spec, currentStart, now)
	return series, dropped, nil
}
