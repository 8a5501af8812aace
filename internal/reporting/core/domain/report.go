package domain

import (
	"sort"
	"time"
)

// Summary carries the all-time headline figures shown above the report.
type Summary struct {
	TotalStreams            int
	TotalLivestreams        int
	TotalUsers              int
	LatestAvgStreamsPerUser float64
}

// Report is the wide, period-indexed table the rendering layer consumes.
// Every catalog column is always present; periods a series lacks are filled
// with zero so downstream rendering stays uniform. Provisional marks rows
// containing at least one projected point, always the trailing row.
type Report struct {
	Columns     []string
	Periods     []time.Time
	Values      map[string][]float64
	Provisional []bool
	Summary     Summary
	DroppedRows int
	Failures    map[string]error
}

// ComputeInput bundles everything one report computation needs. The
// snapshot is immutable for the duration of the pass.
type ComputeInput struct {
	Snapshot Snapshot
	Spec     PeriodSpec
	Union    UnionConfig
	Now      time.Time
}

// ComputeReport runs every catalog metric independently and merges the
// resulting series into one period-indexed table. One metric's failure
// degrades that column to zeros without touching the others.
func ComputeReport(in ComputeInput) *Report {
	now := in.Now.UTC()
	currentStart, err := in.Spec.Assign(now)
	if err != nil {
		currentStart = time.Time{}
	}

	activity := UnifyActivity(in.Snapshot, in.Spec, in.Union, now)

	defs := Catalog()
	series := make(map[string]Series, len(defs))
	report := &Report{
		Columns:     MetricColumns(),
		Values:      make(map[string][]float64, len(defs)),
		Failures:    make(map[string]error),
		DroppedRows: activity.Dropped,
	}

	periodSet := make(map[time.Time]struct{})
	for _, def := range defs {
		s, dropped, err := def.compute(in.Snapshot, activity, in.Spec, currentStart, now)
		report.DroppedRows += dropped
		if err != nil {
			report.Failures[def.Name] = err
			continue
		}
		series[def.Name] = s
		for _, p := range s {
			periodSet[p.PeriodStart] = struct{}{}
		}
	}

	report.Periods = make([]time.Time, 0, len(periodSet))
	for start := range periodSet {
		report.Periods = append(report.Periods, start)
	}
	sort.Slice(report.Periods, func(i, j int) bool {
		return report.Periods[i].Before(report.Periods[j])
	})

	index := make(map[time.Time]int, len(report.Periods))
	for i, start := range report.Periods {
		index[start] = i
	}

	report.Provisional = make([]bool, len(report.Periods))
	for _, name := range report.Columns {
		col := make([]float64, len(report.Periods))
		for _, p := range series[name] {
			i := index[p.PeriodStart]
			col[i] = p.Value
			if p.Provisional {
				report.Provisional[i] = true
			}
		}
		report.Values[name] = col
	}

	report.Summary = summarize(in.Snapshot, activity, series["avg_streams_per_user"])
	return report
}

func summarize(snap Snapshot, activity ActivitySet, avgStreams Series) Summary {
	users := make(map[string]struct{})
	for _, periodUsers := range activity.Users {
		for u := range periodUsers {
			users[u] = struct{}{}
		}
	}

	s := Summary{
		TotalStreams:     len(snap.Streams),
		TotalLivestreams: len(snap.Livestreams),
		TotalUsers:       len(users),
	}
	if n := len(avgStreams); n > 0 {
		s.LatestAvgStreamsPerUser = avgStreams[n-1].Value
	}
	return s
}
