package domain

import (
	"math"
	"sort"
	"time"
)

// AggKind selects the per-period aggregation applied to a bucket of rows.
type AggKind int

const (
	// AggCount counts rows in the period.
	AggCount AggKind = iota
	// AggUniqueCount counts distinct group-key values in the period.
	AggUniqueCount
	// AggMeanGroupSize partitions the period's rows by group key and takes
	// the mean of per-group row counts (e.g. average streams per user).
	AggMeanGroupSize
	// AggSumField sums a numeric field over the period's rows.
	AggSumField
	// AggMeanField averages a numeric field over the period's rows.
	AggMeanField
	// AggBoolRatio is the percentage of true values among rows where a
	// nullable boolean field is non-null; null rows leave both sides.
	AggBoolRatio
	// AggPredicateRatio is the percentage of rows matching a predicate,
	// over all rows in the period.
	AggPredicateRatio
)

// AggOptions carries the selectors an aggregation kind needs.
type AggOptions struct {
	GroupKey func(Event) string  // unique-count and mean-group-size
	Field    func(Event) float64 // sum and mean field
	Bool     func(Event) *bool   // nullable boolean ratio
	Pred     func(Event) bool    // predicate ratio
}

// UserKey groups rows by user identifier, the common grouping key.
func UserKey(e Event) string { return e.UserID }

// ratioPrecision is the display precision for ratios, rates and means.
const ratioPrecision = 2

// Buckets holds rows grouped by their assigned period start.
type Buckets struct {
	ByStart map[time.Time][]Event
	Starts  []time.Time // ascending
	Dropped int         // rows rejected for invalid timestamps
}

// Bucketize assigns every row to its period. Rows with invalid timestamps
// are dropped and counted rather than failing the batch; rows dated after
// now are excluded entirely.
func Bucketize(rows []Event, spec PeriodSpec, now time.Time) Buckets {
	b := Buckets{ByStart: make(map[time.Time][]Event)}
	for _, row := range rows {
		start, err := spec.Assign(row.CreatedAt)
		if err != nil {
			b.Dropped++
			continue
		}
		if row.CreatedAt.After(now) {
			continue
		}
		b.ByStart[start] = append(b.ByStart[start], row)
	}
	b.Starts = make([]time.Time, 0, len(b.ByStart))
	for start := range b.ByStart {
		b.Starts = append(b.Starts, start)
	}
	sort.Slice(b.Starts, func(i, j int) bool { return b.Starts[i].Before(b.Starts[j]) })
	return b
}

// BucketValue computes one aggregation over one period's rows. ok is false
// when the value is undefined for the period (zero denominator); such
// periods are omitted from the series, not reported as zero or NaN.
func BucketValue(kind AggKind, rows []Event, opt AggOptions) (value float64, ok bool) {
	switch kind {
	case AggCount:
		return float64(len(rows)), true

	case AggUniqueCount:
		seen := make(map[string]struct{}, len(rows))
		for _, r := range rows {
			seen[opt.GroupKey(r)] = struct{}{}
		}
		return float64(len(seen)), true

	case AggMeanGroupSize:
		sizes := make(map[string]int, len(rows))
		for _, r := range rows {
			sizes[opt.GroupKey(r)]++
		}
		if len(sizes) == 0 {
			return 0, false
		}
		return Round(float64(len(rows))/float64(len(sizes)), ratioPrecision), true

	case AggSumField:
		var sum float64
		for _, r := range rows {
			sum += opt.Field(r)
		}
		return sum, true

	case AggMeanField:
		if len(rows) == 0 {
			return 0, false
		}
		var sum float64
		for _, r := range rows {
			sum += opt.Field(r)
		}
		return Round(sum/float64(len(rows)), ratioPrecision), true

	case AggBoolRatio:
		var rated, liked int
		for _, r := range rows {
			v := opt.Bool(r)
			if v == nil {
				continue
			}
			rated++
			if *v {
				liked++
			}
		}
		if rated == 0 {
			return 0, false
		}
		return Round(float64(liked)/float64(rated)*100, ratioPrecision), true

	case AggPredicateRatio:
		if len(rows) == 0 {
			return 0, false
		}
		var hits int
		for _, r := range rows {
			if opt.Pred(r) {
				hits++
			}
		}
		return Round(float64(hits)/float64(len(rows))*100, ratioPrecision), true

	default:
		return 0, false
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
