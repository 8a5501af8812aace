package domain

import "time"

// Point is one period's value in a metric series. Provisional marks the
// single trailing point computed from a still-in-progress period.
type Point struct {
	PeriodStart time.Time
	Value       float64
	Provisional bool
}

// Series is a chronologically ordered metric series. Historical points are
// always complete and precede the provisional point, which is always last.
type Series []Point
