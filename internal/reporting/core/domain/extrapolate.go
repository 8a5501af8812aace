package domain

import (
	"math"
	"time"
)

// ProjectionPolicy decides how a metric's still-in-progress current period
// is turned into a provisional point.
type ProjectionPolicy int

const (
	// ProjectLinear scales the partial value by elapsed time. Extensively
	// additive metrics (counts, sums) use this.
	ProjectLinear ProjectionPolicy = iota
	// ProjectDirect reports the value computed against the partial period's
	// own population. Means, ratios, retention and churn use this because
	// they do not scale linearly with elapsed time.
	ProjectDirect
)

// EarlyActualDays is the default cutoff under which linearly projected
// metrics report the raw actual instead of an inflated scale-up. Only the
// first elapsed day is exempt from scaling; from the second day on the
// linear projection applies.
const EarlyActualDays = 1

// Extrapolate projects a partial-period value to a full-period estimate.
// elapsedUnits is capped at a minimum of one to avoid division by zero.
func Extrapolate(raw float64, elapsedUnits, periodLengthUnits int) float64 {
	if elapsedUnits < 1 {
		elapsedUnits = 1
	}
	return math.Ceil(raw / float64(elapsedUnits) * float64(periodLengthUnits))
}

// ProjectCurrent produces the provisional value for the current period.
// With earlyCutoff > 0, the raw actual is reported while at most that many
// days of the period have elapsed.
func ProjectCurrent(raw float64, spec PeriodSpec, periodStart, now time.Time, earlyCutoff int) float64 {
	elapsed := spec.ElapsedDays(periodStart, now)
	if earlyCutoff > 0 && elapsed <= earlyCutoff {
		return raw
	}
	return Extrapolate(raw, elapsed, spec.LengthDays(periodStart))
}
