package domain

import (
	"errors"
	"time"
)

// PeriodKind selects the bucket length rows are aggregated into.
type PeriodKind string

const (
	PeriodDay   PeriodKind = "day"
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
)

// WeekRegime selects how week boundaries are derived.
type WeekRegime string

const (
	// WeekCalendar anchors each week to the most recent occurrence of the
	// configured weekday at or before the timestamp.
	WeekCalendar WeekRegime = "calendar"
	// WeekEpochFixed derives boundaries from a fixed historical anchor so
	// week numbering never shifts with report-generation time.
	WeekEpochFixed WeekRegime = "epoch"
)

// DefaultWeekEpoch is the fixed UTC Sunday all epoch-fixed weeks count from.
var DefaultWeekEpoch = time.Date(2024, time.September, 29, 0, 0, 0, 0, time.UTC)

// ErrInvalidTimestamp marks a timestamp that is zero or not normalized to UTC.
// Callers own timezone normalization; such rows are dropped, never aggregated.
var ErrInvalidTimestamp = errors.New("timestamp must be a non-zero UTC instant")

// PeriodSpec fully determines period assignment for one report granularity.
type PeriodSpec struct {
	Kind       PeriodKind
	Regime     WeekRegime   // weeks only
	WeekAnchor time.Weekday // calendar weeks only
	Epoch      time.Time    // epoch-fixed weeks only
}

// DaySpec returns the spec for daily buckets.
func DaySpec() PeriodSpec { return PeriodSpec{Kind: PeriodDay} }

// MonthSpec returns the spec for calendar-month buckets.
func MonthSpec() PeriodSpec { return PeriodSpec{Kind: PeriodMonth} }

// CalendarWeekSpec returns the spec for weeks starting on the given weekday.
func CalendarWeekSpec(anchor time.Weekday) PeriodSpec {
	return PeriodSpec{Kind: PeriodWeek, Regime: WeekCalendar, WeekAnchor: anchor}
}

// EpochWeekSpec returns the spec for weeks counted from a fixed epoch instant.
func EpochWeekSpec(epoch time.Time) PeriodSpec {
	return PeriodSpec{Kind: PeriodWeek, Regime: WeekEpochFixed, Epoch: epoch.UTC()}
}

// Assign maps a timestamp to the start instant of its containing period.
func (s PeriodSpec) Assign(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, ErrInvalidTimestamp
	}
	if _, offset := t.Zone(); offset != 0 {
		return time.Time{}, ErrInvalidTimestamp
	}

	switch s.Kind {
	case PeriodDay:
		return truncateDay(t), nil
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	case PeriodWeek:
		if s.Regime == WeekEpochFixed {
			return s.assignEpochWeek(t), nil
		}
		day := truncateDay(t)
		back := (int(day.Weekday()) - int(s.WeekAnchor) + 7) % 7
		return day.AddDate(0, 0, -back), nil
	default:
		return time.Time{}, ErrInvalidTimestamp
	}
}

func (s PeriodSpec) assignEpochWeek(t time.Time) time.Time {
	const weekSeconds = 7 * 24 * 3600
	delta := t.Unix() - s.Epoch.Unix()
	weeks := delta / weekSeconds
	if delta < 0 && delta%weekSeconds != 0 {
		weeks--
	}
	return s.Epoch.Add(time.Duration(weeks) * 7 * 24 * time.Hour)
}

// LengthDays returns the number of days in the period starting at start.
func (s PeriodSpec) LengthDays(start time.Time) int {
	switch s.Kind {
	case PeriodDay:
		return 1
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return int(start.AddDate(0, 1, 0).Sub(start).Hours() / 24)
	default:
		return 1
	}
}

// ElapsedDays returns the whole days elapsed since the period start,
// inclusive of the current day and never below one.
func (s PeriodSpec) ElapsedDays(start, now time.Time) int {
	elapsed := int(now.Sub(start).Hours()/24) + 1
	if elapsed < 1 {
		elapsed = 1
	}
	return elapsed
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
