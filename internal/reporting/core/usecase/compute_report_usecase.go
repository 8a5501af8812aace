package usecase

import (
	"context"
	"errors"
	"time"

	"stream-analytics-service/internal/logging"
	"stream-analytics-service/internal/reporting/core/domain"
	"stream-analytics-service/internal/reporting/core/ports"
)

var (
	ErrInvalidGranularity  = errors.New("invalid report granularity")
	ErrSnapshotUnavailable = errors.New("snapshot unavailable")
)

// Granularity values accepted by Execute.
const (
	GranularityDaily   = "daily"
	GranularityWeekly  = "weekly"
	GranularityMonthly = "monthly"
)

// Options fixes the deployment-level reporting configuration. WeekRegime
// selects between epoch-fixed weeks (stable numbering, preferred for
// projection) and calendar weeks anchored on WeekAnchor.
type Options struct {
	WeekRegime         domain.WeekRegime
	WeekAnchor         time.Weekday
	WeekEpoch          time.Time
	MinURLViews        int
	IncludeLivestreams bool
}

// DefaultOptions returns the reporting defaults: epoch-fixed weeks counted
// from the platform's fixed Sunday anchor and URL visits counting from the
// first view.
func DefaultOptions() Options {
	return Options{
		WeekRegime:  domain.WeekEpochFixed,
		WeekAnchor:  time.Sunday,
		WeekEpoch:   domain.DefaultWeekEpoch,
		MinURLViews: 1,
	}
}

type ComputeReportUseCase struct {
	provider ports.SnapshotProviderPort
	opts     Options
	now      func() time.Time
}

func NewComputeReportUseCase(provider ports.SnapshotProviderPort, opts Options) *ComputeReportUseCase {
	if opts.WeekEpoch.IsZero() {
		opts.WeekEpoch = domain.DefaultWeekEpoch
	}
	return &ComputeReportUseCase{
		provider: provider,
		opts:     opts,
		now:      time.Now,
	}
}

// Execute validates the granularity, pulls the current snapshot and runs the
// full metric catalog over it. Reports are recomputed fresh on every call
// and never persisted.
func (uc *ComputeReportUseCase) Execute(ctx context.Context, granularity string) (*domain.Report, error) {
	spec, err := uc.specFor(granularity)
	if err != nil {
		return nil, err
	}

	snap, err := uc.provider.Snapshot(ctx)
	if err != nil {
		return nil, errors.Join(ErrSnapshotUnavailable, err)
	}

	report := domain.ComputeReport(domain.ComputeInput{
		Snapshot: snap,
		Spec:     spec,
		Union: domain.UnionConfig{
			MinURLViews:        uc.opts.MinURLViews,
			IncludeLivestreams: uc.opts.IncludeLivestreams,
		},
		Now: uc.now(),
	})

	if report.DroppedRows > 0 {
		logging.Warn().
			Str("granularity", granularity).
			Int("dropped_rows", report.DroppedRows).
			Msg("rows with invalid timestamps were dropped")
	}
	for name, ferr := range report.Failures {
		logging.Warn().
			Str("metric", name).
			Err(ferr).
			Msg("metric computation failed, column degraded to zeros")
	}

	return report, nil
}

func (uc *ComputeReportUseCase) specFor(granularity string) (domain.PeriodSpec, error) {
	switch granularity {
	case GranularityDaily:
		return domain.DaySpec(), nil
	case GranularityWeekly:
		if uc.opts.WeekRegime == domain.WeekCalendar {
			return domain.CalendarWeekSpec(uc.opts.WeekAnchor), nil
		}
		return domain.EpochWeekSpec(uc.opts.WeekEpoch), nil
	case GranularityMonthly:
		return domain.MonthSpec(), nil
	default:
		return domain.PeriodSpec{}, ErrInvalidGranularity
	}
}
