package observability

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	listMeterName        = "dsvisual/list"
	listOperationsMetric = "dsvisual.list.operations"
	listLengthMetric     = "dsvisual.list.length"
)

// Outcome classifies a finished list operation.
type Outcome string

const (
	OutcomeOK              Outcome = "ok"
	OutcomeCancelled       Outcome = "cancelled"
	OutcomeIndexOutOfRange Outcome = "index_out_of_range"
	OutcomeEmptyList       Outcome = "empty_list"
	OutcomeInvalidInput    Outcome = "invalid_input"
)

// ListStats counts the list operations and reports the current length.
// A nil *ListStats records nothing.
type ListStats struct {
	operations metric.Int64Counter
	length     metric.Int64ObservableGauge
	current    atomic.Int64
}

// NewListStats builds the instruments from mp, or from the global meter
// provider if mp is nil.
func NewListStats(mp metric.MeterProvider) (*ListStats, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(listMeterName)
	stats := &ListStats{}

	var err error
	stats.operations, err = meter.Int64Counter(
		listOperationsMetric,
		metric.WithDescription("The list operations applied by the session."),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}
	stats.length, err = meter.Int64ObservableGauge(
		listLengthMetric,
		metric.WithDescription("The current length of the list."),
		metric.WithUnit("{node}"),
		metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
			ob.Observe(stats.current.Load())
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// MustNewListStats panics if the instruments cannot be built.
func MustNewListStats(mp metric.MeterProvider) *ListStats {
	return lo.Must[*ListStats](NewListStats(mp))
}

func (s *ListStats) RecordOperation(ctx context.Context, op string, outcome Outcome) {
	if s == nil {
		return
	}
	s.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", string(outcome)),
	))
}

// ObserveLength stores the length read by the gauge callback, which may
// run on the exporter goroutine.
func (s *ListStats) ObserveLength(n int64) {
	if s == nil {
		return
	}
	s.current.Store(n)
}
