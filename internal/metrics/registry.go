package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Registry holds the domain instruments for the fraud and analytics engines
type Registry struct {
	meter metric.Meter

	// Fraud domain
	ScoringDuration  metric.Float64Histogram
	DetectorDuration metric.Float64Histogram
	PatternsDetected metric.Int64Counter
	ScoresComputed   metric.Int64Counter

	// Analytics domain
	ProfileBuildDuration metric.Float64Histogram
	ExportRecords        metric.Int64Counter

	// Store gateway
	StoreQueryCounter  metric.Int64Counter
	StoreQueryDuration metric.Float64Histogram

	// API
	APIRequestDuration metric.Float64Histogram
	APIRequestCounter  metric.Int64Counter
}

// NewRegistry creates the metrics registry on the global meter provider
func NewRegistry(meterName string) (*Registry, error) {
	meter := otel.Meter(meterName)
	r := &Registry{meter: meter}

	var err error
	if r.ScoringDuration, err = meter.Float64Histogram(
		"fraud.scoring.duration",
		metric.WithDescription("Time to extract signals and score one customer"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if r.DetectorDuration, err = meter.Float64Histogram(
		"fraud.detector.duration",
		metric.WithDescription("Time for one anomaly detector pass"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if r.PatternsDetected, err = meter.Int64Counter(
		"fraud.patterns.detected",
		metric.WithDescription("Fraud patterns emitted by the detectors"),
	); err != nil {
		return nil, err
	}

	if r.ScoresComputed, err = meter.Int64Counter(
		"fraud.scores.computed",
		metric.WithDescription("Customer fraud scores computed"),
	); err != nil {
		return nil, err
	}

	if r.ProfileBuildDuration, err = meter.Float64Histogram(
		"analytics.profiles.duration",
		metric.WithDescription("Time to build the customer risk profile set"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if r.ExportRecords, err = meter.Int64Counter(
		"analytics.export.records",
		metric.WithDescription("Records written by data exports"),
	); err != nil {
		return nil, err
	}

	if r.StoreQueryCounter, err = meter.Int64Counter(
		"store.queries",
		metric.WithDescription("Store gateway queries by collection"),
	); err != nil {
		return nil, err
	}

	if r.StoreQueryDuration, err = meter.Float64Histogram(
		"store.query.duration",
		metric.WithDescription("Store gateway query latency"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if r.APIRequestDuration, err = meter.Float64Histogram(
		"api.request.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if r.APIRequestCounter, err = meter.Int64Counter(
		"api.requests",
		metric.WithDescription("HTTP requests by route and status"),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RecordScoring records one scoring pass
func (r *Registry) RecordScoring(ctx context.Context, duration time.Duration) {
	r.ScoringDuration.Record(ctx, float64(duration.Milliseconds()))
	r.ScoresComputed.Add(ctx, 1)
}

// RecordDetector records one detector pass
func (r *Registry) RecordDetector(ctx context.Context, detector string, duration time.Duration, patterns int) {
	attrs := metric.WithAttributes(attribute.String("detector", detector))
	r.DetectorDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	r.PatternsDetected.Add(ctx, int64(patterns), attrs)
}

// RecordAPIRequest records one HTTP request
func (r *Registry) RecordAPIRequest(ctx context.Context, route string, status int, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	r.APIRequestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	r.APIRequestCounter.Add(ctx, 1, attrs)
}
