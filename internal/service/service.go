package service

import (
	"context"
	"fmt"
	"time"

	"github.com/scadatwin/telemetry-engine/internal/analytics"
	"github.com/scadatwin/telemetry-engine/internal/domain"
	"github.com/scadatwin/telemetry-engine/internal/repository"
)

// ValidationError reports a caller-supplied parameter violating a documented
// constraint. It is raised before any store access.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// Services bundles the reading store with the analytics components behind the
// operations the transport layer exposes.
type Services struct {
	Store   repository.Store
	Eval    *analytics.HealthEvaluator
	Scanner *analytics.AlertScanner

	now func() time.Time
}

func New(store repository.Store, thresholds analytics.Thresholds) *Services {
	eval := analytics.NewHealthEvaluator(thresholds)
	return &Services{
		Store:   store,
		Eval:    eval,
		Scanner: analytics.NewAlertScanner(eval),
		now:     time.Now,
	}
}

// LatestReadings returns the newest count readings in chronological order.
func (s *Services) LatestReadings(ctx context.Context, count int, assetID string) ([]domain.Reading, error) {
	if count <= 0 {
		return nil, invalidf("count must be positive, got %d", count)
	}
	return s.Store.Latest(ctx, count, assetID)
}

func (s *Services) ReadingByID(ctx context.Context, id int64) (*domain.Reading, error) {
	return s.Store.ByID(ctx, id)
}

// RangeResult is the readings-in-range payload: the echoed bounds plus the
// chronological matches.
type RangeResult struct {
	Start time.Time        `json:"start"`
	End   time.Time        `json:"end"`
	Count int              `json:"count"`
	Data  []domain.Reading `json:"data"`
}

func (s *Services) ReadingsInRange(ctx context.Context, start, end time.Time, assetID string) (*RangeResult, error) {
	if !start.Before(end) {
		return nil, invalidf("start date must be before end date")
	}
	readings, err := s.Store.Range(ctx, start, end, assetID)
	if err != nil {
		return nil, err
	}
	return &RangeResult{Start: start, End: end, Count: len(readings), Data: readings}, nil
}

// WindowResult is the trailing-window payload, echoing the cutoff that was
// applied.
type WindowResult struct {
	TimeWindow string           `json:"timeWindow"`
	CutoffTime time.Time        `json:"cutoffTime"`
	Count      int              `json:"count"`
	Data       []domain.Reading `json:"data"`
}

func (s *Services) ReadingsLastMinutes(ctx context.Context, minutes int, assetID string) (*WindowResult, error) {
	if minutes <= 0 {
		return nil, invalidf("minutes must be positive, got %d", minutes)
	}
	cutoff := s.now().UTC().Add(-time.Duration(minutes) * time.Minute)
	readings, err := s.Store.Since(ctx, cutoff, assetID)
	if err != nil {
		return nil, err
	}
	return &WindowResult{
		TimeWindow: fmt.Sprintf("%d minutes", minutes),
		CutoffTime: cutoff,
		Count:      len(readings),
		Data:       readings,
	}, nil
}

// Statistics summarizes the trailing window: latest reading, per-metric
// avg/min/max, and counts. NoData marks an empty store.
type Statistics struct {
	NoData             bool            `json:"-"`
	LatestReading      *domain.Reading `json:"latestReading,omitempty"`
	TimeWindow         string          `json:"timeWindow"`
	AverageAmps        float64         `json:"averageAmps"`
	AverageTemperature float64         `json:"averageTemperature"`
	AverageVibration   float64         `json:"averageVibration"`
	MaxAmps            float64         `json:"maxAmps"`
	MaxTemperature     float64         `json:"maxTemperature"`
	MaxVibration       float64         `json:"maxVibration"`
	MinAmps            float64         `json:"minAmps"`
	MinTemperature     float64         `json:"minTemperature"`
	MinVibration       float64         `json:"minVibration"`
	TotalReadings      int64           `json:"totalReadings"`
	RecentReadings     int             `json:"recentReadingsCount"`
	Status             string          `json:"status"`
}

func (s *Services) Statistics(ctx context.Context, minutes int) (*Statistics, error) {
	if minutes <= 0 {
		return nil, invalidf("minutes must be positive, got %d", minutes)
	}
	newest, err := s.Store.Latest(ctx, 1, "")
	if err != nil {
		return nil, err
	}
	if len(newest) == 0 {
		return &Statistics{NoData: true}, nil
	}
	latest := newest[0]

	cutoff := s.now().UTC().Add(-time.Duration(minutes) * time.Minute)
	recent, err := s.Store.Since(ctx, cutoff, "")
	if err != nil {
		return nil, err
	}
	total, err := s.Store.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{
		LatestReading:  &latest,
		TimeWindow:     fmt.Sprintf("Last %d minutes", minutes),
		TotalReadings:  total,
		RecentReadings: len(recent),
		Status:         latest.Status,
	}
	if len(recent) > 0 {
		var amps, temp, vib metricAgg
		for _, r := range recent {
			amps.add(r.MotorAmps)
			temp.add(r.Temperature)
			vib.add(r.Vibration)
		}
		n := float64(len(recent))
		stats.AverageAmps = analytics.Round2(amps.sum / n)
		stats.AverageTemperature = analytics.Round2(temp.sum / n)
		stats.AverageVibration = analytics.Round3(vib.sum / n)
		stats.MaxAmps = analytics.Round2(amps.max)
		stats.MaxTemperature = analytics.Round2(temp.max)
		stats.MaxVibration = analytics.Round3(vib.max)
		stats.MinAmps = analytics.Round2(amps.min)
		stats.MinTemperature = analytics.Round2(temp.min)
		stats.MinVibration = analytics.Round3(vib.min)
	}
	return stats, nil
}

// AggregateSeries is a bucketed rollup of the trailing window. NoData marks a
// window with no readings at all, distinct from an empty bucket list.
type AggregateSeries struct {
	NoData     bool               `json:"-"`
	Interval   string             `json:"interval"`
	TimeWindow string             `json:"timeWindow"`
	DataPoints int                `json:"dataPoints"`
	Data       []analytics.Bucket `json:"data"`
}

func (s *Services) Aggregate(ctx context.Context, interval string, minutes int) (*AggregateSeries, error) {
	parsed, err := analytics.ParseInterval(interval)
	if err != nil {
		return nil, invalidf("%s", err.Error())
	}
	if minutes <= 0 {
		return nil, invalidf("minutes must be positive, got %d", minutes)
	}
	cutoff := s.now().UTC().Add(-time.Duration(minutes) * time.Minute)
	readings, err := s.Store.Since(ctx, cutoff, "")
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return &AggregateSeries{NoData: true}, nil
	}
	buckets := analytics.Aggregate(readings, parsed)
	return &AggregateSeries{
		Interval:   string(parsed),
		TimeWindow: fmt.Sprintf("%d minutes", minutes),
		DataPoints: len(buckets),
		Data:       buckets,
	}, nil
}

// Health classifies the most recent reading in the store.
func (s *Services) Health(ctx context.Context) (analytics.HealthReport, error) {
	newest, err := s.Store.Latest(ctx, 1, "")
	if err != nil {
		return analytics.HealthReport{}, err
	}
	if len(newest) == 0 {
		return s.Eval.Evaluate(nil), nil
	}
	return s.Eval.Evaluate(&newest[0]), nil
}

// AlertsResult lists threshold violations in the trailing window, most recent
// first.
type AlertsResult struct {
	TimeWindow string            `json:"timeWindow"`
	AlertCount int               `json:"alertCount"`
	Alerts     []analytics.Alert `json:"alerts"`
}

func (s *Services) Alerts(ctx context.Context, hours int) (*AlertsResult, error) {
	if hours <= 0 {
		return nil, invalidf("hours must be positive, got %d", hours)
	}
	cutoff := s.now().UTC().Add(-time.Duration(hours) * time.Hour)
	readings, err := s.Store.Since(ctx, cutoff, "")
	if err != nil {
		return nil, err
	}
	alerts := s.Scanner.Scan(readings)
	return &AlertsResult{
		TimeWindow: fmt.Sprintf("Last %d hours", hours),
		AlertCount: len(alerts),
		Alerts:     alerts,
	}, nil
}

func (s *Services) AssetSummaries(ctx context.Context) ([]domain.AssetSummary, error) {
	return s.Store.AssetSummaries(ctx)
}

type metricAgg struct {
	sum, min, max float64
	seen          bool
}

func (m *metricAgg) add(v float64) {
	m.sum += v
	if !m.seen || v < m.min {
		m.min = v
	}
	if !m.seen || v > m.max {
		m.max = v
	}
	m.seen = true
}
