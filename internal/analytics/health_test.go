package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scadatwin/telemetry-engine/internal/analytics"
	"github.com/scadatwin/telemetry-engine/internal/domain"
)

func newEvaluator() *analytics.HealthEvaluator {
	return analytics.NewHealthEvaluator(analytics.DefaultThresholds())
}

func reading(temp, amps, vib float64) *domain.Reading {
	return &domain.Reading{
		AssetID:     "MOTOR_001",
		Timestamp:   time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Temperature: temp,
		MotorAmps:   amps,
		Vibration:   vib,
		Status:      "RUNNING",
	}
}

func TestEvaluateCriticalTemperature(t *testing.T) {
	report := newEvaluator().Evaluate(reading(95, 10, 0.1))

	require.Equal(t, domain.SeverityCritical, report.Health)
	require.Len(t, report.Issues, 1)
	require.Equal(t, "CRITICAL: Temperature at 95.0°F (threshold: 90.0°F)", report.Issues[0])
	require.Empty(t, report.Warnings)
	require.Equal(t, report.Issues[0], report.Message)
}

func TestEvaluateWarningTemperature(t *testing.T) {
	report := newEvaluator().Evaluate(reading(85, 10, 0.1))

	require.Equal(t, domain.SeverityWarning, report.Health)
	require.Empty(t, report.Issues)
	require.Len(t, report.Warnings, 1)
	require.Equal(t, "WARNING: Temperature at 85.0°F (threshold: 80.0°F)", report.Warnings[0])
}

func TestEvaluateNormal(t *testing.T) {
	report := newEvaluator().Evaluate(reading(70, 10, 0.1))

	require.Equal(t, domain.SeverityNormal, report.Health)
	require.Equal(t, "All parameters within normal operating range", report.Message)
	require.Empty(t, report.Issues)
	require.Empty(t, report.Warnings)
	require.NotNil(t, report.Current)
	require.Equal(t, "RUNNING", report.Current.Status)
}

func TestEvaluateNilReadingIsNoData(t *testing.T) {
	report := newEvaluator().Evaluate(nil)

	require.Equal(t, domain.SeverityNoData, report.Health)
	require.Equal(t, "No sensor data available", report.Message)
	require.Nil(t, report.Current)
}

func TestEvaluateCriticalOutranksWarnings(t *testing.T) {
	// Warning temperature plus critical vibration: overall CRITICAL, the
	// warning is still reported in its own list.
	report := newEvaluator().Evaluate(reading(85, 10, 0.6))

	require.Equal(t, domain.SeverityCritical, report.Health)
	require.Len(t, report.Issues, 1)
	require.Contains(t, report.Issues[0], "Vibration")
	require.Len(t, report.Warnings, 1)
	require.Contains(t, report.Warnings[0], "Temperature")
	require.Equal(t, report.Issues[0], report.Message)
}

func TestEvaluateMetricOrderIsFixed(t *testing.T) {
	report := newEvaluator().Evaluate(reading(95, 14, 0.6))

	require.Len(t, report.Issues, 3)
	require.Contains(t, report.Issues[0], "Temperature")
	require.Contains(t, report.Issues[1], "Motor current")
	require.Contains(t, report.Issues[2], "Vibration")
	require.Equal(t, "CRITICAL: Motor current at 14.00A (threshold: 13.00A)", report.Issues[1])
	require.Equal(t, "CRITICAL: Vibration at 0.600mm/s (threshold: 0.500mm/s)", report.Issues[2])
}

func TestSeverityMonotonicInEachMetric(t *testing.T) {
	eval := newEvaluator()
	base := []struct {
		name string
		r    domain.Reading
	}{
		{"normal", *reading(70, 10, 0.1)},
		{"warning", *reading(85, 10, 0.1)},
	}
	for _, tc := range base {
		t.Run(tc.name, func(t *testing.T) {
			before := eval.Severity(tc.r)

			hot := tc.r
			hot.Temperature = 95
			require.Equal(t, domain.SeverityCritical, eval.Severity(hot))
			require.GreaterOrEqual(t, eval.Severity(hot), before)

			loaded := tc.r
			loaded.MotorAmps = 13.5
			require.Equal(t, domain.SeverityCritical, eval.Severity(loaded))

			shaking := tc.r
			shaking.Vibration = 0.55
			require.Equal(t, domain.SeverityCritical, eval.Severity(shaking))
		})
	}
}

func TestThresholdBoundariesAreInclusive(t *testing.T) {
	eval := newEvaluator()

	require.Equal(t, domain.SeverityWarning, eval.Severity(*reading(80, 10, 0.1)))
	require.Equal(t, domain.SeverityCritical, eval.Severity(*reading(90, 10, 0.1)))
	require.Equal(t, domain.SeverityWarning, eval.Severity(*reading(70, 12, 0.1)))
	require.Equal(t, domain.SeverityCritical, eval.Severity(*reading(70, 13, 0.1)))
	require.Equal(t, domain.SeverityWarning, eval.Severity(*reading(70, 10, 0.4)))
	require.Equal(t, domain.SeverityCritical, eval.Severity(*reading(70, 10, 0.5)))
}

func TestViolationsMatchSeverityClassification(t *testing.T) {
	eval := newEvaluator()

	// Exactly on the warning threshold still counts as a violation, so every
	// reading classified WARNING or above has a non-empty list.
	v := eval.Violations(*reading(80, 10, 0.1))
	require.Equal(t, []string{"Temperature: 80.0°F"}, v)

	v = eval.Violations(*reading(95, 12.5, 0.45))
	require.Equal(t, []string{"Temperature: 95.0°F", "Current: 12.50A", "Vibration: 0.450mm/s"}, v)

	require.Empty(t, eval.Violations(*reading(70, 10, 0.1)))
}
