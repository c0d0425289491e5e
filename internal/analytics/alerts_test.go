package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scadatwin/telemetry-engine/internal/analytics"
	"github.com/scadatwin/telemetry-engine/internal/domain"
)

func newScanner() *analytics.AlertScanner {
	return analytics.NewAlertScanner(newEvaluator())
}

func TestScanSkipsNormalReadings(t *testing.T) {
	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	readings := []domain.Reading{
		{ID: 1, AssetID: "MOTOR_001", Timestamp: base, Temperature: 70, MotorAmps: 10, Vibration: 0.1},
		{ID: 2, AssetID: "MOTOR_001", Timestamp: base.Add(time.Minute), Temperature: 85, MotorAmps: 10, Vibration: 0.1},
		{ID: 3, AssetID: "MOTOR_001", Timestamp: base.Add(2 * time.Minute), Temperature: 95, MotorAmps: 10, Vibration: 0.1},
	}

	alerts := newScanner().Scan(readings)

	require.Len(t, alerts, 2)
	for _, a := range alerts {
		require.GreaterOrEqual(t, a.Severity, domain.SeverityWarning)
		require.NotEmpty(t, a.Violations)
	}
}

func TestScanOrdersMostRecentFirst(t *testing.T) {
	base := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	readings := []domain.Reading{
		{ID: 1, Timestamp: base, Temperature: 85},
		{ID: 2, Timestamp: base.Add(time.Hour), Temperature: 91},
		{ID: 3, Timestamp: base.Add(30 * time.Minute), Temperature: 85},
	}

	alerts := newScanner().Scan(readings)

	require.Len(t, alerts, 3)
	require.Equal(t, int64(2), alerts[0].ID)
	require.Equal(t, int64(3), alerts[1].ID)
	require.Equal(t, int64(1), alerts[2].ID)
}

func TestScanSeverityAndViolationsPerReading(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)
	readings := []domain.Reading{
		{ID: 1, AssetID: "PUMP_7", Timestamp: ts, Temperature: 85, MotorAmps: 12.5, Vibration: 0.1},
		{ID: 2, AssetID: "PUMP_7", Timestamp: ts.Add(time.Minute), Temperature: 70, MotorAmps: 10, Vibration: 0.55},
	}

	alerts := newScanner().Scan(readings)

	require.Len(t, alerts, 2)

	critical := alerts[0]
	require.Equal(t, domain.SeverityCritical, critical.Severity)
	require.Equal(t, []string{"Vibration: 0.550mm/s"}, critical.Violations)
	require.Equal(t, 0.55, critical.Values.Vibration)

	warning := alerts[1]
	require.Equal(t, domain.SeverityWarning, warning.Severity)
	require.Equal(t, []string{"Temperature: 85.0°F", "Current: 12.50A"}, warning.Violations)
	require.Equal(t, "PUMP_7", warning.AssetID)
}

func TestScanEmptyWindow(t *testing.T) {
	require.Empty(t, newScanner().Scan(nil))
}
