package analytics

import "math"

// Thresholds is the static warning/critical table shared by the health
// evaluator and the alert scanner. It is built once at startup and injected,
// so the two classifications can never diverge.
type Thresholds struct {
	TempWarning  float64
	TempCritical float64
	AmpsWarning  float64
	AmpsCritical float64
	VibWarning   float64
	VibCritical  float64
}

// DefaultThresholds returns the standard motor monitoring limits:
// temperature in °F, motor current in A, vibration in mm/s.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TempWarning:  80.0,
		TempCritical: 90.0,
		AmpsWarning:  12.0,
		AmpsCritical: 13.0,
		VibWarning:   0.4,
		VibCritical:  0.5,
	}
}

// Round2 and Round3 round to the fixed report precisions: 2 decimals for
// amps and temperature, 3 for vibration.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }
func Round3(v float64) float64 { return math.Round(v*1000) / 1000 }
