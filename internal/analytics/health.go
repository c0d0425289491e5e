package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/scadatwin/telemetry-engine/internal/domain"
)

// CurrentValues carries the measurements of the reading that produced a
// health report or alert.
type CurrentValues struct {
	Temperature float64 `json:"temperature"`
	MotorAmps   float64 `json:"motorAmps"`
	Vibration   float64 `json:"vibration"`
	Status      string  `json:"status,omitempty"`
}

// HealthReport is the classification of one reading (by convention the most
// recent) against the threshold table.
type HealthReport struct {
	Health    domain.Severity `json:"health"`
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Issues    []string        `json:"issues"`
	Warnings  []string        `json:"warnings"`
	Current   *CurrentValues  `json:"currentValues,omitempty"`
}

// HealthEvaluator classifies readings against an injected threshold table.
// It is stateless; one evaluator serves concurrent callers.
type HealthEvaluator struct {
	t Thresholds
}

func NewHealthEvaluator(t Thresholds) *HealthEvaluator {
	return &HealthEvaluator{t: t}
}

// Evaluate classifies r. A nil reading means the store is empty and yields a
// NO_DATA report stamped with the current time. Metrics are checked in a
// fixed order (temperature, current, vibration) so messages are
// deterministic.
func (e *HealthEvaluator) Evaluate(r *domain.Reading) HealthReport {
	if r == nil {
		return HealthReport{
			Health:    domain.SeverityNoData,
			Message:   "No sensor data available",
			Timestamp: time.Now().UTC(),
			Issues:    []string{},
			Warnings:  []string{},
		}
	}

	issues := []string{}
	warnings := []string{}

	if r.Temperature >= e.t.TempCritical {
		issues = append(issues, fmt.Sprintf("CRITICAL: Temperature at %.1f°F (threshold: %.1f°F)", r.Temperature, e.t.TempCritical))
	} else if r.Temperature >= e.t.TempWarning {
		warnings = append(warnings, fmt.Sprintf("WARNING: Temperature at %.1f°F (threshold: %.1f°F)", r.Temperature, e.t.TempWarning))
	}
	if r.MotorAmps >= e.t.AmpsCritical {
		issues = append(issues, fmt.Sprintf("CRITICAL: Motor current at %.2fA (threshold: %.2fA)", r.MotorAmps, e.t.AmpsCritical))
	} else if r.MotorAmps >= e.t.AmpsWarning {
		warnings = append(warnings, fmt.Sprintf("WARNING: Motor current at %.2fA (threshold: %.2fA)", r.MotorAmps, e.t.AmpsWarning))
	}
	if r.Vibration >= e.t.VibCritical {
		issues = append(issues, fmt.Sprintf("CRITICAL: Vibration at %.3fmm/s (threshold: %.3fmm/s)", r.Vibration, e.t.VibCritical))
	} else if r.Vibration >= e.t.VibWarning {
		warnings = append(warnings, fmt.Sprintf("WARNING: Vibration at %.3fmm/s (threshold: %.3fmm/s)", r.Vibration, e.t.VibWarning))
	}

	var health domain.Severity
	var message string
	switch {
	case len(issues) > 0:
		health = domain.SeverityCritical
		message = strings.Join(issues, "; ")
	case len(warnings) > 0:
		health = domain.SeverityWarning
		message = strings.Join(warnings, "; ")
	default:
		health = domain.SeverityNormal
		message = "All parameters within normal operating range"
	}

	return HealthReport{
		Health:    health,
		Message:   message,
		Timestamp: r.Timestamp,
		Issues:    issues,
		Warnings:  warnings,
		Current: &CurrentValues{
			Temperature: r.Temperature,
			MotorAmps:   r.MotorAmps,
			Vibration:   r.Vibration,
			Status:      r.Status,
		},
	}
}

// Severity returns just the classification of r, without building a report.
func (e *HealthEvaluator) Severity(r domain.Reading) domain.Severity {
	switch {
	case r.Temperature >= e.t.TempCritical || r.MotorAmps >= e.t.AmpsCritical || r.Vibration >= e.t.VibCritical:
		return domain.SeverityCritical
	case r.Temperature >= e.t.TempWarning || r.MotorAmps >= e.t.AmpsWarning || r.Vibration >= e.t.VibWarning:
		return domain.SeverityWarning
	}
	return domain.SeverityNormal
}

// Violations lists the metrics of r at or above their warning threshold, in
// the same fixed metric order as Evaluate.
func (e *HealthEvaluator) Violations(r domain.Reading) []string {
	out := []string{}
	if r.Temperature >= e.t.TempWarning {
		out = append(out, fmt.Sprintf("Temperature: %.1f°F", r.Temperature))
	}
	if r.MotorAmps >= e.t.AmpsWarning {
		out = append(out, fmt.Sprintf("Current: %.2fA", r.MotorAmps))
	}
	if r.Vibration >= e.t.VibWarning {
		out = append(out, fmt.Sprintf("Vibration: %.3fmm/s", r.Vibration))
	}
	return out
}
