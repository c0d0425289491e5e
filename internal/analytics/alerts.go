package analytics

import (
	"sort"
	"time"

	"github.com/scadatwin/telemetry-engine/internal/domain"
)

// Alert is one threshold-violating reading from the scanned window.
type Alert struct {
	ID         int64           `json:"id"`
	AssetID    string          `json:"assetId"`
	Timestamp  time.Time       `json:"timestamp"`
	Severity   domain.Severity `json:"severity"`
	Violations []string        `json:"violations"`
	Values     CurrentValues   `json:"values"`
}

// AlertScanner reuses the health evaluator's classification over a trailing
// window of readings.
type AlertScanner struct {
	eval *HealthEvaluator
}

func NewAlertScanner(eval *HealthEvaluator) *AlertScanner {
	return &AlertScanner{eval: eval}
}

// Scan classifies each reading and keeps those at WARNING or above, so an
// emitted alert always carries at least one violation. Results are ordered
// descending by timestamp, most recent alert first (ties break to the higher
// id).
func (s *AlertScanner) Scan(readings []domain.Reading) []Alert {
	out := []Alert{}
	for _, r := range readings {
		severity := s.eval.Severity(r)
		if severity < domain.SeverityWarning {
			continue
		}
		out = append(out, Alert{
			ID:         r.ID,
			AssetID:    r.AssetID,
			Timestamp:  r.Timestamp,
			Severity:   severity,
			Violations: s.eval.Violations(r),
			Values: CurrentValues{
				Temperature: r.Temperature,
				MotorAmps:   r.MotorAmps,
				Vibration:   r.Vibration,
			},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
