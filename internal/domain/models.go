package domain

import (
	"fmt"
	"time"
)

// Reading is one timestamped measurement sample from one asset. Readings are
// append-only: corrections arrive as new readings, never as updates.
type Reading struct {
	ID          int64     `db:"id" json:"id"`
	AssetID     string    `db:"asset_id" json:"assetId"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	MotorAmps   float64   `db:"motor_amps" json:"motorAmps"`
	Temperature float64   `db:"temperature" json:"temperature"`
	Vibration   float64   `db:"vibration" json:"vibration"`
	Status      string    `db:"status" json:"status"`
}

// AssetSummary describes everything observed for one assetId. LatestStatus is
// the status of the reading with the maximum timestamp; ties resolve to the
// highest id, i.e. the most recently inserted.
type AssetSummary struct {
	AssetID       string    `db:"asset_id" json:"assetId"`
	FirstReading  time.Time `db:"first_seen" json:"firstReading"`
	LastReading   time.Time `db:"last_seen" json:"lastReading"`
	TotalReadings int64     `db:"total_readings" json:"totalReadings"`
	LatestStatus  string    `db:"latest_status" json:"latestStatus"`
}

// Severity classifies a reading against the threshold table. The constants are
// ordered, so severities compare with <.
type Severity int

const (
	SeverityNoData Severity = iota
	SeverityNormal
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityNoData:
		return "NO_DATA"
	case SeverityNormal:
		return "NORMAL"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
