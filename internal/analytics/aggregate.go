package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/scadatwin/telemetry-engine/internal/domain"
)

// Interval is a bucket granularity for aggregation.
type Interval string

const (
	IntervalMinute Interval = "minute"
	IntervalHour   Interval = "hour"
)

// ParseInterval validates a caller-supplied granularity string.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case IntervalMinute, IntervalHour:
		return Interval(s), nil
	}
	return "", fmt.Errorf("invalid interval %q: use 'minute' or 'hour'", s)
}

func (i Interval) truncate(t time.Time) time.Time {
	if i == IntervalHour {
		return t.UTC().Truncate(time.Hour)
	}
	return t.UTC().Truncate(time.Minute)
}

// Bucket is one time-bucketed rollup of readings.
type Bucket struct {
	Timestamp      time.Time `json:"timestamp"`
	AvgAmps        float64   `json:"avgAmps"`
	AvgTemperature float64   `json:"avgTemperature"`
	AvgVibration   float64   `json:"avgVibration"`
	Count          int       `json:"count"`
}

// Aggregate groups readings by their truncated timestamp and averages each
// metric per bucket (amps and temperature to 2 decimals, vibration to 3).
// Buckets come back ascending by timestamp; intervals with no readings are
// never synthesized. An empty input yields an empty slice, which callers must
// distinguish from a no-data window before invoking this.
func Aggregate(readings []domain.Reading, interval Interval) []Bucket {
	type acc struct {
		amps, temp, vib float64
		count           int
	}
	groups := map[time.Time]*acc{}
	for _, r := range readings {
		key := interval.truncate(r.Timestamp)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.amps += r.MotorAmps
		g.temp += r.Temperature
		g.vib += r.Vibration
		g.count++
	}

	out := make([]Bucket, 0, len(groups))
	for ts, g := range groups {
		n := float64(g.count)
		out = append(out, Bucket{
			Timestamp:      ts,
			AvgAmps:        Round2(g.amps / n),
			AvgTemperature: Round2(g.temp / n),
			AvgVibration:   Round3(g.vib / n),
			Count:          g.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}
