package notify

import (
	"context"

	"github.com/scadatwin/telemetry-engine/internal/analytics"
	"github.com/scadatwin/telemetry-engine/internal/domain"
)

// Notifier pushes a critical-health notification for a just-ingested reading.
// Delivery is best-effort; a failed notification never blocks ingestion.
type Notifier interface {
	CriticalAlert(ctx context.Context, r domain.Reading, report analytics.HealthReport) error
}

// Noop discards notifications. Used when no notification channel is
// configured.
type Noop struct{}

func (Noop) CriticalAlert(context.Context, domain.Reading, analytics.HealthReport) error {
	return nil
}
