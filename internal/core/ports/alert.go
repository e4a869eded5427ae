package ports

import (
	"context"

	"github.com/crisisnet/disasterhub/internal/core/domain/disaster"
)

// AlertService sends out-of-band notifications for high-impact disasters.
// Sending is fire-and-forget: failures are logged, never propagated to the
// request that triggered them.
type AlertService interface {
	SendDisasterAlert(ctx context.Context, d *disaster.Disaster) error
}
