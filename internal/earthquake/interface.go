package earthquake

import (
	"context"

	"github.com/L3pereira/ndgms/internal/model"
)

// UseCase is the ingestion and event-orchestration surface of the
// earthquake domain.
//
//go:generate mockery --name UseCase
type UseCase interface {
	// Ingest dedupes, persists, and orchestrates notifications for a
	// batch of raw feed records. Per-record failures are counted in the
	// result, never returned.
	Ingest(ctx context.Context, records []FeedRecord) IngestionResult

	// RunScheduledIngestion pulls recent records from the external feed
	// using the configured period and magnitude filter, then ingests
	// them. A fetch failure yields a zero result and an error.
	RunScheduledIngestion(ctx context.Context) (IngestionResult, error)
}

// Feed is the external feed port: it fetches raw earthquake records for
// a period and minimum-magnitude filter.
//
//go:generate mockery --name Feed
type Feed interface {
	FetchRecent(ctx context.Context, period string, minMagnitude float64) ([]FeedRecord, error)
}

// Notifier receives orchestrated notifications, one method per
// notification kind. The WebSocket broadcaster implements it.
//
//go:generate mockery --name Notifier
type Notifier interface {
	// NotifyEventDetected is invoked for every newly persisted earthquake.
	NotifyEventDetected(ctx context.Context, eq model.Earthquake)

	// NotifyHighSeverityAlert is invoked for significant earthquakes near
	// populated areas.
	NotifyHighSeverityAlert(ctx context.Context, alert HighSeverityAlert)
}

// HighSeverityAlert carries the computed alert payload for a
// significant earthquake.
type HighSeverityAlert struct {
	Event                     model.Earthquake
	AffectedRadiusKm          float64
	RequiresImmediateResponse bool
}
