package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/model"
)

// Ingest dedupes incoming raw records against persisted state by
// external id, persists the new ones, and drives the orchestrator for
// each newly persisted earthquake. One bad record never aborts the
// batch.
func (uc *implUseCase) Ingest(ctx context.Context, records []earthquake.FeedRecord) earthquake.IngestionResult {
	result := earthquake.IngestionResult{TotalFetched: len(records)}

	uc.logger.Infof(ctx, "Starting ingestion of %d records", len(records))

	for _, rec := range records {
		if err := uc.ingestOne(ctx, rec, &result); err != nil {
			result.Errors++
			uc.metrics.IngestionErrors.Inc()
			uc.logger.Errorf(ctx, "Error ingesting record %s: %v", rec.ExternalID, err)
		}
	}

	uc.logger.Infof(ctx, "Ingestion completed: %d new, %d duplicates, %d errors",
		result.NewEvents, result.Duplicates, result.Errors)

	return result
}

func (uc *implUseCase) ingestOne(ctx context.Context, rec earthquake.FeedRecord, result *earthquake.IngestionResult) error {
	if rec.ExternalID == "" {
		return earthquake.ErrEmptyExternalID
	}

	exists, err := uc.repo.ExistsByExternalID(ctx, rec.ExternalID)
	if err != nil {
		return fmt.Errorf("existence check: %w", err)
	}
	if exists {
		// Re-ingesting the same feed window must not re-emit notifications.
		result.Duplicates++
		uc.metrics.EventsDuplicate.Inc()
		uc.logger.Debugf(ctx, "Record %s already persisted, skipping", rec.ExternalID)
		return nil
	}

	eq, err := mapRecord(rec)
	if err != nil {
		return fmt.Errorf("map record: %w", err)
	}

	id, err := uc.repo.Save(ctx, eq)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	result.NewEvents++
	result.CreatedIDs = append(result.CreatedIDs, id)
	uc.metrics.EventsIngested.Inc()

	uc.orchestrate(ctx, eq)
	return nil
}

// RunScheduledIngestion pulls recent records from the external feed and
// ingests them. Called by the scheduler and by the manual trigger
// endpoint.
func (uc *implUseCase) RunScheduledIngestion(ctx context.Context) (earthquake.IngestionResult, error) {
	fetchCtx := ctx
	if uc.params.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, uc.params.FetchTimeout)
		defer cancel()
	}

	start := time.Now()
	records, err := uc.feed.FetchRecent(fetchCtx, uc.params.Period, uc.params.MinMagnitude)
	if err != nil {
		uc.logger.Errorf(ctx, "Feed fetch failed: %v", err)
		return earthquake.IngestionResult{Errors: 1}, fmt.Errorf("%w: %v", earthquake.ErrFeedUnavailable, err)
	}

	if uc.params.MaxRecords > 0 && len(records) > uc.params.MaxRecords {
		records = records[:uc.params.MaxRecords]
	}

	result := uc.Ingest(ctx, records)
	uc.metrics.IngestionLatency.Observe(time.Since(start).Seconds())
	return result, nil
}

// mapRecord converts a raw feed record into a validated domain entity.
func mapRecord(rec earthquake.FeedRecord) (model.Earthquake, error) {
	loc, err := model.NewLocation(rec.Latitude, rec.Longitude, rec.DepthKm)
	if err != nil {
		return model.Earthquake{}, err
	}

	mag, err := model.NewMagnitude(rec.Magnitude, model.ScaleMoment)
	if err != nil {
		return model.Earthquake{}, err
	}

	eq, err := model.NewEarthquake(loc, mag, rec.OccurredAt, rec.Source)
	if err != nil {
		return model.Earthquake{}, err
	}

	eq.ExternalID = rec.ExternalID
	eq.Title = rec.Title
	return eq, nil
}
