package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/earthquake/repository/inmem"
	"github.com/L3pereira/ndgms/internal/model"
)

// markingRepo persists a mutated copy so tests can tell committed state
// apart from the in-flight entity.
type markingRepo struct {
	*inmem.Repository
}

func (r *markingRepo) Save(ctx context.Context, eq model.Earthquake) (string, error) {
	eq.MarkReviewed()
	return r.Repository.Save(ctx, eq)
}

// brokenFindRepo fails every FindByID.
type brokenFindRepo struct {
	*inmem.Repository
}

func (r *brokenFindRepo) FindByID(ctx context.Context, id string) (model.Earthquake, error) {
	return model.Earthquake{}, errors.New("connection reset")
}

func TestOrchestratorBroadcastsCommittedState(t *testing.T) {
	repo := &markingRepo{Repository: inmem.New()}
	notifier := &recordingNotifier{}
	uc := newTestUseCase(repo, &stubFeed{}, notifier, false)

	result := uc.Ingest(context.Background(), []earthquake.FeedRecord{
		feedRecord("us1", 4.0, time.Now().Add(-5*time.Minute)),
	})
	require.Equal(t, 1, result.NewEvents)

	// The notification reflects what was committed, not the in-flight
	// entity.
	require.Len(t, notifier.events, 1)
	assert.True(t, notifier.events[0].Reviewed)
}

func TestOrchestratorFallsBackToInFlightState(t *testing.T) {
	repo := &brokenFindRepo{Repository: inmem.New()}
	notifier := &recordingNotifier{}
	uc := newTestUseCase(repo, &stubFeed{}, notifier, false)

	result := uc.Ingest(context.Background(), []earthquake.FeedRecord{
		feedRecord("us1", 4.0, time.Now().Add(-5*time.Minute)),
	})

	// A failed re-fetch degrades the payload, never drops the event.
	require.Equal(t, 1, result.NewEvents)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, "us1", notifier.events[0].ExternalID)
}

func TestOrchestratorAlertsForSignificantNearPopulated(t *testing.T) {
	repo := inmem.New()
	notifier := &recordingNotifier{}
	uc := newTestUseCase(repo, &stubFeed{}, notifier, true)

	rec := feedRecord("us-big", 6.0, time.Now().Add(-5*time.Minute))
	rec.DepthKm = 10

	result := uc.Ingest(context.Background(), []earthquake.FeedRecord{rec})
	require.Equal(t, 1, result.NewEvents)

	require.Len(t, notifier.alerts, 1)
	alert := notifier.alerts[0]
	assert.Equal(t, "us-big", alert.Event.ExternalID)
	assert.True(t, alert.RequiresImmediateResponse)

	// radius = magnitude * 20 * max(0.1, 1 - depth/100)
	assert.InDelta(t, 6.0*20*0.9, alert.AffectedRadiusKm, 1e-9)
}

func TestOrchestratorNoAlertWhenFarFromPopulation(t *testing.T) {
	repo := inmem.New()
	notifier := &recordingNotifier{}
	uc := newTestUseCase(repo, &stubFeed{}, notifier, false)

	result := uc.Ingest(context.Background(), []earthquake.FeedRecord{
		feedRecord("us-big", 6.0, time.Now().Add(-5*time.Minute)),
	})
	require.Equal(t, 1, result.NewEvents)

	assert.Len(t, notifier.events, 1)
	assert.Empty(t, notifier.alerts)
}

func TestOrchestratorNoAlertBelowSignificance(t *testing.T) {
	repo := inmem.New()
	notifier := &recordingNotifier{}
	uc := newTestUseCase(repo, &stubFeed{}, notifier, true)

	result := uc.Ingest(context.Background(), []earthquake.FeedRecord{
		feedRecord("us-small", 4.9, time.Now().Add(-5*time.Minute)),
	})
	require.Equal(t, 1, result.NewEvents)

	assert.Len(t, notifier.events, 1)
	assert.Empty(t, notifier.alerts)
}
