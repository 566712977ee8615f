package usecase

import (
	"context"

	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/model"
)

// orchestrate turns a freshly persisted earthquake into the
// notification(s) to broadcast. The entity is re-fetched by id so the
// payload always reflects committed state, never the in-flight object.
func (uc *implUseCase) orchestrate(ctx context.Context, persisted model.Earthquake) {
	eq, err := uc.repo.FindByID(ctx, persisted.ID)
	if err != nil {
		// Losing a detected-earthquake notification is worse than sending a
		// possibly stale one, so fall back to the in-flight entity.
		uc.logger.Warnf(ctx, "Re-fetch of earthquake %s failed (%v), broadcasting in-flight state", persisted.ID, err)
		eq = persisted
	}

	uc.notifier.NotifyEventDetected(ctx, eq)

	if !eq.Magnitude.IsSignificant() {
		return
	}

	nearPopulated := uc.locator.IsNearPopulatedArea(eq.Location)
	if !nearPopulated {
		return
	}

	uc.notifier.NotifyHighSeverityAlert(ctx, earthquake.HighSeverityAlert{
		Event:                     eq,
		AffectedRadiusKm:          eq.AffectedRadiusKm(),
		RequiresImmediateResponse: eq.Magnitude.IsSignificant() && nearPopulated,
	})
}
