package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/L3pereira/ndgms/internal/earthquake/repository"
	"github.com/L3pereira/ndgms/internal/model"
)

func storedQuake(t *testing.T, externalID string, magnitude float64, occurredAt time.Time) model.Earthquake {
	t.Helper()

	loc, err := model.NewLocation(35.68, 139.65, 10)
	require.NoError(t, err)
	mag, err := model.NewMagnitude(magnitude, model.ScaleMoment)
	require.NoError(t, err)
	eq, err := model.NewEarthquake(loc, mag, occurredAt, "USGS")
	require.NoError(t, err)

	eq.ExternalID = externalID
	return eq
}

func TestSaveAndFindByID(t *testing.T) {
	repo := New()
	ctx := context.Background()

	eq := storedQuake(t, "us1", 5.0, time.Now().Add(-time.Hour))
	id, err := repo.Save(ctx, eq)
	require.NoError(t, err)
	assert.Equal(t, eq.ID, id)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, eq.ExternalID, got.ExternalID)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExistsByExternalID(t *testing.T) {
	repo := New()
	ctx := context.Background()

	_, err := repo.Save(ctx, storedQuake(t, "us1", 5.0, time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	exists, err := repo.ExistsByExternalID(ctx, "us1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByExternalID(ctx, "us2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFindByMagnitudeRange(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now()

	for i, mag := range []float64{2.0, 4.0, 6.0} {
		eq := storedQuake(t, "us"+string(rune('a'+i)), mag, now.Add(-time.Duration(i+1)*time.Hour))
		_, err := repo.Save(ctx, eq)
		require.NoError(t, err)
	}

	maxMag := 5.0
	out, err := repo.FindByMagnitudeRange(ctx, repository.MagnitudeRangeOptions{
		MinMagnitude: 3.0,
		MaxMagnitude: &maxMag,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 4.0, out[0].Magnitude.Value)

	// Newest first, limited.
	out, err = repo.FindByMagnitudeRange(ctx, repository.MagnitudeRangeOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].OccurredAt.After(out[1].OccurredAt))
}

func TestFindByTimeRange(t *testing.T) {
	repo := New()
	ctx := context.Background()
	now := time.Now()

	old := storedQuake(t, "old", 5.0, now.Add(-48*time.Hour))
	recent := storedQuake(t, "recent", 5.0, now.Add(-time.Hour))
	for _, eq := range []model.Earthquake{old, recent} {
		_, err := repo.Save(ctx, eq)
		require.NoError(t, err)
	}

	out, err := repo.FindByTimeRange(ctx, now.Add(-2*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "recent", out[0].ExternalID)
}
