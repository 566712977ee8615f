package repository

import (
	"context"
	"errors"
	"time"

	"github.com/L3pereira/ndgms/internal/model"
)

// ErrNotFound is returned when no earthquake matches the given id.
var ErrNotFound = errors.New("earthquake not found")

// Repository is the persistence port for earthquakes.
//
//go:generate mockery --name Repository
type Repository interface {
	// Save persists the earthquake and returns its id.
	Save(ctx context.Context, eq model.Earthquake) (string, error)

	// FindByID returns the committed state of one earthquake, or ErrNotFound.
	FindByID(ctx context.Context, id string) (model.Earthquake, error)

	// ExistsByExternalID reports whether an earthquake with the given
	// external source id has already been persisted.
	ExistsByExternalID(ctx context.Context, externalID string) (bool, error)

	// FindByTimeRange returns earthquakes that occurred in [start, end].
	FindByTimeRange(ctx context.Context, start, end time.Time) ([]model.Earthquake, error)

	// FindByMagnitudeRange returns earthquakes filtered by magnitude and
	// optional time bounds.
	FindByMagnitudeRange(ctx context.Context, opts MagnitudeRangeOptions) ([]model.Earthquake, error)
}
