package inmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/L3pereira/ndgms/internal/earthquake/repository"
	"github.com/L3pereira/ndgms/internal/model"
)

// Repository is an in-memory earthquake store. It backs the service
// when no Postgres DSN is configured and doubles as a test fixture.
type Repository struct {
	mu          sync.RWMutex
	byID        map[string]model.Earthquake
	externalIDs map[string]string // external id -> earthquake id
}

// New creates an empty in-memory repository.
func New() *Repository {
	return &Repository{
		byID:        make(map[string]model.Earthquake),
		externalIDs: make(map[string]string),
	}
}

func (r *Repository) Save(_ context.Context, eq model.Earthquake) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[eq.ID] = eq
	if eq.ExternalID != "" {
		r.externalIDs[eq.ExternalID] = eq.ID
	}
	return eq.ID, nil
}

func (r *Repository) FindByID(_ context.Context, id string) (model.Earthquake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eq, ok := r.byID[id]
	if !ok {
		return model.Earthquake{}, repository.ErrNotFound
	}
	return eq, nil
}

func (r *Repository) ExistsByExternalID(_ context.Context, externalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.externalIDs[externalID]
	return ok, nil
}

func (r *Repository) FindByTimeRange(_ context.Context, start, end time.Time) ([]model.Earthquake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Earthquake
	for _, eq := range r.byID {
		if !eq.OccurredAt.Before(start) && !eq.OccurredAt.After(end) {
			out = append(out, eq)
		}
	}
	sortByOccurrence(out)
	return out, nil
}

func (r *Repository) FindByMagnitudeRange(_ context.Context, opts repository.MagnitudeRangeOptions) ([]model.Earthquake, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Earthquake
	for _, eq := range r.byID {
		if eq.Magnitude.Value < opts.MinMagnitude {
			continue
		}
		if opts.MaxMagnitude != nil && eq.Magnitude.Value > *opts.MaxMagnitude {
			continue
		}
		if opts.Start != nil && eq.OccurredAt.Before(*opts.Start) {
			continue
		}
		if opts.End != nil && eq.OccurredAt.After(*opts.End) {
			continue
		}
		out = append(out, eq)
	}
	sortByOccurrence(out)

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// sortByOccurrence orders newest first, matching the Postgres adapter.
func sortByOccurrence(events []model.Earthquake) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].OccurredAt.After(events[j].OccurredAt)
	})
}
