package usecase

import (
	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/earthquake/population"
	"github.com/L3pereira/ndgms/internal/earthquake/repository"
	"github.com/L3pereira/ndgms/internal/observability"
	"github.com/L3pereira/ndgms/pkg/log"
)

// implUseCase implements earthquake.UseCase.
type implUseCase struct {
	logger   log.Logger
	repo     repository.Repository
	feed     earthquake.Feed
	notifier earthquake.Notifier
	locator  population.Locator
	metrics  *observability.Metrics
	params   earthquake.IngestionParams
}

// New creates the earthquake ingestion/orchestration use case.
func New(
	logger log.Logger,
	repo repository.Repository,
	feed earthquake.Feed,
	notifier earthquake.Notifier,
	locator population.Locator,
	metrics *observability.Metrics,
	params earthquake.IngestionParams,
) earthquake.UseCase {
	return &implUseCase{
		logger:   logger,
		repo:     repo,
		feed:     feed,
		notifier: notifier,
		locator:  locator,
		metrics:  metrics,
		params:   params,
	}
}
