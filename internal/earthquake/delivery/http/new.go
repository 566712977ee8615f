package http

import (
	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/earthquake/repository"
	"github.com/L3pereira/ndgms/internal/observability"
	"github.com/L3pereira/ndgms/pkg/log"
)

// Handler exposes the ingestion trigger and earthquake query endpoints.
type Handler struct {
	uc      earthquake.UseCase
	repo    repository.Repository
	logger  log.Logger
	metrics *observability.Metrics
}

func New(uc earthquake.UseCase, repo repository.Repository, logger log.Logger, metrics *observability.Metrics) *Handler {
	return &Handler{
		uc:      uc,
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}
