package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/L3pereira/ndgms/internal/earthquake"
	"github.com/L3pereira/ndgms/internal/observability"
	"github.com/L3pereira/ndgms/pkg/log"
)

// IngestionJobID is the id of the periodic feed ingestion job.
const IngestionJobID = "earthquake_ingestion"

// Service wires the periodic ingestion job into a Scheduler.
type Service struct {
	l         log.Logger
	scheduler Scheduler
	uc        earthquake.UseCase
	metrics   *observability.Metrics

	interval     time.Duration
	misfireGrace time.Duration

	mu        sync.Mutex
	jobsAdded bool
}

// NewService creates the scheduling service for the ingestion pipeline.
func NewService(l log.Logger, scheduler Scheduler, uc earthquake.UseCase, metrics *observability.Metrics, interval, misfireGrace time.Duration) *Service {
	return &Service{
		l:            l,
		scheduler:    scheduler,
		uc:           uc,
		metrics:      metrics,
		interval:     interval,
		misfireGrace: misfireGrace,
	}
}

// Setup registers the ingestion job. Calling it again is a no-op, so
// restarts of the surrounding lifecycle never register the job twice.
func (s *Service) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jobsAdded {
		s.l.Debug(context.Background(), "Ingestion job already registered, skipping setup")
		return nil
	}

	err := s.scheduler.AddJob(Job{
		ID:           IngestionJobID,
		Interval:     s.interval,
		MisfireGrace: s.misfireGrace,
		Fn:           s.runIngestion,
	})
	if err != nil {
		s.l.Errorf(context.Background(), "internal.scheduler.service.Setup.AddJob: %v", err)
		return err
	}

	s.jobsAdded = true
	return nil
}

// Start launches the scheduler loops.
func (s *Service) Start() {
	s.scheduler.Start()
}

// Stop shuts the scheduler down.
func (s *Service) Stop(ctx context.Context) error {
	return s.scheduler.Stop(ctx)
}

func (s *Service) runIngestion(ctx context.Context) {
	result, err := s.uc.RunScheduledIngestion(ctx)
	if err != nil {
		s.metrics.IngestionRuns.WithLabelValues("scheduled", "error").Inc()
		s.l.Errorf(ctx, "internal.scheduler.service.runIngestion.RunScheduledIngestion: %v", err)
		return
	}
	s.metrics.IngestionRuns.WithLabelValues("scheduled", "ok").Inc()

	s.l.Infof(ctx, "Scheduled ingestion finished: fetched=%d new=%d duplicates=%d errors=%d",
		result.TotalFetched, result.NewEvents, result.Duplicates, result.Errors)
}
