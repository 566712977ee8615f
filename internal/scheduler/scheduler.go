package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/L3pereira/ndgms/internal/observability"
	"github.com/L3pereira/ndgms/pkg/log"
)

var (
	ErrJobExists   = errors.New("job already registered")
	ErrJobNotFound = errors.New("job not found")
)

// implScheduler implements Scheduler on top of per-job timer loops.
type implScheduler struct {
	l       log.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock

	mu      sync.Mutex
	jobs    map[string]*jobState
	started bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type jobState struct {
	job    Job
	cancel context.CancelFunc

	mu     sync.Mutex
	status JobStatus
}

// New creates a scheduler. A nil clock defaults to the real clock.
func New(l log.Logger, metrics *observability.Metrics, clock clockwork.Clock) Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &implScheduler{
		l:       l,
		metrics: metrics,
		clock:   clock,
		jobs:    make(map[string]*jobState),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *implScheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return ErrJobExists
	}

	st := &jobState{
		job: job,
		status: JobStatus{
			ID:       job.ID,
			Interval: job.Interval,
		},
	}
	s.jobs[job.ID] = st

	if s.started {
		s.launchLocked(st)
	}

	s.l.Infof(context.Background(), "Job registered: %s (interval: %s)", job.ID, job.Interval)
	return nil
}

func (s *implScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, st := range s.jobs {
		s.launchLocked(st)
	}

	s.l.Infof(context.Background(), "Scheduler started with %d job(s)", len(s.jobs))
}

func (s *implScheduler) Stop(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.l.Info(context.Background(), "Scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *implScheduler) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, exists := s.jobs[id]
	if !exists {
		return ErrJobNotFound
	}

	if st.cancel != nil {
		st.cancel()
	}
	delete(s.jobs, id)

	s.l.Infof(context.Background(), "Job removed: %s", id)
	return nil
}

func (s *implScheduler) Status(id string) (JobStatus, error) {
	s.mu.Lock()
	st, exists := s.jobs[id]
	s.mu.Unlock()

	if !exists {
		return JobStatus{}, ErrJobNotFound
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return st.status, nil
}

func (s *implScheduler) List() []JobStatus {
	s.mu.Lock()
	states := make([]*jobState, 0, len(s.jobs))
	for _, st := range s.jobs {
		states = append(states, st)
	}
	s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(states))
	for _, st := range states {
		st.mu.Lock()
		statuses = append(statuses, st.status)
		st.mu.Unlock()
	}
	return statuses
}

// launchLocked starts a job's run loop. Must be called with the
// scheduler lock held.
func (s *implScheduler) launchLocked(st *jobState) {
	ctx, cancel := context.WithCancel(s.ctx)
	st.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx, st)
}

// runLoop drives one job. The loop is serial: a fire that arrives while
// the previous run is still executing waits, and all fires missed
// during a long run collapse into a single next fire.
func (s *implScheduler) runLoop(ctx context.Context, st *jobState) {
	defer s.wg.Done()

	next := s.clock.Now().Add(st.job.Interval)
	st.setNextRun(next)

	timer := s.clock.NewTimer(st.job.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-timer.Chan():
			now := s.clock.Now()
			lateness := now.Sub(next)

			if st.job.MisfireGrace > 0 && lateness > st.job.MisfireGrace {
				st.recordMissedFire()
				s.metrics.MissedFires.Inc()
				s.l.Warnf(ctx, "Job %s missed its fire time by %s (grace %s), skipping run",
					st.job.ID, lateness, st.job.MisfireGrace)
			} else {
				s.execute(ctx, st)
			}

			// Advance past now in whole intervals so fires that queued up
			// behind a long run collapse into one.
			now = s.clock.Now()
			for !next.After(now) {
				next = next.Add(st.job.Interval)
			}
			st.setNextRun(next)
			timer.Reset(next.Sub(now))
		}
	}
}

// execute runs the job once, recovering from panics so a bad run never
// kills the loop.
func (s *implScheduler) execute(ctx context.Context, st *jobState) {
	defer func() {
		if r := recover(); r != nil {
			s.l.Errorf(ctx, "internal.scheduler.scheduler.execute.Recover: job %s panicked: %v", st.job.ID, r)
		}
		st.setRunning(false)
	}()

	st.setRunning(true)
	st.recordRun(s.clock.Now())

	st.job.Fn(ctx)
}

func (st *jobState) setNextRun(t time.Time) {
	st.mu.Lock()
	st.status.NextRun = t
	st.mu.Unlock()
}

func (st *jobState) setRunning(running bool) {
	st.mu.Lock()
	st.status.Running = running
	st.mu.Unlock()
}

func (st *jobState) recordRun(t time.Time) {
	st.mu.Lock()
	st.status.LastRun = t
	st.status.Runs++
	st.mu.Unlock()
}

func (st *jobState) recordMissedFire() {
	st.mu.Lock()
	st.status.MissedFires++
	st.mu.Unlock()
}
