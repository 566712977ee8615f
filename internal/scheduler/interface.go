package scheduler

import (
	"context"
	"time"
)

// Scheduler runs registered jobs at fixed intervals. Each job runs in
// its own serial loop, so at most one instance of a job executes at a
// time; fires that queue up behind a long run are coalesced into one.
//
//go:generate mockery --name Scheduler
type Scheduler interface {
	// AddJob registers a job. Adding an id twice is an error.
	AddJob(job Job) error

	// Start launches the run loops of all registered jobs. Idempotent.
	Start()

	// Stop cancels all run loops and waits for in-flight runs to finish
	// or the context to expire.
	Stop(ctx context.Context) error

	// Remove unregisters a job and stops its loop.
	Remove(id string) error

	// Status reports one job's status.
	Status(id string) (JobStatus, error)

	// List reports the status of every registered job.
	List() []JobStatus
}

// Job is a unit of scheduled work.
type Job struct {
	ID       string
	Interval time.Duration

	// MisfireGrace bounds how late a fire may start. A fire delayed past
	// the grace window is skipped instead of executed. Zero disables the
	// check.
	MisfireGrace time.Duration

	Fn func(ctx context.Context)
}

// JobStatus is a snapshot of one job's execution state.
type JobStatus struct {
	ID           string        `json:"id"`
	Interval     time.Duration `json:"interval"`
	NextRun      time.Time     `json:"next_run"`
	LastRun      time.Time     `json:"last_run,omitempty"`
	Runs         int64         `json:"runs"`
	MissedFires  int64         `json:"missed_fires"`
	Running      bool          `json:"running"`
}
