package usecase

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/L3pereira/ndgms/internal/model"
)

// Rejection reasons, used as metric labels.
const (
	reasonMagnitude = "magnitude"
	reasonAge       = "age"
	reasonThrottle  = "throttle"
	reasonRateLimit = "rate_limit"
)

// alertMinMagnitude is the fixed, lower threshold for alert broadcasts.
// Alerts are best-effort wide delivery: they skip the age, throttle,
// and rate-limit filters.
const alertMinMagnitude = 4.0

// bucketRetentionMinutes is how many minute buckets behind the current
// one are kept before lazy pruning.
const bucketRetentionMinutes = 2

// FilterConfig holds the per-subscriber admission thresholds.
type FilterConfig struct {
	MinMagnitude     float64
	MaxAge           time.Duration
	ThrottleInterval time.Duration
	MaxPerMinute     int
}

// DefaultFilterConfig returns the reference thresholds.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinMagnitude:     2.0,
		MaxAge:           60 * time.Minute,
		ThrottleInterval: 5 * time.Second,
		MaxPerMinute:     10,
	}
}

// subscriberState tracks admissions for one subscriber. Created on the
// first admission decision, destroyed on disconnect.
type subscriberState struct {
	lastAdmitted time.Time
	// minute bucket (unix epoch minutes) -> admissions in that minute
	buckets map[int64]int
}

// BroadcastFilter decides, per (event, subscriber) pair, whether a
// notification is admitted. Checks run cheapest-first and short-circuit;
// tracking state is committed only when every check passes.
type BroadcastFilter struct {
	mu    sync.Mutex
	cfg   FilterConfig
	clock clockwork.Clock
	state map[string]*subscriberState
}

// NewBroadcastFilter creates a filter with the given thresholds. A nil
// clock defaults to the real clock; tests inject a fake.
func NewBroadcastFilter(cfg FilterConfig, clock clockwork.Clock) *BroadcastFilter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &BroadcastFilter{
		cfg:   cfg,
		clock: clock,
		state: make(map[string]*subscriberState),
	}
}

// ShouldBroadcastEvent runs the full admission chain for a standard
// event notification. It returns the decision and, when rejected, the
// reason.
func (f *BroadcastFilter) ShouldBroadcastEvent(eq model.Earthquake, subscriberID string) (bool, string) {
	now := f.clock.Now()

	if eq.Magnitude.Value < f.cfg.MinMagnitude {
		return false, reasonMagnitude
	}
	if now.Sub(eq.OccurredAt) > f.cfg.MaxAge {
		return false, reasonAge
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.stateLocked(subscriberID)

	if !st.lastAdmitted.IsZero() && now.Sub(st.lastAdmitted) < f.cfg.ThrottleInterval {
		return false, reasonThrottle
	}

	minute := now.Unix() / 60
	f.pruneLocked(st, minute)
	if st.buckets[minute] >= f.cfg.MaxPerMinute {
		return false, reasonRateLimit
	}

	// All checks passed: commit exactly once.
	st.lastAdmitted = now
	st.buckets[minute]++
	return true, ""
}

// ShouldBroadcastAlert runs the relaxed admission chain for a
// high-severity alert: only the fixed magnitude floor applies, but an
// admitted alert still counts toward the subscriber's tracking state.
func (f *BroadcastFilter) ShouldBroadcastAlert(eq model.Earthquake, subscriberID string) (bool, string) {
	if eq.Magnitude.Value < alertMinMagnitude {
		return false, reasonMagnitude
	}

	now := f.clock.Now()

	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.stateLocked(subscriberID)
	minute := now.Unix() / 60
	f.pruneLocked(st, minute)

	st.lastAdmitted = now
	st.buckets[minute]++
	return true, ""
}

// Forget drops all tracking state for a subscriber.
func (f *BroadcastFilter) Forget(subscriberID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.state, subscriberID)
}

// Reset clears all tracking state.
func (f *BroadcastFilter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = make(map[string]*subscriberState)
}

// FilterStats is a monitoring snapshot of the filter.
type FilterStats struct {
	Config            FilterConfig `json:"config"`
	ActiveSubscribers int          `json:"active_subscribers"`
	BucketEntries     int          `json:"bucket_entries"`
}

// Stats returns current filter statistics.
func (f *BroadcastFilter) Stats() FilterStats {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := 0
	for _, st := range f.state {
		entries += len(st.buckets)
	}
	return FilterStats{
		Config:            f.cfg,
		ActiveSubscribers: len(f.state),
		BucketEntries:     entries,
	}
}

func (f *BroadcastFilter) stateLocked(subscriberID string) *subscriberState {
	st, ok := f.state[subscriberID]
	if !ok {
		st = &subscriberState{buckets: make(map[int64]int)}
		f.state[subscriberID] = st
	}
	return st
}

// pruneLocked lazily drops buckets older than the retention window so
// memory stays bounded without a background sweep.
func (f *BroadcastFilter) pruneLocked(st *subscriberState, currentMinute int64) {
	for minute := range st.buckets {
		if minute < currentMinute-bucketRetentionMinutes {
			delete(st.buckets, minute)
		}
	}
}
