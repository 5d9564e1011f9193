// Package health tracks per-dependency reachability for the lifetime of the
// process. Records are never persisted; a fresh process starts optimistic.
package health

import (
	"sync"
	"time"
)

// Status is the most recently observed reachability of one dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// Record is the cached observation for one dependency name.
type Record struct {
	Name          string    `json:"name"`
	Status        Status    `json:"status"`
	LastCheckedAt time.Time `json:"lastCheckedAt"`
}

// Tracker caches one Record per dependency name. Writes are whole-slot
// replacements with last-write-wins semantics: there is no read-modify-write,
// so concurrent recorders at worst cost one redundant probe, never a
// correctness violation.
type Tracker struct {
	window  time.Duration
	now     func() time.Time
	records sync.Map // name -> Record
}

// New creates a tracker with the given revalidation window.
func New(window time.Duration) *Tracker {
	return NewWithClock(window, time.Now)
}

// NewWithClock creates a tracker with an injected clock, so tests control age.
func NewWithClock(window time.Duration, now func() time.Time) *Tracker {
	return &Tracker{window: window, now: now}
}

// ShouldAttempt reports whether calling the dependency is worthwhile.
// A missing record means an optimistic first try. A record at or past the
// revalidation window is stale and always re-probed, whatever its status.
// Only a fresh unhealthy verdict short-circuits the attempt.
func (t *Tracker) ShouldAttempt(name string) bool {
	v, ok := t.records.Load(name)
	if !ok {
		return true
	}
	rec := v.(Record)
	if t.now().Sub(rec.LastCheckedAt) >= t.window {
		return true
	}
	return rec.Status != StatusUnhealthy
}

// RecordOutcome overwrites the dependency's slot with the outcome of a
// completed attempt, stamped with the tracker clock. Cancelled-in-flight
// attempts must not be recorded; that is the caller's responsibility.
func (t *Tracker) RecordOutcome(name string, status Status) {
	t.records.Store(name, Record{
		Name:          name,
		Status:        status,
		LastCheckedAt: t.now(),
	})
}

// CurrentStatus returns a read-only snapshot of one dependency's status.
func (t *Tracker) CurrentStatus(name string) Status {
	v, ok := t.records.Load(name)
	if !ok {
		return StatusUnknown
	}
	return v.(Record).Status
}

// Snapshot returns a copy of every record, for the health endpoint.
func (t *Tracker) Snapshot() []Record {
	var out []Record
	t.records.Range(func(_, v interface{}) bool {
		out = append(out, v.(Record))
		return true
	})
	return out
}
