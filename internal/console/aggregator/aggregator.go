package aggregator

import (
	"context"
	"sync"
	"time"

	"toolwatch/pkg/logger"
)

// State names the aggregator lifecycle phase.
type State string

const (
	// StateIdle means no fetch has been attempted yet.
	StateIdle State = "idle"
	// StateLoading means a fetch is in flight.
	StateLoading State = "loading"
	// StateReady means the last applied fetch succeeded.
	StateReady State = "ready"
	// StateError means the last applied fetch failed. The record set from
	// the previous successful fetch is retained.
	StateError State = "error"
)

// DefaultFetchLimit bounds a fetch when the caller does not give a
// positive limit.
const DefaultFetchLimit = 100

// Aggregator owns one console session's record set and filter criteria.
// Each successful fetch replaces the record set wholesale; filter criteria
// persist across fetches until changed; statistics always derive from the
// full set. Methods are safe for concurrent use, which the watch loop
// relies on.
type Aggregator struct {
	client Client
	log    *logger.Logger

	mu          sync.Mutex
	records     []Record
	criteria    FilterCriteria
	state       State
	lastErr     error
	lastFetched time.Time
	seq         uint64
}

// New creates an aggregator that loads records through client.
func New(client Client, log *logger.Logger) *Aggregator {
	return &Aggregator{
		client: client,
		log:    log,
		state:  StateIdle,
	}
}

// Fetch replaces the record set with up to limit records from the platform
// API. On failure the previous record set is left untouched, the state
// moves to StateError and a *FetchError is returned; there is no automatic
// retry. When a newer fetch was issued while this one was in flight, the
// stale response is discarded and ErrFetchSuperseded is returned.
func (a *Aggregator) Fetch(ctx context.Context, limit int) error {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	a.mu.Lock()
	a.seq++
	seq := a.seq
	a.state = StateLoading
	a.mu.Unlock()

	records, err := a.client.FetchExecutions(ctx, limit)

	a.mu.Lock()
	defer a.mu.Unlock()

	if seq != a.seq {
		// A newer fetch owns the state now.
		a.log.DebugContext(ctx, "Discarding superseded fetch response")
		return ErrFetchSuperseded
	}

	if err != nil {
		a.state = StateError
		a.lastErr = err
		return err
	}

	a.records = records
	a.state = StateReady
	a.lastErr = nil
	a.lastFetched = time.Now()
	return nil
}

// Records returns a copy of the full record set in fetch order.
func (a *Aggregator) Records() []Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Record, len(a.records))
	copy(out, a.records)
	return out
}

// SetCriteria replaces the session filter criteria. Criteria survive
// fetches and only change through this method or ClearCriteria.
func (a *Aggregator) SetCriteria(criteria FilterCriteria) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.criteria = criteria
}

// ClearCriteria resets every filter predicate.
func (a *Aggregator) ClearCriteria() {
	a.SetCriteria(FilterCriteria{})
}

// Criteria returns the session filter criteria.
func (a *Aggregator) Criteria() FilterCriteria {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.criteria
}

// Filtered returns the records passing the session criteria in fetch
// order.
func (a *Aggregator) Filtered() []Record {
	a.mu.Lock()
	records := a.records
	criteria := a.criteria
	a.mu.Unlock()

	return ApplyFilters(records, criteria)
}

// Statistics derives summary statistics from the full record set. The
// session filter never narrows the summary.
func (a *Aggregator) Statistics() Statistics {
	a.mu.Lock()
	records := a.records
	a.mu.Unlock()

	return ComputeStatistics(records)
}

// State returns the lifecycle state.
func (a *Aggregator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Err returns the error from the most recent applied fetch, nil after a
// success.
func (a *Aggregator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// LastFetched returns when the current record set was loaded, zero before
// the first successful fetch.
func (a *Aggregator) LastFetched() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastFetched
}
