package session

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry owns all in-progress generation flows, one record per user.
// Expiry is lazy: expired records are swept as a side effect of reads,
// never by a timer, so an expired record may hold its connection until
// the next registry access.
type Registry struct {
	mu      sync.Mutex
	records map[int64]*Record
	logger  *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		records: make(map[int64]*Record),
		logger:  logger,
	}
}

// Init creates a fresh record for the user in StepAPIID, replacing and
// releasing any record that already exists for them.
func (r *Registry) Init(userID int64) *Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()

	if old, ok := r.records[userID]; ok {
		r.release(old)
	}

	rec := &Record{
		UserID:    userID,
		Step:      StepAPIID,
		CreatedAt: time.Now(),
	}
	r.records[userID] = rec
	return rec
}

// Get returns the live record for the user, or nil. An expired record is
// released and removed before nil is returned.
func (r *Registry) Get(userID int64) *Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[userID]
	if !ok {
		return nil
	}
	if rec.Expired(time.Now()) {
		r.release(rec)
		delete(r.records, userID)
		return nil
	}
	return rec
}

// Update applies fn to the user's record under the registry lock. Returns
// false, without calling fn, when no live record exists.
func (r *Registry) Update(userID int64, fn func(*Record)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[userID]
	if !ok {
		return false
	}
	if rec.Expired(time.Now()) {
		r.release(rec)
		delete(r.records, userID)
		return false
	}
	fn(rec)
	return true
}

// Clear removes the user's record, releasing its connection if one is
// held. Returns whether a record existed. Idempotent.
func (r *Registry) Clear(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[userID]
	if !ok {
		return false
	}
	r.release(rec)
	delete(r.records, userID)
	return true
}

// CountActive returns the number of live records after sweeping expired ones.
func (r *Registry) CountActive() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()
	return len(r.records)
}

// Stats returns the number of live records and a per-step breakdown,
// after sweeping expired ones.
func (r *Registry) Stats() (int, map[Step]int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()

	byStep := make(map[Step]int)
	for _, rec := range r.records {
		byStep[rec.Step]++
	}
	return len(r.records), byStep
}

// sweepLocked drops every expired record. Caller holds r.mu.
func (r *Registry) sweepLocked() {
	now := time.Now()
	for userID, rec := range r.records {
		if rec.Expired(now) {
			r.logger.Info("Sweeping expired session record",
				zap.Int64("user_id", userID),
				zap.String("step", string(rec.Step)),
			)
			r.release(rec)
			delete(r.records, userID)
		}
	}
}

// release closes the record's connection if one is held. A failed
// disconnect is logged and swallowed: clearing must always succeed from
// the caller's point of view.
func (r *Registry) release(rec *Record) {
	if rec.Conn == nil {
		return
	}
	if err := rec.Conn.Close(); err != nil {
		r.logger.Warn("Failed to release session connection",
			zap.Int64("user_id", rec.UserID),
			zap.Error(err),
		)
	}
	rec.Conn = nil
}
