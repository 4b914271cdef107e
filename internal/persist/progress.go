package persist

import (
	"context"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/store"
)

// ProgressLedger holds the single in-flight quiz snapshot. Every save is a
// last-write-wins overwrite of the whole slot.
type ProgressLedger struct {
	store  *store.Adapter
	maxAge time.Duration
	now    func() time.Time
}

func NewProgressLedger(s *store.Adapter, maxAge time.Duration) *ProgressLedger {
	return NewProgressLedgerWithClock(s, maxAge, time.Now)
}

// NewProgressLedgerWithClock allows deterministic timestamps in tests.
func NewProgressLedgerWithClock(s *store.Adapter, maxAge time.Duration, now func() time.Time) *ProgressLedger {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &ProgressLedger{store: s, maxAge: maxAge, now: now}
}

// Save stamps the snapshot with the current instant and overwrites the slot.
func (l *ProgressLedger) Save(ctx context.Context, snap domain.StoredProgress) bool {
	snap.Timestamp = l.now().UnixMilli()
	return l.store.Set(ctx, ProgressKey, snap)
}

// Load returns the raw snapshot; callers check staleness separately.
func (l *ProgressLedger) Load(ctx context.Context) (domain.StoredProgress, bool) {
	var snap domain.StoredProgress
	ok := l.store.Get(ctx, ProgressKey, &snap)
	return snap, ok
}

func (l *ProgressLedger) Clear(ctx context.Context) bool {
	return l.store.Remove(ctx, ProgressKey)
}

// Stale reports whether the snapshot is too old to auto-resume.
func (l *ProgressLedger) Stale(snap domain.StoredProgress) bool {
	return IsStale(snap.Timestamp, l.maxAge, l.now())
}
