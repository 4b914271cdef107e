package persist

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/store"
)

// HistoryArchive is an append-biased, capacity-bounded log of completed
// quizzes, most recent first. Entries are immutable once written; the only
// mutation is removal.
type HistoryArchive struct {
	store *store.Adapter
	cap   int
	now   func() time.Time
	rnd   *rand.Rand
}

func NewHistoryArchive(s *store.Adapter, cap int) *HistoryArchive {
	return NewHistoryArchiveWithClock(s, cap, time.Now)
}

// NewHistoryArchiveWithClock allows deterministic timestamps in tests.
func NewHistoryArchiveWithClock(s *store.Adapter, cap int, now func() time.Time) *HistoryArchive {
	if cap <= 0 {
		cap = DefaultHistoryCap
	}
	return &HistoryArchive{
		store: s,
		cap:   cap,
		now:   now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Append records a completed quiz, prepending it and truncating the log to
// the configured cap.
func (h *HistoryArchive) Append(ctx context.Context, questions []domain.Question, score int, fileName string) (domain.HistoryEntry, bool) {
	total := len(questions)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(score) / float64(total) * 100))
	}

	now := h.now()
	entry := domain.HistoryEntry{
		ID:             h.newID(now),
		FileName:       fileName,
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		CompletedAt:    now.UnixMilli(),
		Questions:      domain.CloneQuestions(questions),
	}

	updated := append([]domain.HistoryEntry{entry}, h.List(ctx)...)
	if len(updated) > h.cap {
		updated = updated[:h.cap]
	}
	return entry, h.store.Set(ctx, HistoryKey, updated)
}

// List returns the archive, most recent first. An absent slot is an empty list.
func (h *HistoryArchive) List(ctx context.Context) []domain.HistoryEntry {
	var entries []domain.HistoryEntry
	if !h.store.Get(ctx, HistoryKey, &entries) {
		return nil
	}
	return entries
}

// Remove filters the id out of the archive. Removing an unknown id is a no-op.
func (h *HistoryArchive) Remove(ctx context.Context, id string) bool {
	entries := h.List(ctx)
	filtered := make([]domain.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			filtered = append(filtered, e)
		}
	}
	return h.store.Set(ctx, HistoryKey, filtered)
}

// newID builds a time-based id with a random base36 suffix. Not
// cryptographically unique, but collisions are negligible at this scale.
func (h *HistoryArchive) newID(now time.Time) string {
	suffix := strconv.FormatInt(h.rnd.Int63(), 36)
	if len(suffix) > 9 {
		suffix = suffix[:9]
	}
	return fmt.Sprintf("quiz_%d_%s", now.UnixMilli(), suffix)
}
