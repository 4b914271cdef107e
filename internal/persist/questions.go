package persist

import (
	"context"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/store"
)

// QuestionsCache holds the user's last-edited question set. Its lifetime is
// independent of the progress ledger: a user may discard quiz progress and
// still want the edited set back.
type QuestionsCache struct {
	store  *store.Adapter
	maxAge time.Duration
	now    func() time.Time
}

func NewQuestionsCache(s *store.Adapter, maxAge time.Duration) *QuestionsCache {
	return NewQuestionsCacheWithClock(s, maxAge, time.Now)
}

// NewQuestionsCacheWithClock allows deterministic timestamps in tests.
func NewQuestionsCacheWithClock(s *store.Adapter, maxAge time.Duration, now func() time.Time) *QuestionsCache {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &QuestionsCache{store: s, maxAge: maxAge, now: now}
}

func (c *QuestionsCache) Save(ctx context.Context, questions []domain.Question, fileName string) bool {
	return c.store.Set(ctx, QuestionsKey, domain.StoredQuestions{
		Questions: questions,
		FileName:  fileName,
		Timestamp: c.now().UnixMilli(),
	})
}

func (c *QuestionsCache) Load(ctx context.Context) (domain.StoredQuestions, bool) {
	var saved domain.StoredQuestions
	ok := c.store.Get(ctx, QuestionsKey, &saved)
	return saved, ok
}

func (c *QuestionsCache) Clear(ctx context.Context) bool {
	return c.store.Remove(ctx, QuestionsKey)
}

// Stale reports whether the saved set is older than the recovery window.
func (c *QuestionsCache) Stale(saved domain.StoredQuestions) bool {
	return IsStale(saved.Timestamp, c.maxAge, c.now())
}
