package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quizforge/internal/domain"
)

// SetLoader fetches a named question set from a backing store (e.g., Postgres).
type SetLoader interface {
	LoadSet(ctx context.Context, name string) ([]domain.Question, error)
}

// QuestionBank caches named question sets with TTL to avoid repeated DB hits.
type QuestionBank struct {
	loader SetLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedSet
}

type cachedSet struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionBank(loader SetLoader, ttl time.Duration) *QuestionBank {
	return &QuestionBank{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedSet),
	}
}

func (b *QuestionBank) GetSet(ctx context.Context, name string) ([]domain.Question, error) {
	now := b.clock()

	b.mu.RLock()
	if entry, ok := b.cache[name]; ok && entry.expiresAt.After(now) {
		b.mu.RUnlock()
		return domain.CloneQuestions(entry.questions), nil
	}
	b.mu.RUnlock()

	result, err, _ := b.sf.Do(name, func() (interface{}, error) {
		now := b.clock()
		b.mu.RLock()
		if entry, ok := b.cache[name]; ok && entry.expiresAt.After(now) {
			b.mu.RUnlock()
			return entry.questions, nil
		}
		b.mu.RUnlock()

		questions, err := b.loader.LoadSet(ctx, name)
		if err != nil {
			return nil, err
		}

		b.mu.Lock()
		b.cache[name] = cachedSet{
			questions: questions,
			expiresAt: now.Add(b.ttlWithJitter()),
		}
		b.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return domain.CloneQuestions(result.([]domain.Question)), nil
}

func (b *QuestionBank) ttlWithJitter() time.Duration {
	if b.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(b.ttl) / 10
	return b.ttl + time.Duration(b.rnd.Int63n(jitterMax+1))
}

// StaticSetLoader is a loader backed by an in-memory map (useful for tests/demos).
type StaticSetLoader struct {
	sets map[string][]domain.Question
}

func NewStaticSetLoader(sets map[string][]domain.Question) *StaticSetLoader {
	return &StaticSetLoader{sets: sets}
}

func (l *StaticSetLoader) LoadSet(_ context.Context, name string) ([]domain.Question, error) {
	if qs, ok := l.sets[name]; ok {
		return qs, nil
	}
	return nil, domain.ErrSetNotFound
}
