package quiz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizforge/internal/domain"
	"quizforge/internal/infra/memory"
	"quizforge/internal/persist"
	"quizforge/internal/quiz"
	"quizforge/internal/store"
)

type fixture struct {
	svc     *quiz.Service
	backend *memory.Backend
	ledger  *persist.ProgressLedger
	cache   *persist.QuestionsCache
	history *persist.HistoryArchive
	now     *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithGenerator(t, nil)
}

func newFixtureWithGenerator(t *testing.T, gen quiz.Generator) *fixture {
	t.Helper()
	backend := memory.NewBackend()
	adapter := store.New(backend, nil)

	now := time.Now()
	clock := func() time.Time { return now }

	ledger := persist.NewProgressLedgerWithClock(adapter, 24*time.Hour, clock)
	cache := persist.NewQuestionsCacheWithClock(adapter, 24*time.Hour, clock)
	history := persist.NewHistoryArchiveWithClock(adapter, 10, clock)
	demo := &staticGenerator{questions: questionSet(5)}

	return &fixture{
		svc:     quiz.NewService(ledger, cache, history, gen, demo, nil),
		backend: backend,
		ledger:  ledger,
		cache:   cache,
		history: history,
		now:     &now,
	}
}

type staticGenerator struct {
	questions []domain.Question
	err       error
	calls     int
}

func (g *staticGenerator) Generate(ctx context.Context, _ []byte, _ string) ([]domain.Question, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return domain.CloneQuestions(g.questions), nil
}

func questionSet(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		qs[i] = domain.Question{
			ID:            string(rune('a' + i)),
			Question:      "Question?",
			Options:       []string{"w", "x", "y", "z"},
			CorrectAnswer: 2,
		}
	}
	return qs
}

func TestStartPersistsSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.svc.SetQuestions(ctx, questionSet(3), "notes.pdf")
	if _, err := f.svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	snap, ok := f.ledger.Load(ctx)
	if !ok {
		t.Fatalf("expected progress snapshot after start")
	}
	if !snap.IsActive || snap.Score != 0 || snap.FileName != "notes.pdf" || len(snap.Questions) != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestCompletionArchivesAndClearsLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Five questions: answer the first correctly, the rest wrong.
	f.svc.SetQuestions(ctx, questionSet(5), "deck.pdf")
	if _, err := f.svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if sess, err := f.svc.Answer(ctx, 2); err != nil || sess.Score != 1 || !sess.ShowFeedback {
		t.Fatalf("first answer: err=%v sess=%+v", err, sess)
	}
	for i := 0; i < 4; i++ {
		if _, err := f.svc.Next(ctx); err != nil {
			t.Fatalf("next: %v", err)
		}
		if _, err := f.svc.Answer(ctx, 0); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	sess, err := f.svc.Next(ctx)
	if err != nil {
		t.Fatalf("final next: %v", err)
	}
	if !sess.IsCompleted || sess.Score != 1 {
		t.Fatalf("expected completed with score 1, got %+v", sess)
	}

	entries := f.svc.History(ctx)
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Score != 1 || entry.TotalQuestions != 5 || entry.Percentage != 20 || entry.FileName != "deck.pdf" {
		t.Fatalf("unexpected history entry: %+v", entry)
	}

	if _, ok := f.ledger.Load(ctx); ok {
		t.Fatalf("expected ledger cleared after completion")
	}
}

func TestCompletionWithoutFileNameSkipsArchive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.svc.SetQuestions(ctx, questionSet(1), "")
	if _, err := f.svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if entries := f.svc.History(ctx); len(entries) != 0 {
		t.Fatalf("expected empty history without filename, got %d entries", len(entries))
	}
}

func TestLoadProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.svc.SetQuestions(ctx, questionSet(3), "resume.pdf")
	if _, err := f.svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.svc.Answer(ctx, 2); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := f.svc.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	before := f.svc.Session()

	// A fresh service over the same backend recovers the snapshot.
	clock := func() time.Time { return *f.now }
	adapter := store.New(f.backend, nil)
	fresh := quiz.NewService(
		persist.NewProgressLedgerWithClock(adapter, 24*time.Hour, clock),
		persist.NewQuestionsCacheWithClock(adapter, 24*time.Hour, clock),
		persist.NewHistoryArchiveWithClock(adapter, 10, clock),
		nil, nil, nil,
	)
	sess, err := fresh.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if sess.CurrentIndex != before.CurrentIndex || sess.Score != before.Score ||
		sess.IsActive != before.IsActive || sess.FileName != before.FileName ||
		len(sess.Questions) != len(before.Questions) {
		t.Fatalf("mismatch after recovery: %+v vs %+v", sess, before)
	}
	if sess.HasUnsavedProgress {
		t.Fatalf("expected unsaved flag cleared on recovery")
	}
}

func TestLoadProgressRejectsStale(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.svc.SetQuestions(ctx, questionSet(2), "old.pdf")
	if _, err := f.svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	*f.now = f.now.Add(25 * time.Hour)
	if _, err := f.svc.LoadProgress(ctx); !errors.Is(err, domain.ErrStaleProgress) {
		t.Fatalf("expected ErrStaleProgress, got %v", err)
	}

	// One hour old is still fresh.
	*f.now = f.now.Add(-24 * time.Hour)
	if _, err := f.svc.LoadProgress(ctx); err != nil {
		t.Fatalf("expected fresh snapshot to load, got %v", err)
	}
}

func TestLoadProgressAbsent(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.LoadProgress(context.Background()); !errors.Is(err, domain.ErrNoProgress) {
		t.Fatalf("expected ErrNoProgress, got %v", err)
	}
}

func TestResetClearsBothSlotsIdempotently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.svc.SetQuestions(ctx, questionSet(2), "gone.pdf")
	if _, err := f.svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	first := f.svc.Reset(ctx)
	second := f.svc.Reset(ctx)
	if first.IsActive || len(first.Questions) != 0 || first.FileName != "" {
		t.Fatalf("expected idle state, got %+v", first)
	}
	if second.IsActive || len(second.Questions) != 0 || second.FileName != "" {
		t.Fatalf("expected idle state after second reset, got %+v", second)
	}
	if _, ok := f.ledger.Load(ctx); ok {
		t.Fatalf("expected ledger cleared")
	}
	if _, ok := f.cache.Load(ctx); ok {
		t.Fatalf("expected questions cache cleared")
	}
}

func TestEditedQuestionsSurviveProgressClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.svc.SetQuestions(ctx, questionSet(2), "kept.pdf")
	if _, err := f.svc.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	f.svc.ClearProgress(ctx)

	if _, ok := f.ledger.Load(ctx); ok {
		t.Fatalf("expected progress cleared")
	}
	saved, ok := f.cache.Load(ctx)
	if !ok || len(saved.Questions) != 2 || saved.FileName != "kept.pdf" {
		t.Fatalf("expected edited questions intact, got ok=%v %+v", ok, saved)
	}

	restored, err := f.svc.RestoreQuestions(ctx)
	if err != nil {
		t.Fatalf("restore questions: %v", err)
	}
	if len(restored.Questions) != 2 || restored.FileName != "kept.pdf" {
		t.Fatalf("unexpected restored session: %+v", restored)
	}
}

func TestGenerateFailureRollsBackFile(t *testing.T) {
	ctx := context.Background()
	gen := &staticGenerator{err: errors.New("model unavailable")}
	f := newFixtureWithGenerator(t, gen)

	if _, err := f.svc.Generate(ctx, []byte("%PDF-1.4"), "broken.pdf"); err == nil {
		t.Fatalf("expected generation error")
	}
	if sess := f.svc.Session(); sess.FileName != "" {
		t.Fatalf("expected filename rolled back, got %q", sess.FileName)
	}
}

func TestGenerateInstallsQuestions(t *testing.T) {
	ctx := context.Background()
	gen := &staticGenerator{questions: questionSet(3)}
	f := newFixtureWithGenerator(t, gen)

	sess, err := f.svc.Generate(ctx, []byte("%PDF-1.4"), "fresh.pdf")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(sess.Questions) != 3 || sess.FileName != "fresh.pdf" || sess.IsActive {
		t.Fatalf("unexpected session after generate: %+v", sess)
	}
	if saved, ok := f.cache.Load(ctx); !ok || len(saved.Questions) != 3 {
		t.Fatalf("expected edited questions persisted, got ok=%v %+v", ok, saved)
	}
}

func TestGenerateDemoUsesBuiltinSet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	sess, err := f.svc.GenerateDemo(ctx)
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if len(sess.Questions) != 5 || sess.FileName != "demo.pdf" {
		t.Fatalf("unexpected demo session: %+v", sess)
	}
}

func TestCorruptedProgressSlotHealsToAbsent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.backend.Put(persist.ProgressKey, "{not valid json")
	if _, err := f.svc.LoadProgress(ctx); !errors.Is(err, domain.ErrNoProgress) {
		t.Fatalf("expected ErrNoProgress for corrupted slot, got %v", err)
	}
	if _, ok := f.backend.Dump()[persist.ProgressKey]; ok {
		t.Fatalf("expected corrupted slot deleted")
	}
}

func TestUnavailableBackendDegradesSilently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.backend.SetAvailable(false)
	f.svc.SetQuestions(ctx, questionSet(2), "f.pdf")
	if _, err := f.svc.Start(ctx); err != nil {
		t.Fatalf("start must not fail on storage outage: %v", err)
	}

	f.backend.SetAvailable(true)
	if _, err := f.svc.LoadProgress(ctx); !errors.Is(err, domain.ErrNoProgress) {
		t.Fatalf("expected nothing persisted during outage, got %v", err)
	}
}

func TestSubmitScoresLocally(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.svc.SetQuestions(ctx, questionSet(3), "f.pdf")
	sess := f.svc.Session()

	summary := f.svc.Submit([]domain.Answer{
		{QuestionID: sess.Questions[0].ID, Answer: 2},
		{QuestionID: sess.Questions[1].ID, Answer: 0},
	})
	if summary.Score != 1 || summary.TotalQuestions != 3 || len(summary.Results) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
