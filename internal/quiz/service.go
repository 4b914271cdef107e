package quiz

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"quizforge/internal/domain"
)

// ProgressStore abstracts the in-flight snapshot slot.
type ProgressStore interface {
	Save(ctx context.Context, snap domain.StoredProgress) bool
	Load(ctx context.Context) (domain.StoredProgress, bool)
	Clear(ctx context.Context) bool
	Stale(snap domain.StoredProgress) bool
}

// QuestionStore abstracts the edited-questions slot.
type QuestionStore interface {
	Save(ctx context.Context, questions []domain.Question, fileName string) bool
	Load(ctx context.Context) (domain.StoredQuestions, bool)
	Clear(ctx context.Context) bool
	Stale(saved domain.StoredQuestions) bool
}

// HistoryStore abstracts the completed-quiz archive.
type HistoryStore interface {
	Append(ctx context.Context, questions []domain.Question, score int, fileName string) (domain.HistoryEntry, bool)
	List(ctx context.Context) []domain.HistoryEntry
	Remove(ctx context.Context, id string) bool
}

// Generator turns an uploaded PDF into a question list.
type Generator interface {
	Generate(ctx context.Context, pdf []byte, fileName string) ([]domain.Question, error)
}

// Service owns one session and wires its transitions to the persistence
// slots. Transitions run synchronously; a failed persistence write is
// logged and dropped, never surfaced.
type Service struct {
	mu         sync.Mutex
	session    Session
	processing bool

	progress  ProgressStore
	questions QuestionStore
	history   HistoryStore
	gen       Generator
	demo      Generator
	log       *zap.SugaredLogger
}

func NewService(progress ProgressStore, questions QuestionStore, history HistoryStore, gen, demo Generator, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		session:   NewSession(),
		progress:  progress,
		questions: questions,
		history:   history,
		gen:       gen,
		demo:      demo,
		log:       log,
	}
}

// Session returns a copy of the current state.
func (s *Service) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session
	sess.Questions = domain.CloneQuestions(s.session.Questions)
	return sess
}

// Processing reports whether a generation call is in flight.
func (s *Service) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

func (s *Service) SetQuestions(ctx context.Context, questions []domain.Question, fileName string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, effects := s.session.SetQuestions(questions, fileName)
	s.apply(ctx, next, effects)
	return s.session
}

func (s *Service) UpdateQuestion(ctx context.Context, index int, q domain.Question) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, effects, err := s.session.UpdateQuestion(index, q)
	if err != nil {
		return s.session, err
	}
	s.apply(ctx, next, effects)
	return s.session, nil
}

func (s *Service) Start(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, effects, err := s.session.Start()
	if err != nil {
		return s.session, err
	}
	s.apply(ctx, next, effects)
	return s.session, nil
}

func (s *Service) Answer(ctx context.Context, answer int) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, effects, err := s.session.Answer(answer)
	if err != nil {
		return s.session, err
	}
	s.apply(ctx, next, effects)
	return s.session, nil
}

func (s *Service) Next(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, effects, err := s.session.Next()
	if err != nil {
		return s.session, err
	}
	s.apply(ctx, next, effects)
	return s.session, nil
}

func (s *Service) Retry(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, effects, err := s.session.Retry()
	if err != nil {
		return s.session, err
	}
	s.apply(ctx, next, effects)
	return s.session, nil
}

// Reset drops the session and both persistence slots back to empty.
func (s *Service) Reset(ctx context.Context) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, effects := s.session.Reset()
	s.apply(ctx, next, effects)
	return s.session
}

// LoadProgress resumes from the saved snapshot. Absent or stale snapshots
// are rejected outright; the review surface can still offer them manually.
func (s *Service) LoadProgress(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.progress.Load(ctx)
	if !ok {
		return s.session, domain.ErrNoProgress
	}
	if s.progress.Stale(snap) {
		return s.session, domain.ErrStaleProgress
	}
	s.session = s.session.Restore(snap)
	return s.session, nil
}

// ClearProgress drops the saved snapshot without touching in-memory state.
// Used when the user dismisses a stale recovery prompt.
func (s *Service) ClearProgress(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.progress.Clear(ctx) {
		s.log.Warnw("clearing saved progress failed")
	}
}

// SavedState describes what the storage slots hold, for recovery prompts.
// Stale entries are surfaced for manual restore but must not auto-apply.
type SavedState struct {
	Progress       *domain.StoredProgress  `json:"progress,omitempty"`
	ProgressStale  bool                    `json:"progressStale,omitempty"`
	Questions      *domain.StoredQuestions `json:"questions,omitempty"`
	QuestionsStale bool                    `json:"questionsStale,omitempty"`
}

// Saved probes both recovery slots.
func (s *Service) Saved(ctx context.Context) SavedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	var state SavedState
	if snap, ok := s.progress.Load(ctx); ok {
		state.Progress = &snap
		state.ProgressStale = s.progress.Stale(snap)
	}
	if saved, ok := s.questions.Load(ctx); ok {
		state.Questions = &saved
		state.QuestionsStale = s.questions.Stale(saved)
	}
	return state
}

// RestoreQuestions loads the edited-questions slot back into the session.
func (s *Service) RestoreQuestions(ctx context.Context) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved, ok := s.questions.Load(ctx)
	if !ok {
		return s.session, domain.ErrNoProgress
	}
	next, effects := s.session.SetQuestions(saved.Questions, saved.FileName)
	s.apply(ctx, next, effects)
	return s.session, nil
}

// History lists the completed-quiz archive, most recent first.
func (s *Service) History(ctx context.Context) []domain.HistoryEntry {
	return s.history.List(ctx)
}

// RemoveHistory deletes one archive entry; unknown ids are a no-op.
func (s *Service) RemoveHistory(ctx context.Context, id string) {
	if !s.history.Remove(ctx, id) {
		s.log.Warnw("removing history entry failed", "id", id)
	}
}

// Submit grades a batch of answers locally against the current question set.
func (s *Service) Submit(answers []domain.Answer) domain.SubmissionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.ScoreAnswers(s.session.Questions, answers)
}

// Generate runs the PDF collaborator and installs the resulting questions.
// Concurrent calls are rejected; on failure the uploaded-file reference is
// rolled back so the client returns to the upload prompt.
func (s *Service) Generate(ctx context.Context, pdf []byte, fileName string) (Session, error) {
	return s.generate(ctx, s.gen, pdf, fileName)
}

// GenerateDemo bypasses the real collaborator and installs the built-in set.
func (s *Service) GenerateDemo(ctx context.Context) (Session, error) {
	return s.generate(ctx, s.demo, nil, "demo.pdf")
}

func (s *Service) generate(ctx context.Context, gen Generator, pdf []byte, fileName string) (Session, error) {
	if gen == nil {
		return s.Session(), domain.ErrNoGenerator
	}
	s.mu.Lock()
	if s.processing {
		sess := s.session
		s.mu.Unlock()
		return sess, domain.ErrProcessing
	}
	s.processing = true
	s.session.FileName = fileName
	s.mu.Unlock()

	questions, err := gen.Generate(ctx, pdf, fileName)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
	if err != nil {
		s.session.FileName = ""
		return s.session, err
	}
	next, effects := s.session.SetQuestions(questions, fileName)
	s.apply(ctx, next, effects)
	return s.session, nil
}

// apply installs the next state and executes its persistence effects.
// Failed writes degrade silently: recovery simply won't be offered.
func (s *Service) apply(ctx context.Context, next Session, effects []Effect) {
	s.session = next
	for _, effect := range effects {
		switch effect {
		case SaveProgress:
			if !s.progress.Save(ctx, next.Snapshot()) {
				s.log.Warnw("saving quiz progress failed", "file", next.FileName)
			}
		case ClearProgress:
			if !s.progress.Clear(ctx) {
				s.log.Warnw("clearing quiz progress failed")
			}
		case SaveQuestions:
			if !s.questions.Save(ctx, next.Questions, next.FileName) {
				s.log.Warnw("saving edited questions failed", "file", next.FileName)
			}
		case ClearQuestions:
			if !s.questions.Clear(ctx) {
				s.log.Warnw("clearing edited questions failed")
			}
		case AppendHistory:
			if next.FileName == "" {
				continue
			}
			if _, ok := s.history.Append(ctx, next.Questions, next.Score, next.FileName); !ok {
				s.log.Warnw("archiving quiz result failed", "file", next.FileName)
			}
		}
	}
}
