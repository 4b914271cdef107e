// Package quiz holds the quiz lifecycle: a pure state machine over the
// session (transitions return the next state plus the persistence effects
// to run) and a Service that executes those effects against the storage
// slots.
package quiz

import "quizforge/internal/domain"

// Effect names a persistence side effect a transition asks for. Keeping
// transitions pure lets them be tested without any I/O.
type Effect int

const (
	SaveProgress Effect = iota
	ClearProgress
	SaveQuestions
	ClearQuestions
	AppendHistory
)

// Session is the in-memory state of the quiz currently being edited, taken,
// or reviewed. Zero value is the idle state. IsActive and IsCompleted are
// mutually exclusive; both false means editing/idle.
type Session struct {
	Questions          []domain.Question `json:"questions"`
	CurrentIndex       int               `json:"currentQuestionIndex"`
	IsActive           bool              `json:"isQuizActive"`
	IsCompleted        bool              `json:"isQuizCompleted"`
	Score              int               `json:"score"`
	ShowFeedback       bool              `json:"showFeedback"`
	FileName           string            `json:"fileName,omitempty"`
	HasUnsavedProgress bool              `json:"hasUnsavedProgress"`
}

func NewSession() Session {
	return Session{}
}

// Snapshot freezes the session into a storable progress record. The
// timestamp is stamped by the ledger on write.
func (s Session) Snapshot() domain.StoredProgress {
	return domain.StoredProgress{
		Questions:    domain.CloneQuestions(s.Questions),
		CurrentIndex: s.CurrentIndex,
		IsActive:     s.IsActive,
		IsCompleted:  s.IsCompleted,
		Score:        s.Score,
		FileName:     s.FileName,
	}
}

// SetQuestions replaces the question set with a fresh (answer-stripped) copy.
// The edited-questions slot is only written when a filename is known.
func (s Session) SetQuestions(questions []domain.Question, fileName string) (Session, []Effect) {
	s.Questions = domain.StripAnswers(questions)
	s.CurrentIndex = 0
	s.IsActive = false
	s.IsCompleted = false
	s.Score = 0
	s.ShowFeedback = false
	s.HasUnsavedProgress = false
	if fileName != "" {
		s.FileName = fileName
	}
	if s.FileName == "" {
		return s, nil
	}
	return s, []Effect{SaveQuestions}
}

// UpdateQuestion replaces one entry after validating the editing rules.
// An out-of-range index leaves the session untouched.
func (s Session) UpdateQuestion(index int, q domain.Question) (Session, []Effect, error) {
	if index < 0 || index >= len(s.Questions) {
		return s, nil, domain.ErrQuestionIndex
	}
	if err := domain.ValidateQuestion(q); err != nil {
		return s, nil, err
	}
	questions := domain.CloneQuestions(s.Questions)
	questions[index] = q.Clone()
	s.Questions = questions
	s.HasUnsavedProgress = true
	return s, []Effect{SaveQuestions}, nil
}

// Start begins the quiz. Only valid from the idle/editing state with a
// non-empty question set.
func (s Session) Start() (Session, []Effect, error) {
	if s.IsActive {
		return s, nil, domain.ErrQuizActive
	}
	if len(s.Questions) == 0 {
		return s, nil, domain.ErrNoQuestions
	}
	s.IsActive = true
	s.IsCompleted = false
	s.CurrentIndex = 0
	s.Score = 0
	s.ShowFeedback = false
	return s, []Effect{SaveProgress}, nil
}

// Answer records the answer for the current question. A second answer for
// the same question, while its feedback is still showing, is rejected.
func (s Session) Answer(answer int) (Session, []Effect, error) {
	if !s.IsActive {
		return s, nil, domain.ErrQuizInactive
	}
	if s.ShowFeedback {
		return s, nil, domain.ErrFeedbackShown
	}
	if s.CurrentIndex >= len(s.Questions) {
		return s, nil, domain.ErrQuestionIndex
	}
	current := s.Questions[s.CurrentIndex]
	if answer < 0 || answer >= len(current.Options) {
		return s, nil, domain.ErrAnswerIndex
	}

	correct := answer == current.CorrectAnswer
	questions := domain.CloneQuestions(s.Questions)
	questions[s.CurrentIndex].UserAnswer = &answer
	questions[s.CurrentIndex].IsCorrect = &correct

	s.Questions = questions
	if correct {
		s.Score++
	}
	s.ShowFeedback = true
	return s, []Effect{SaveProgress}, nil
}

// Next advances to the following question. Reaching the end completes the
// quiz: the result is archived and the progress slot cleared.
func (s Session) Next() (Session, []Effect, error) {
	if !s.IsActive {
		return s, nil, domain.ErrQuizInactive
	}
	s.CurrentIndex++
	s.ShowFeedback = false
	if s.CurrentIndex >= len(s.Questions) {
		s.CurrentIndex = len(s.Questions)
		s.IsCompleted = true
		s.IsActive = false
		return s, []Effect{AppendHistory, ClearProgress}, nil
	}
	return s, []Effect{SaveProgress}, nil
}

// Retry restarts the same question set with cleared answers. Valid from the
// completed state or mid-quiz.
func (s Session) Retry() (Session, []Effect, error) {
	if !s.IsActive && !s.IsCompleted {
		return s, nil, domain.ErrQuizInactive
	}
	s.Questions = domain.StripAnswers(s.Questions)
	s.CurrentIndex = 0
	s.Score = 0
	s.IsActive = true
	s.IsCompleted = false
	s.ShowFeedback = false
	return s, []Effect{ClearProgress, SaveProgress}, nil
}

// Reset drops everything back to the idle state, including the filename.
// This is the only transition that discards the edited-questions slot.
func (s Session) Reset() (Session, []Effect) {
	return NewSession(), []Effect{ClearProgress, ClearQuestions}
}

// Restore rebuilds the session from a stored snapshot.
func (s Session) Restore(snap domain.StoredProgress) Session {
	return Session{
		Questions:    domain.CloneQuestions(snap.Questions),
		CurrentIndex: snap.CurrentIndex,
		IsActive:     snap.IsActive,
		IsCompleted:  snap.IsCompleted,
		Score:        snap.Score,
		FileName:     snap.FileName,
	}
}
