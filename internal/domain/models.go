package domain

// Question models a multiple-choice question with exactly one correct option.
// UserAnswer and IsCorrect stay nil until the question is answered during an
// active quiz; they are always set (or cleared) together.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	UserAnswer    *int     `json:"userAnswer,omitempty"`
	IsCorrect     *bool    `json:"isCorrect,omitempty"`
}

// Answered reports whether the question carries a recorded answer.
func (q Question) Answered() bool {
	return q.UserAnswer != nil && q.IsCorrect != nil
}

// Clone returns a deep copy so callers can mutate freely.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	if q.UserAnswer != nil {
		v := *q.UserAnswer
		out.UserAnswer = &v
	}
	if q.IsCorrect != nil {
		v := *q.IsCorrect
		out.IsCorrect = &v
	}
	return out
}

// CloneQuestions deep-copies a question set.
func CloneQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// StripAnswers returns a fresh copy of the set with all recorded answers cleared.
func StripAnswers(qs []Question) []Question {
	out := CloneQuestions(qs)
	for i := range out {
		out[i].UserAnswer = nil
		out[i].IsCorrect = nil
	}
	return out
}

// StoredProgress is a point-in-time snapshot of an in-flight quiz.
// Timestamp is Unix milliseconds of the last write.
type StoredProgress struct {
	Questions    []Question `json:"questions"`
	CurrentIndex int        `json:"currentQuestionIndex"`
	IsActive     bool       `json:"isQuizActive"`
	IsCompleted  bool       `json:"isQuizCompleted"`
	Score        int        `json:"score"`
	Timestamp    int64      `json:"timestamp"`
	FileName     string     `json:"fileName,omitempty"`
}

// StoredQuestions holds the last question set produced by upload or editing,
// independent of quiz progress so it survives a progress reset.
type StoredQuestions struct {
	Questions []Question `json:"questions"`
	FileName  string     `json:"fileName,omitempty"`
	Timestamp int64      `json:"timestamp"`
}

// HistoryEntry is the immutable record of one completed quiz.
type HistoryEntry struct {
	ID             string     `json:"id"`
	FileName       string     `json:"fileName"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Percentage     int        `json:"percentage"`
	CompletedAt    int64      `json:"completedAt"`
	Questions      []Question `json:"questions"`
}

// Answer is one submitted answer in a quiz submission.
type Answer struct {
	QuestionID string `json:"questionId"`
	Answer     int    `json:"answer"`
}

// AnswerResult reports the outcome for a single submitted answer.
type AnswerResult struct {
	QuestionID    string `json:"questionId"`
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer int    `json:"correctAnswer"`
}

// SubmissionSummary is the locally computed result of a full quiz submission.
type SubmissionSummary struct {
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	Results        []AnswerResult `json:"results"`
}
