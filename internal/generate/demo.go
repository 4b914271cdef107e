package generate

import (
	"context"
	"time"

	"quizforge/internal/domain"
)

// SampleQuestions is the built-in demo set, used when no question bank is
// configured or the bank has no demo set.
var SampleQuestions = []domain.Question{
	{
		ID:            "1",
		Question:      "Which programming language is primarily used for web development on the client side?",
		Options:       []string{"Python", "JavaScript", "Java", "C++"},
		CorrectAnswer: 1,
	},
	{
		ID:            "2",
		Question:      "What does API stand for in software development?",
		Options:       []string{"Advanced Programming Interface", "Application Programming Interface", "Automated Program Integration", "Application Process Integration"},
		CorrectAnswer: 1,
	},
	{
		ID:            "3",
		Question:      "Which database type is MongoDB?",
		Options:       []string{"Relational", "Graph", "Document", "Key-Value"},
		CorrectAnswer: 2,
	},
	{
		ID:            "4",
		Question:      "What is the main purpose of version control systems like Git?",
		Options:       []string{"Code compilation", "Track changes in code", "Database management", "User interface design"},
		CorrectAnswer: 1,
	},
	{
		ID:            "5",
		Question:      "Which HTTP method is idempotent by definition?",
		Options:       []string{"POST", "PATCH", "PUT", "CONNECT"},
		CorrectAnswer: 2,
	},
}

// DemoSetName is the question-bank set the demo generator prefers.
const DemoSetName = "demo"

// SetProvider serves named question sets, e.g. the cached Postgres bank.
type SetProvider interface {
	GetSet(ctx context.Context, name string) ([]domain.Question, error)
}

// Demo returns a fixed question set after a simulated delay, bypassing the
// real generation collaborator entirely.
type Demo struct {
	sets  SetProvider
	delay time.Duration
}

// NewDemo builds a demo generator. sets may be nil, in which case the
// built-in sample questions are always used.
func NewDemo(sets SetProvider, delay time.Duration) *Demo {
	return &Demo{sets: sets, delay: delay}
}

func (d *Demo) Generate(ctx context.Context, _ []byte, _ string) ([]domain.Question, error) {
	if d.delay > 0 {
		timer := time.NewTimer(d.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if d.sets != nil {
		if questions, err := d.sets.GetSet(ctx, DemoSetName); err == nil && len(questions) > 0 {
			return questions, nil
		}
	}
	return domain.CloneQuestions(SampleQuestions), nil
}
