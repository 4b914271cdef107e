package domain

import "strings"

const (
	// MinOptions and MaxOptions bound how many options an editor may keep.
	MinOptions = 2
	MaxOptions = 6
)

// ValidateQuestion checks the editing rules before a question replaces an
// existing entry: non-blank text, 2..6 non-blank options, correct answer in range.
func ValidateQuestion(q Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return ErrEmptyQuestion
	}
	if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
		return ErrOptionCount
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return ErrEmptyOption
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return ErrCorrectAnswer
	}
	return nil
}

// AddOption appends an option, refusing to grow past MaxOptions.
func AddOption(q Question, text string) (Question, error) {
	if len(q.Options) >= MaxOptions {
		return q, ErrOptionCount
	}
	out := q.Clone()
	out.Options = append(out.Options, text)
	return out, nil
}

// RemoveOption deletes an option and re-maps the correct-answer index.
// A question always keeps at least MinOptions options.
func RemoveOption(q Question, index int) (Question, error) {
	if index < 0 || index >= len(q.Options) {
		return q, ErrAnswerIndex
	}
	if len(q.Options) <= MinOptions {
		return q, ErrOptionCount
	}
	out := q.Clone()
	out.Options = append(out.Options[:index], out.Options[index+1:]...)
	switch {
	case q.CorrectAnswer > index:
		out.CorrectAnswer = q.CorrectAnswer - 1
	case q.CorrectAnswer == index:
		out.CorrectAnswer = 0
	}
	return out, nil
}
