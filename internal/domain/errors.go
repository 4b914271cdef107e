package domain

import "errors"

var (
	// ErrNoQuestions is returned when starting a quiz with an empty question set.
	ErrNoQuestions = errors.New("no questions to start a quiz")
	// ErrQuizActive is returned when a transition requires an idle session.
	ErrQuizActive = errors.New("quiz already active")
	// ErrQuizInactive is returned when a transition requires an active quiz.
	ErrQuizInactive = errors.New("quiz is not active")
	// ErrFeedbackShown rejects re-answering the current question while its feedback is visible.
	ErrFeedbackShown = errors.New("current question already answered")
	// ErrAnswerIndex indicates an answer index outside the question's options.
	ErrAnswerIndex = errors.New("answer index out of range")
	// ErrQuestionIndex indicates a question index outside the current set.
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrNoProgress is returned when no saved progress exists.
	ErrNoProgress = errors.New("no saved progress")
	// ErrStaleProgress is returned when saved progress is too old to auto-resume.
	ErrStaleProgress = errors.New("saved progress is stale")
	// ErrProcessing rejects a second upload while generation is in flight.
	ErrProcessing = errors.New("question generation already in progress")
	// ErrSetNotFound indicates a named question set could not be loaded.
	ErrSetNotFound = errors.New("question set not found")
	// ErrNoGenerator indicates no question-generation collaborator is configured.
	ErrNoGenerator = errors.New("question generation is not configured")

	// ErrEmptyQuestion indicates blank question text.
	ErrEmptyQuestion = errors.New("question text must not be empty")
	// ErrEmptyOption indicates a blank option.
	ErrEmptyOption = errors.New("options must not be empty")
	// ErrOptionCount indicates an option count outside 2..6.
	ErrOptionCount = errors.New("a question needs between 2 and 6 options")
	// ErrCorrectAnswer indicates a correct-answer index outside the options.
	ErrCorrectAnswer = errors.New("correct answer index out of range")
)
