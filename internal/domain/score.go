package domain

// ScoreAnswers grades a batch of submitted answers against a question set.
// Scoring is local and authoritative; unknown question IDs are skipped.
func ScoreAnswers(questions []Question, answers []Answer) SubmissionSummary {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	summary := SubmissionSummary{TotalQuestions: len(questions)}
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			continue
		}
		correct := a.Answer == q.CorrectAnswer
		if correct {
			summary.Score++
		}
		summary.Results = append(summary.Results, AnswerResult{
			QuestionID:    q.ID,
			IsCorrect:     correct,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return summary
}
