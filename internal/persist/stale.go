// Package persist owns the three logical storage slots of the quiz
// lifecycle: in-flight progress, the last edited question set, and the
// bounded history of completed quizzes. Each slot is a whole-value
// overwrite through the store adapter; writes never interleave.
package persist

import "time"

// Slot keys within a session's storage namespace.
const (
	ProgressKey  = "quiz_progress"
	QuestionsKey = "edited_questions"
	HistoryKey   = "quiz_history"
)

// DefaultMaxAge is how long a snapshot stays eligible for automatic recovery.
const DefaultMaxAge = 24 * time.Hour

// DefaultHistoryCap bounds the completed-quiz archive.
const DefaultHistoryCap = 10

// IsStale reports whether a snapshot written at the given Unix-millisecond
// timestamp is older than maxAge. Staleness is advisory for review surfaces
// and a hard rejection for automatic resume.
func IsStale(timestampMillis int64, maxAge time.Duration, now time.Time) bool {
	return now.UnixMilli()-timestampMillis > maxAge.Milliseconds()
}
