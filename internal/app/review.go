package app

import (
	"time"

	"quiz-attempt-service/internal/domain"
)

// QuestionReview is one row of the answer-review screen.
type QuestionReview struct {
	QuestionID    string              `json:"questionId"`
	Number        int                 `json:"number"`
	Text          string              `json:"text"`
	Type          domain.QuestionType `json:"type"`
	Points        int                 `json:"points"`
	Options       []string            `json:"options,omitempty"`
	Answered      bool                `json:"answered"`
	Correct       bool                `json:"correct"`
	YourAnswer    string              `json:"yourAnswer"`
	CorrectAnswer string              `json:"correctAnswer"`
}

// Review is the full reconstruction of a persisted attempt.
type Review struct {
	AttemptID   string           `json:"attemptId"`
	QuizID      string           `json:"quizId"`
	QuizTitle   string           `json:"quizTitle"`
	Score       int              `json:"score"`
	TotalPoints int              `json:"totalPoints"`
	Percentage  int              `json:"percentage"`
	TimeTaken   int              `json:"timeTaken"`
	CompletedAt time.Time        `json:"completedAt"`
	Questions   []QuestionReview `json:"questions"`
}

// BuildReview re-derives per-question correctness for a persisted attempt using
// the same comparator that produced its score, so the stored score and the
// displayed flags cannot disagree. Performs no writes.
func BuildReview(attempt domain.Attempt, quiz domain.Quiz) Review {
	reviews := make([]QuestionReview, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		submitted := attempt.Answers[q.ID]
		reviews = append(reviews, QuestionReview{
			QuestionID:    q.ID,
			Number:        i + 1,
			Text:          q.Text,
			Type:          q.Type.Normalize(),
			Points:        q.Points,
			Options:       q.Options,
			Answered:      domain.HasAnswer(q, submitted),
			Correct:       domain.IsCorrect(q, submitted),
			YourAnswer:    domain.FormatAnswer(q, submitted),
			CorrectAnswer: domain.FormatAnswer(q, q.CorrectAnswer),
		})
	}
	return Review{
		AttemptID:   attempt.ID,
		QuizID:      quiz.ID,
		QuizTitle:   quiz.Title,
		Score:       attempt.Score,
		TotalPoints: attempt.TotalPoints,
		Percentage:  attempt.Percentage,
		TimeTaken:   attempt.TimeTaken,
		CompletedAt: attempt.CompletedAt,
		Questions:   reviews,
	}
}
