package domain

import "time"

// QuestionType discriminates how a question is answered and graded.
type QuestionType string

const (
	TypeMultiple       QuestionType = "multiple"
	TypeIdentification QuestionType = "identification"
	TypeTrueFalse      QuestionType = "truefalse"
	// TypeNumeric is a legacy alias; it grades exactly like identification.
	TypeNumeric QuestionType = "numeric"
)

// Normalize maps legacy/blank types onto the three canonical ones.
func (t QuestionType) Normalize() QuestionType {
	switch t {
	case TypeNumeric:
		return TypeIdentification
	case "":
		return TypeMultiple
	}
	return t
}

// Question is a single quiz question with its grading key.
type Question struct {
	ID            string       `json:"id"`
	QuizID        string       `json:"quizId"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"` // multiple choice only
	CorrectAnswer AnswerValue  `json:"correctAnswer"`
	Points        int          `json:"points"`
}

// Quiz is a quiz with its ordered questions.
type Quiz struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DurationMinutes int        `json:"durationMinutes"`
	TotalPoints     int        `json:"totalPoints"`
	ActivationCycle int        `json:"activationCycle"`
	MaxAttempts     int        `json:"maxAttempts"` // 0 = unlimited per cycle
	Visibility      string     `json:"visibility,omitempty"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	Questions       []Question `json:"questions,omitempty"`
}

// CycleInfo is the admission-control view of a quiz, read fresh at submission time.
type CycleInfo struct {
	ActivationCycle int
	MaxAttempts     int
}

// Attempt is a finished quiz attempt. Attempts are append-only: once persisted
// they are never revised, and Score must stay reproducible from Answers via the
// comparator.
type Attempt struct {
	ID              string                 `json:"id"`
	QuizID          string                 `json:"quizId"`
	UserID          string                 `json:"userId"`
	Answers         map[string]AnswerValue `json:"answers"`
	Score           int                    `json:"score"`
	TotalPoints     int                    `json:"totalPoints"`
	Percentage      int                    `json:"percentage"`
	TimeTaken       int                    `json:"timeTaken"` // seconds from session start
	ActivationCycle int                    `json:"activationCycle"`
	CompletedAt     time.Time              `json:"completedAt"`
}
