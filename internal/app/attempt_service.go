package app

import (
	"context"
	"fmt"
	"time"

	"quiz-attempt-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store). The question
// catalog is fixed for the life of a session, so implementations may cache it.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// AttemptRepository persists attempts and answers the admission-control reads.
// CycleInfo must always hit the backing store: admission decisions are made
// against the activation cycle in effect at submission time, never a cached one.
type AttemptRepository interface {
	CycleInfo(ctx context.Context, quizID string) (domain.CycleInfo, error)
	CountAttempts(ctx context.Context, quizID, userID string, cycle int) (int, error)
	CreateAttempt(ctx context.Context, attempt *domain.Attempt) error
	GetAttempt(ctx context.Context, attemptID string) (domain.Attempt, error)
}

// AttemptService contains the quiz-taking use cases: starting sessions,
// admitting and persisting submissions, and reconstructing reviews.
type AttemptService struct {
	quizzes  QuizRepository
	attempts AttemptRepository
	clock    func() time.Time
}

func NewAttemptService(quizzes QuizRepository, attempts AttemptRepository) *AttemptService {
	return &AttemptService{quizzes: quizzes, attempts: attempts, clock: time.Now}
}

// NewAttemptServiceWithClock is test-only for deterministic timestamps.
func NewAttemptServiceWithClock(quizzes QuizRepository, attempts AttemptRepository, now func() time.Time) *AttemptService {
	return &AttemptService{quizzes: quizzes, attempts: attempts, clock: now}
}

// StartSession loads the quiz and begins a timed attempt session for userID.
// The returned session owns its own answer map and countdown; the caller must
// eventually Cancel it or drive it to completion.
func (s *AttemptService) StartSession(ctx context.Context, quizID, userID string, opts ...SessionOption) (*Session, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, domain.ErrQuestionNotFound
	}
	return startSession(ctx, s, quiz, userID, opts...), nil
}

// finalize runs the submission pipeline: admission, scoring, one attempt write.
// Called from the session's submit goroutine.
func (s *AttemptService) finalize(ctx context.Context, quiz domain.Quiz, userID string, answers map[string]domain.AnswerValue, elapsed time.Duration) (*domain.Attempt, error) {
	cycle, err := s.admit(ctx, quiz.ID, userID)
	if err != nil {
		return nil, err
	}

	score := domain.Score(quiz.Questions, answers)
	attempt := &domain.Attempt{
		QuizID:          quiz.ID,
		UserID:          userID,
		Answers:         answers,
		Score:           score,
		TotalPoints:     quiz.TotalPoints,
		Percentage:      domain.Percentage(score, quiz.TotalPoints),
		TimeTaken:       int(elapsed / time.Second),
		ActivationCycle: cycle,
		CompletedAt:     s.clock(),
	}
	if err := s.attempts.CreateAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}
	return attempt, nil
}

// Review loads a persisted attempt plus its quiz and rebuilds the per-question
// correctness view. Only the attempt owner or the quiz creator may view it.
func (s *AttemptService) Review(ctx context.Context, attemptID, requesterID string) (Review, error) {
	if requesterID == "" {
		return Review{}, domain.ErrNotAuthenticated
	}
	attempt, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return Review{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return Review{}, err
	}
	if attempt.UserID != requesterID && quiz.CreatedBy != requesterID {
		return Review{}, domain.ErrAttemptNotFound
	}
	return BuildReview(attempt, quiz), nil
}
