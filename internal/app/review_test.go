package app_test

import (
	"context"
	"errors"
	"testing"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/domain"
)

func TestBuildReviewAgreesWithStoredScore(t *testing.T) {
	quiz := sampleQuiz("quiz-1", 1)
	answers := map[string]domain.AnswerValue{
		"q1": domain.NumberAnswer(0),        // wrong
		"q2": domain.NumberAnswer(1),        // coerces to true, correct
		"q3": domain.StringAnswer(" PARIS"), // correct after normalization
	}
	score := domain.Score(quiz.Questions, answers)
	attempt := domain.Attempt{
		ID:          "attempt-1",
		QuizID:      quiz.ID,
		UserID:      "u1",
		Answers:     answers,
		Score:       score,
		TotalPoints: quiz.TotalPoints,
		Percentage:  domain.Percentage(score, quiz.TotalPoints),
	}

	review := app.BuildReview(attempt, quiz)
	if len(review.Questions) != 3 {
		t.Fatalf("expected 3 question reviews, got %d", len(review.Questions))
	}

	rederived := 0
	for _, qr := range review.Questions {
		if qr.Correct {
			rederived += qr.Points
		}
	}
	if rederived != attempt.Score {
		t.Fatalf("review re-derived %d points, stored score is %d", rederived, attempt.Score)
	}

	// Re-running the reconstruction must be identical.
	again := app.BuildReview(attempt, quiz)
	for i := range review.Questions {
		if review.Questions[i].Correct != again.Questions[i].Correct ||
			review.Questions[i].Answered != again.Questions[i].Answered {
			t.Fatalf("review not idempotent at question %d", i+1)
		}
	}
}

func TestBuildReviewRendering(t *testing.T) {
	quiz := sampleQuiz("quiz-1", 1)
	attempt := domain.Attempt{
		ID:     "attempt-1",
		QuizID: quiz.ID,
		Answers: map[string]domain.AnswerValue{
			"q1": domain.NumberAnswer(0),
			// q2 unanswered
			"q3": domain.StringAnswer("  lyon "),
		},
	}

	review := app.BuildReview(attempt, quiz)

	q1 := review.Questions[0]
	if q1.YourAnswer != "Option 1: A" || q1.CorrectAnswer != "Option 2: B" {
		t.Fatalf("multiple rendering = %q / %q", q1.YourAnswer, q1.CorrectAnswer)
	}
	if q1.Correct || !q1.Answered {
		t.Fatalf("expected q1 answered but wrong")
	}

	q2 := review.Questions[1]
	if q2.Answered || q2.Correct {
		t.Fatalf("expected q2 unanswered")
	}
	if q2.YourAnswer != "Not answered" || q2.CorrectAnswer != "True" {
		t.Fatalf("truefalse rendering = %q / %q", q2.YourAnswer, q2.CorrectAnswer)
	}

	q3 := review.Questions[2]
	if q3.YourAnswer != "lyon" || q3.CorrectAnswer != "Paris" {
		t.Fatalf("identification rendering = %q / %q", q3.YourAnswer, q3.CorrectAnswer)
	}
}

func TestReviewAuthorization(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore()
	service := newTestService(store)

	attempt := &domain.Attempt{
		QuizID:  "quiz-1",
		UserID:  "u1",
		Answers: map[string]domain.AnswerValue{"q2": domain.BoolAnswer(true)},
		Score:   1,
	}
	if err := store.CreateAttempt(ctx, attempt); err != nil {
		t.Fatalf("seed attempt: %v", err)
	}

	if _, err := service.Review(ctx, attempt.ID, "u1"); err != nil {
		t.Fatalf("owner review: %v", err)
	}
	// The quiz creator may also view it.
	if _, err := service.Review(ctx, attempt.ID, "author-1"); err != nil {
		t.Fatalf("creator review: %v", err)
	}
	if _, err := service.Review(ctx, attempt.ID, "someone-else"); !errors.Is(err, domain.ErrAttemptNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
	if _, err := service.Review(ctx, attempt.ID, ""); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected not authenticated, got %v", err)
	}
}
