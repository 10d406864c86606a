package memory

import (
	"context"
	"testing"

	"quiz-attempt-service/internal/domain"
)

func TestAttemptStoreCountsPerCycle(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	store.SetCycleInfo("quiz-1", domain.CycleInfo{ActivationCycle: 0, MaxAttempts: 2})

	for i := 0; i < 2; i++ {
		if err := store.CreateAttempt(ctx, &domain.Attempt{QuizID: "quiz-1", UserID: "u1"}); err != nil {
			t.Fatalf("create attempt: %v", err)
		}
	}

	count, err := store.CountAttempts(ctx, "quiz-1", "u1", 0)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 attempts in cycle 0, got %d", count)
	}

	store.BumpCycle("quiz-1")
	info, err := store.CycleInfo(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("cycle info: %v", err)
	}
	if info.ActivationCycle != 1 {
		t.Fatalf("expected cycle 1 after bump, got %d", info.ActivationCycle)
	}

	count, err = store.CountAttempts(ctx, "quiz-1", "u1", info.ActivationCycle)
	if err != nil {
		t.Fatalf("count after bump: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected fresh cycle to have no attempts, got %d", count)
	}
}

func TestAttemptStoreGetAttempt(t *testing.T) {
	ctx := context.Background()
	store := NewAttemptStore()
	store.SetCycleInfo("quiz-1", domain.CycleInfo{})

	attempt := &domain.Attempt{
		QuizID:  "quiz-1",
		UserID:  "u1",
		Answers: map[string]domain.AnswerValue{"q1": domain.StringAnswer("Paris")},
		Score:   5,
	}
	if err := store.CreateAttempt(ctx, attempt); err != nil {
		t.Fatalf("create: %v", err)
	}
	if attempt.ID == "" {
		t.Fatalf("expected assigned attempt id")
	}

	loaded, err := store.GetAttempt(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Score != 5 || loaded.Answers["q1"].Str != "Paris" {
		t.Fatalf("unexpected attempt %+v", loaded)
	}

	if _, err := store.GetAttempt(ctx, "missing"); err != domain.ErrAttemptNotFound {
		t.Fatalf("expected attempt not found, got %v", err)
	}
}
