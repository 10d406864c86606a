package app_test

import (
	"context"
	"errors"
	"testing"

	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/domain"
	"quiz-attempt-service/internal/infra/memory"
)

func TestAttemptLimitRefusesThirdSubmit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAttemptStore()
	store.SetCycleInfo("quiz-1", domain.CycleInfo{ActivationCycle: 0, MaxAttempts: 2})
	service := newTestService(store)

	for i := 0; i < 2; i++ {
		if err := store.CreateAttempt(ctx, &domain.Attempt{
			QuizID: "quiz-1", UserID: "u1", ActivationCycle: 0,
		}); err != nil {
			t.Fatalf("seed attempt: %v", err)
		}
	}

	session, err := service.StartSession(ctx, "quiz-1", "u1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if err := session.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	outcome := waitOutcome(t, session)
	if outcome.Status != app.OutcomeLimitReached {
		t.Fatalf("expected limit reached, got %s (%v)", outcome.Status, outcome.Err)
	}
	if !errors.Is(outcome.Err, domain.ErrAttemptLimitReached) {
		t.Fatalf("expected limit sentinel, got %v", outcome.Err)
	}
	if len(store.Attempts()) != 2 {
		t.Fatalf("refused submission must not create an attempt, got %d", len(store.Attempts()))
	}

	// Reactivating the quiz opens a fresh attempt-limit window.
	store.BumpCycle("quiz-1")

	session, err = service.StartSession(ctx, "quiz-1", "u1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if err := session.Submit(); err != nil {
		t.Fatalf("submit after cycle bump: %v", err)
	}
	outcome = waitOutcome(t, session)
	if outcome.Status != app.OutcomeCompleted {
		t.Fatalf("expected admission after cycle bump, got %s (%v)", outcome.Status, outcome.Err)
	}
	if outcome.Attempt.ActivationCycle != 1 {
		t.Fatalf("expected attempt stamped with cycle 1, got %d", outcome.Attempt.ActivationCycle)
	}
}

func TestCycleIsReReadAtSubmissionTime(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAttemptStore()
	store.SetCycleInfo("quiz-1", domain.CycleInfo{ActivationCycle: 3, MaxAttempts: 0})
	service := newTestService(store)

	session, err := service.StartSession(ctx, "quiz-1", "u1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	// The quiz is cycled mid-session; the attempt must carry the new cycle.
	store.BumpCycle("quiz-1")

	if err := session.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	outcome := waitOutcome(t, session)
	if outcome.Status != app.OutcomeCompleted {
		t.Fatalf("expected completed, got %s (%v)", outcome.Status, outcome.Err)
	}
	if outcome.Attempt.ActivationCycle != 4 {
		t.Fatalf("expected cycle 4 at submission time, got %d", outcome.Attempt.ActivationCycle)
	}
}

func TestAdmissionFailsClosedWhenStoreDown(t *testing.T) {
	ctx := context.Background()
	store := &downStore{AttemptStore: newSeededStore()}
	service := newTestService(store)

	session, err := service.StartSession(ctx, "quiz-1", "u1")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if err := session.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	outcome := waitOutcome(t, session)
	if outcome.Status != app.OutcomeFailed {
		t.Fatalf("expected failed (blocked submission), got %s", outcome.Status)
	}
	if !errors.Is(outcome.Err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store-unavailable sentinel, got %v", outcome.Err)
	}
	if len(store.Attempts()) != 0 {
		t.Fatalf("fail-closed admission must not write an attempt")
	}
}

// downStore simulates an unreachable data store for admission reads.
type downStore struct {
	*memory.AttemptStore
}

func (s *downStore) CycleInfo(context.Context, string) (domain.CycleInfo, error) {
	return domain.CycleInfo{}, errors.New("dial tcp: connection refused")
}
