package app

import (
	"context"
	"fmt"

	"quiz-attempt-service/internal/domain"
)

// admit decides whether a new attempt may be recorded and returns the
// activation cycle the attempt must be stamped with. The cycle is re-read at
// submission time, not taken from the session: a quiz that was deactivated and
// reactivated mid-session counts against the new cycle, so a stale session
// cannot bypass a fresh attempt-limit window. Store errors fail closed.
func (s *AttemptService) admit(ctx context.Context, quizID, userID string) (int, error) {
	info, err := s.attempts.CycleInfo(ctx, quizID)
	if err != nil {
		return 0, fmt.Errorf("%w: read cycle: %v", domain.ErrStoreUnavailable, err)
	}
	if info.MaxAttempts <= 0 {
		return info.ActivationCycle, nil
	}

	count, err := s.attempts.CountAttempts(ctx, quizID, userID, info.ActivationCycle)
	if err != nil {
		return 0, fmt.Errorf("%w: count attempts: %v", domain.ErrStoreUnavailable, err)
	}
	if count >= info.MaxAttempts {
		return 0, fmt.Errorf("%w (limit %d)", domain.ErrAttemptLimitReached, info.MaxAttempts)
	}
	return info.ActivationCycle, nil
}
