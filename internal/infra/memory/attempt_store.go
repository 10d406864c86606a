package memory

import (
	"context"
	"fmt"
	"sync"

	"quiz-attempt-service/internal/domain"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository
// (tests and store-less demo mode). Attempts are append-only.
type AttemptStore struct {
	mu       sync.RWMutex
	cycles   map[string]domain.CycleInfo
	attempts []domain.Attempt
	nextID   int
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{cycles: make(map[string]domain.CycleInfo)}
}

// SetCycleInfo seeds or updates a quiz's activation cycle and attempt limit.
func (s *AttemptStore) SetCycleInfo(quizID string, info domain.CycleInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cycles[quizID] = info
}

// BumpCycle simulates an admin deactivating and reactivating a quiz.
func (s *AttemptStore) BumpCycle(quizID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	info := s.cycles[quizID]
	info.ActivationCycle++
	s.cycles[quizID] = info
}

func (s *AttemptStore) CycleInfo(_ context.Context, quizID string) (domain.CycleInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.cycles[quizID]
	if !ok {
		return domain.CycleInfo{}, domain.ErrQuizNotFound
	}
	return info, nil
}

func (s *AttemptStore) CountAttempts(_ context.Context, quizID, userID string, cycle int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.attempts {
		if a.QuizID == quizID && a.UserID == userID && a.ActivationCycle == cycle {
			count++
		}
	}
	return count, nil
}

func (s *AttemptStore) CreateAttempt(_ context.Context, attempt *domain.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	attempt.ID = fmt.Sprintf("attempt-%d", s.nextID)
	s.attempts = append(s.attempts, *attempt)
	return nil
}

func (s *AttemptStore) GetAttempt(_ context.Context, attemptID string) (domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attempts {
		if a.ID == attemptID {
			return a, nil
		}
	}
	return domain.Attempt{}, domain.ErrAttemptNotFound
}

// Attempts returns a copy of everything persisted so far; test helper.
func (s *AttemptStore) Attempts() []domain.Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Attempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}
