package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-attempt-service/internal/domain"
	"github.com/uptrace/bun"
)

// AttemptRepository persists attempts and serves the admission-control reads.
// Every method queries Postgres directly; in particular CycleInfo is never
// cached, so admission always sees the activation cycle in effect right now.
type AttemptRepository struct {
	db *bun.DB
}

func NewAttemptRepository(db *bun.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

type attemptRow struct {
	bun.BaseModel `bun:"table:quiz_attempts"`

	ID              string          `bun:"id,pk"`
	QuizID          string          `bun:"quiz_id"`
	UserID          string          `bun:"user_id"`
	Score           int             `bun:"score"`
	TotalPoints     int             `bun:"total_points"`
	Percentage      int             `bun:"percentage"`
	Answers         json.RawMessage `bun:"answers,type:jsonb"`
	TimeTaken       int             `bun:"time_taken"`
	ActivationCycle int             `bun:"activation_cycle"`
	CompletedAt     time.Time       `bun:"completed_at"`
}

func (r *AttemptRepository) CycleInfo(ctx context.Context, quizID string) (domain.CycleInfo, error) {
	var info domain.CycleInfo
	err := r.db.NewSelect().
		Table("quizzes").
		ColumnExpr("activation_cycle, max_attempts").
		Where("id = ?", quizID).
		Scan(ctx, &info.ActivationCycle, &info.MaxAttempts)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CycleInfo{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.CycleInfo{}, fmt.Errorf("cycle info: %w", err)
	}
	return info, nil
}

func (r *AttemptRepository) CountAttempts(ctx context.Context, quizID, userID string, cycle int) (int, error) {
	count, err := r.db.NewSelect().
		Model((*attemptRow)(nil)).
		Where("quiz_id = ?", quizID).
		Where("user_id = ?", userID).
		Where("activation_cycle = ?", cycle).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return count, nil
}

func (r *AttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.Attempt) error {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	row := &attemptRow{
		QuizID:          attempt.QuizID,
		UserID:          attempt.UserID,
		Score:           attempt.Score,
		TotalPoints:     attempt.TotalPoints,
		Percentage:      attempt.Percentage,
		Answers:         answers,
		TimeTaken:       attempt.TimeTaken,
		ActivationCycle: attempt.ActivationCycle,
		CompletedAt:     attempt.CompletedAt,
	}
	if _, err := r.db.NewInsert().
		Model(row).
		ExcludeColumn("id"). // let the database assign it
		Returning("id").
		Exec(ctx); err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	attempt.ID = row.ID
	return nil
}

func (r *AttemptRepository) GetAttempt(ctx context.Context, attemptID string) (domain.Attempt, error) {
	row := new(attemptRow)
	err := r.db.NewSelect().Model(row).Where("id = ?", attemptID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("load attempt: %w", err)
	}

	answers := make(map[string]domain.AnswerValue)
	if len(row.Answers) > 0 {
		if err := json.Unmarshal(row.Answers, &answers); err != nil {
			return domain.Attempt{}, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	return domain.Attempt{
		ID:              row.ID,
		QuizID:          row.QuizID,
		UserID:          row.UserID,
		Answers:         answers,
		Score:           row.Score,
		TotalPoints:     row.TotalPoints,
		Percentage:      row.Percentage,
		TimeTaken:       row.TimeTaken,
		ActivationCycle: row.ActivationCycle,
		CompletedAt:     row.CompletedAt,
	}, nil
}
