package repository

import (
	"context"

	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
)

type quizStore interface {
	GetQuizPayload(ctx context.Context, resourceID int64) (sqlcgen.Quiz, error)
	UpsertQuizPayload(ctx context.Context, arg sqlcgen.UpsertQuizPayloadParams) (sqlcgen.Quiz, error)
	CreateQuizAttempt(ctx context.Context, arg sqlcgen.CreateQuizAttemptParams) (sqlcgen.QuizAttempt, error)
	CountQuizAttempts(ctx context.Context, arg sqlcgen.CountQuizAttemptsParams) (int64, error)
	ListQuizAttempts(ctx context.Context, arg sqlcgen.ListQuizAttemptsParams) ([]sqlcgen.QuizAttempt, error)
}

// QuizRepository stores quiz payloads (jsonb) and learner attempts.
type QuizRepository struct {
	store quizStore
}

func NewQuizRepository(store quizStore) *QuizRepository {
	return &QuizRepository{store: store}
}

// GetPayload returns the stored quiz document for a resource.
func (r *QuizRepository) GetPayload(ctx context.Context, resourceID int64) ([]byte, error) {
	row, err := r.store.GetQuizPayload(ctx, resourceID)
	if err != nil {
		return nil, notFound(err)
	}
	return row.Payload, nil
}

// UpsertPayload replaces the quiz document for a resource.
func (r *QuizRepository) UpsertPayload(ctx context.Context, resourceID int64, payload []byte, authorID int64) error {
	_, err := r.store.UpsertQuizPayload(ctx, sqlcgen.UpsertQuizPayloadParams{
		ResourceID: resourceID,
		Payload:    payload,
		UpdatedBy:  authorID,
	})
	return err
}

// CreateAttempt records a graded attempt. A second attempt with the same number for the
// learner and quiz fails with ErrConflict.
func (r *QuizRepository) CreateAttempt(ctx context.Context, params sqlcgen.CreateQuizAttemptParams) (sqlcgen.QuizAttempt, error) {
	row, err := r.store.CreateQuizAttempt(ctx, params)
	return row, conflict(err)
}

// CountAttempts returns how many attempts the learner has recorded.
func (r *QuizRepository) CountAttempts(ctx context.Context, resourceID, userID int64) (int, error) {
	n, err := r.store.CountQuizAttempts(ctx, sqlcgen.CountQuizAttemptsParams{ResourceID: resourceID, UserID: userID})
	return int(n), err
}

// ListAttempts returns the learner's attempts, newest first.
func (r *QuizRepository) ListAttempts(ctx context.Context, resourceID, userID int64) ([]sqlcgen.QuizAttempt, error) {
	return r.store.ListQuizAttempts(ctx, sqlcgen.ListQuizAttemptsParams{ResourceID: resourceID, UserID: userID})
}
