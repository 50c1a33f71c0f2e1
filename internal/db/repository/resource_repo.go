package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
)

type resourceStore interface {
	CreateResource(ctx context.Context, arg sqlcgen.CreateResourceParams) (sqlcgen.Resource, error)
	GetResource(ctx context.Context, id int64) (sqlcgen.Resource, error)
	DeleteResource(ctx context.Context, id int64) (int64, error)
	ListResourcesByLesson(ctx context.Context, lessonID int64) ([]sqlcgen.Resource, error)
	UpsertQuizPayload(ctx context.Context, arg sqlcgen.UpsertQuizPayloadParams) (sqlcgen.Quiz, error)
}

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ResourceRepository persists lesson resources. Quiz resources are created together
// with their quiz row in one transaction.
type ResourceRepository struct {
	store  resourceStore
	withTx func(ctx context.Context, fn func(resourceStore) error) error
}

// NewResourceRepository wraps store. When db is nil, multi-statement writes run
// directly against store.
func NewResourceRepository(store resourceStore, db TxBeginner) *ResourceRepository {
	r := &ResourceRepository{store: store}
	if db == nil {
		r.withTx = func(_ context.Context, fn func(resourceStore) error) error { return fn(store) }
		return r
	}
	r.withTx = func(ctx context.Context, fn func(resourceStore) error) error {
		return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
			return fn(sqlcgen.New(tx))
		})
	}
	return r
}

// Create inserts a resource that carries no quiz.
func (r *ResourceRepository) Create(ctx context.Context, params sqlcgen.CreateResourceParams) (sqlcgen.Resource, error) {
	return r.store.CreateResource(ctx, params)
}

// CreateQuiz inserts a quiz resource and its initial payload atomically.
func (r *ResourceRepository) CreateQuiz(ctx context.Context, params sqlcgen.CreateResourceParams, payload []byte, authorID int64) (sqlcgen.Resource, error) {
	var res sqlcgen.Resource
	err := r.withTx(ctx, func(s resourceStore) error {
		created, err := s.CreateResource(ctx, params)
		if err != nil {
			return err
		}
		if _, err := s.UpsertQuizPayload(ctx, sqlcgen.UpsertQuizPayloadParams{
			ResourceID: created.ID,
			Payload:    payload,
			UpdatedBy:  authorID,
		}); err != nil {
			return err
		}
		res = created
		return nil
	})
	return res, err
}

// Get returns a resource by id or ErrNotFound.
func (r *ResourceRepository) Get(ctx context.Context, id int64) (sqlcgen.Resource, error) {
	res, err := r.store.GetResource(ctx, id)
	return res, notFound(err)
}

// Delete removes a resource or returns ErrNotFound.
func (r *ResourceRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.store.DeleteResource(ctx, id))
}

// ListByLesson returns a lesson's resources in creation order.
func (r *ResourceRepository) ListByLesson(ctx context.Context, lessonID int64) ([]sqlcgen.Resource, error) {
	return r.store.ListResourcesByLesson(ctx, lessonID)
}
