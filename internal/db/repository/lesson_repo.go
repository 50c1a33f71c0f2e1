package repository

import (
	"context"

	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
)

type lessonStore interface {
	CreateLesson(ctx context.Context, arg sqlcgen.CreateLessonParams) (sqlcgen.Lesson, error)
	GetLesson(ctx context.Context, id int64) (sqlcgen.Lesson, error)
	UpdateLesson(ctx context.Context, arg sqlcgen.UpdateLessonParams) (sqlcgen.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) (int64, error)
	ListLessonsByCourse(ctx context.Context, courseID int64) ([]sqlcgen.Lesson, error)
}

// LessonRepository contains DB helpers for lessons within a course.
type LessonRepository struct {
	store lessonStore
}

func NewLessonRepository(store lessonStore) *LessonRepository {
	return &LessonRepository{store: store}
}

// Create inserts a lesson at the given position.
func (r *LessonRepository) Create(ctx context.Context, params sqlcgen.CreateLessonParams) (sqlcgen.Lesson, error) {
	return r.store.CreateLesson(ctx, params)
}

// Get returns a lesson by id or ErrNotFound.
func (r *LessonRepository) Get(ctx context.Context, id int64) (sqlcgen.Lesson, error) {
	l, err := r.store.GetLesson(ctx, id)
	return l, notFound(err)
}

// Update replaces title, content and position.
func (r *LessonRepository) Update(ctx context.Context, params sqlcgen.UpdateLessonParams) (sqlcgen.Lesson, error) {
	l, err := r.store.UpdateLesson(ctx, params)
	return l, notFound(err)
}

// Delete removes a lesson; its resources go with it.
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.store.DeleteLesson(ctx, id))
}

// ListByCourse returns lessons ordered by position.
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID int64) ([]sqlcgen.Lesson, error) {
	return r.store.ListLessonsByCourse(ctx, courseID)
}
