package repository

import (
	"context"

	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
)

type courseStore interface {
	CreateCourse(ctx context.Context, arg sqlcgen.CreateCourseParams) (sqlcgen.Course, error)
	GetCourse(ctx context.Context, id int64) (sqlcgen.Course, error)
	UpdateCourse(ctx context.Context, arg sqlcgen.UpdateCourseParams) (sqlcgen.Course, error)
	DeleteCourse(ctx context.Context, id int64) (int64, error)
	ListCourses(ctx context.Context, arg sqlcgen.ListCoursesParams) ([]sqlcgen.Course, error)
}

// CourseRepository wraps sqlc queries for the course catalog.
type CourseRepository struct {
	store courseStore
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(store courseStore) *CourseRepository {
	return &CourseRepository{store: store}
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, params sqlcgen.CreateCourseParams) (sqlcgen.Course, error) {
	return r.store.CreateCourse(ctx, params)
}

// Get returns ErrNotFound when the course does not exist.
func (r *CourseRepository) Get(ctx context.Context, id int64) (sqlcgen.Course, error) {
	c, err := r.store.GetCourse(ctx, id)
	return c, notFound(err)
}

// Update replaces a course row or returns ErrNotFound.
func (r *CourseRepository) Update(ctx context.Context, params sqlcgen.UpdateCourseParams) (sqlcgen.Course, error) {
	c, err := r.store.UpdateCourse(ctx, params)
	return c, notFound(err)
}

// Delete removes a course with its lessons and resources.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return affected(r.store.DeleteCourse(ctx, id))
}

// List filters and pages courses.
func (r *CourseRepository) List(ctx context.Context, params sqlcgen.ListCoursesParams) ([]sqlcgen.Course, error) {
	return r.store.ListCourses(ctx, params)
}
