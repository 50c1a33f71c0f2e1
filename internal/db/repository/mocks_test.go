package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
)

type mockCatalogStore struct {
	mock.Mock
}

func (m *mockCatalogStore) CreateCourse(ctx context.Context, arg sqlcgen.CreateCourseParams) (sqlcgen.Course, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Course), args.Error(1)
}

func (m *mockCatalogStore) GetCourse(ctx context.Context, id int64) (sqlcgen.Course, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.Course), args.Error(1)
}

func (m *mockCatalogStore) UpdateCourse(ctx context.Context, arg sqlcgen.UpdateCourseParams) (sqlcgen.Course, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Course), args.Error(1)
}

func (m *mockCatalogStore) DeleteCourse(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCatalogStore) ListCourses(ctx context.Context, arg sqlcgen.ListCoursesParams) ([]sqlcgen.Course, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.Course), args.Error(1)
}

func (m *mockCatalogStore) CreateLesson(ctx context.Context, arg sqlcgen.CreateLessonParams) (sqlcgen.Lesson, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Lesson), args.Error(1)
}

func (m *mockCatalogStore) GetLesson(ctx context.Context, id int64) (sqlcgen.Lesson, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.Lesson), args.Error(1)
}

func (m *mockCatalogStore) UpdateLesson(ctx context.Context, arg sqlcgen.UpdateLessonParams) (sqlcgen.Lesson, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Lesson), args.Error(1)
}

func (m *mockCatalogStore) DeleteLesson(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCatalogStore) ListLessonsByCourse(ctx context.Context, courseID int64) ([]sqlcgen.Lesson, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).([]sqlcgen.Lesson), args.Error(1)
}

func (m *mockCatalogStore) CreateResource(ctx context.Context, arg sqlcgen.CreateResourceParams) (sqlcgen.Resource, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Resource), args.Error(1)
}

func (m *mockCatalogStore) GetResource(ctx context.Context, id int64) (sqlcgen.Resource, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.Resource), args.Error(1)
}

func (m *mockCatalogStore) DeleteResource(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCatalogStore) ListResourcesByLesson(ctx context.Context, lessonID int64) ([]sqlcgen.Resource, error) {
	args := m.Called(ctx, lessonID)
	return args.Get(0).([]sqlcgen.Resource), args.Error(1)
}

func (m *mockCatalogStore) GetQuizPayload(ctx context.Context, resourceID int64) (sqlcgen.Quiz, error) {
	args := m.Called(ctx, resourceID)
	return args.Get(0).(sqlcgen.Quiz), args.Error(1)
}

func (m *mockCatalogStore) UpsertQuizPayload(ctx context.Context, arg sqlcgen.UpsertQuizPayloadParams) (sqlcgen.Quiz, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.Quiz), args.Error(1)
}

func (m *mockCatalogStore) CreateQuizAttempt(ctx context.Context, arg sqlcgen.CreateQuizAttemptParams) (sqlcgen.QuizAttempt, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.QuizAttempt), args.Error(1)
}

func (m *mockCatalogStore) CountQuizAttempts(ctx context.Context, arg sqlcgen.CountQuizAttemptsParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCatalogStore) ListQuizAttempts(ctx context.Context, arg sqlcgen.ListQuizAttemptsParams) ([]sqlcgen.QuizAttempt, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.QuizAttempt), args.Error(1)
}
