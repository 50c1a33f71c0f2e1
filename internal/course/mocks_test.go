package course

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
)

type mockCourses struct {
	mock.Mock
}

func (m *mockCourses) Create(ctx context.Context, params sqlcgen.CreateCourseParams) (sqlcgen.Course, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(sqlcgen.Course), args.Error(1)
}

func (m *mockCourses) Get(ctx context.Context, id int64) (sqlcgen.Course, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.Course), args.Error(1)
}

func (m *mockCourses) Update(ctx context.Context, params sqlcgen.UpdateCourseParams) (sqlcgen.Course, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(sqlcgen.Course), args.Error(1)
}

func (m *mockCourses) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCourses) List(ctx context.Context, params sqlcgen.ListCoursesParams) ([]sqlcgen.Course, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]sqlcgen.Course), args.Error(1)
}

type mockLessons struct {
	mock.Mock
}

func (m *mockLessons) Create(ctx context.Context, params sqlcgen.CreateLessonParams) (sqlcgen.Lesson, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(sqlcgen.Lesson), args.Error(1)
}

func (m *mockLessons) Get(ctx context.Context, id int64) (sqlcgen.Lesson, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.Lesson), args.Error(1)
}

func (m *mockLessons) Update(ctx context.Context, params sqlcgen.UpdateLessonParams) (sqlcgen.Lesson, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(sqlcgen.Lesson), args.Error(1)
}

func (m *mockLessons) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockLessons) ListByCourse(ctx context.Context, courseID int64) ([]sqlcgen.Lesson, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).([]sqlcgen.Lesson), args.Error(1)
}

type mockResources struct {
	mock.Mock
}

func (m *mockResources) Create(ctx context.Context, params sqlcgen.CreateResourceParams) (sqlcgen.Resource, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(sqlcgen.Resource), args.Error(1)
}

func (m *mockResources) CreateQuiz(ctx context.Context, params sqlcgen.CreateResourceParams, payload []byte, authorID int64) (sqlcgen.Resource, error) {
	args := m.Called(ctx, params, payload, authorID)
	return args.Get(0).(sqlcgen.Resource), args.Error(1)
}

func (m *mockResources) Get(ctx context.Context, id int64) (sqlcgen.Resource, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.Resource), args.Error(1)
}

func (m *mockResources) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockResources) ListByLesson(ctx context.Context, lessonID int64) ([]sqlcgen.Resource, error) {
	args := m.Called(ctx, lessonID)
	return args.Get(0).([]sqlcgen.Resource), args.Error(1)
}

type recordingWarmer struct {
	mu  sync.Mutex
	ids []int64
}

func (w *recordingWarmer) Enqueue(id int64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ids = append(w.ids, id)
	return true
}

type recordingInvalidator struct {
	ids []int64
}

func (c *recordingInvalidator) Invalidate(_ context.Context, id int64) error {
	c.ids = append(c.ids, id)
	return nil
}
