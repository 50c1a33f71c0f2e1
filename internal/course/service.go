package course

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/lms-platform/internal/auth"
	"github.com/gokatarajesh/lms-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
	"github.com/gokatarajesh/lms-platform/internal/quiz"
)

// CourseStore persists courses (implemented by repository.CourseRepository).
type CourseStore interface {
	Create(ctx context.Context, params sqlcgen.CreateCourseParams) (sqlcgen.Course, error)
	Get(ctx context.Context, id int64) (sqlcgen.Course, error)
	Update(ctx context.Context, params sqlcgen.UpdateCourseParams) (sqlcgen.Course, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params sqlcgen.ListCoursesParams) ([]sqlcgen.Course, error)
}

type LessonStore interface {
	Create(ctx context.Context, params sqlcgen.CreateLessonParams) (sqlcgen.Lesson, error)
	Get(ctx context.Context, id int64) (sqlcgen.Lesson, error)
	Update(ctx context.Context, params sqlcgen.UpdateLessonParams) (sqlcgen.Lesson, error)
	Delete(ctx context.Context, id int64) error
	ListByCourse(ctx context.Context, courseID int64) ([]sqlcgen.Lesson, error)
}

type ResourceStore interface {
	Create(ctx context.Context, params sqlcgen.CreateResourceParams) (sqlcgen.Resource, error)
	CreateQuiz(ctx context.Context, params sqlcgen.CreateResourceParams, payload []byte, authorID int64) (sqlcgen.Resource, error)
	Get(ctx context.Context, id int64) (sqlcgen.Resource, error)
	Delete(ctx context.Context, id int64) error
	ListByLesson(ctx context.Context, lessonID int64) ([]sqlcgen.Resource, error)
}

// QuizWarmer accepts quiz resource ids for background cache loading.
type QuizWarmer interface {
	Enqueue(resourceID int64) bool
}

// QuizInvalidator drops cached quiz documents.
type QuizInvalidator interface {
	Invalidate(ctx context.Context, resourceID int64) error
}

// Service manages the course, lesson and resource catalog.
type Service struct {
	courses   CourseStore
	lessons   LessonStore
	resources ResourceStore
	warmer    QuizWarmer
	cache     QuizInvalidator
	logger    zerolog.Logger
}

// NewService wires the catalog. warmer and cache may be nil.
func NewService(courses CourseStore, lessons LessonStore, resources ResourceStore, warmer QuizWarmer, cache QuizInvalidator, logger zerolog.Logger) *Service {
	return &Service{
		courses:   courses,
		lessons:   lessons,
		resources: resources,
		warmer:    warmer,
		cache:     cache,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func requireAuthor(p auth.Principal) error {
	if !p.Role.CanAuthor() {
		return ErrForbidden
	}
	return nil
}

func mapNotFound(err, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}

// CreateCourse adds a course owned by p.
func (s *Service) CreateCourse(ctx context.Context, p auth.Principal, in CourseInput) (Course, error) {
	if err := requireAuthor(p); err != nil {
		return Course{}, err
	}
	if err := in.normalize(); err != nil {
		return Course{}, err
	}
	row, err := s.courses.Create(ctx, sqlcgen.CreateCourseParams{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		CreatedBy:   p.UserID,
	})
	if err != nil {
		return Course{}, fmt.Errorf("create course: %w", err)
	}
	s.logger.Info().Int64("course_id", row.ID).Int64("user_id", p.UserID).Msg("course created")
	return toCourse(row), nil
}

// GetCourse returns a course by id.
func (s *Service) GetCourse(ctx context.Context, id int64) (Course, error) {
	row, err := s.courses.Get(ctx, id)
	if err != nil {
		return Course{}, mapNotFound(err, ErrCourseNotFound)
	}
	return toCourse(row), nil
}

// UpdateCourse replaces the editable fields of a course.
func (s *Service) UpdateCourse(ctx context.Context, p auth.Principal, id int64, in CourseInput) (Course, error) {
	if err := requireAuthor(p); err != nil {
		return Course{}, err
	}
	if err := in.normalize(); err != nil {
		return Course{}, err
	}
	row, err := s.courses.Update(ctx, sqlcgen.UpdateCourseParams{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
	})
	if err != nil {
		return Course{}, mapNotFound(err, ErrCourseNotFound)
	}
	return toCourse(row), nil
}

// DeleteCourse removes the course with everything below it and drops cached quizzes of
// its lessons.
func (s *Service) DeleteCourse(ctx context.Context, p auth.Principal, id int64) error {
	if err := requireAuthor(p); err != nil {
		return err
	}
	lessons, err := s.lessons.ListByCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}
	var quizIDs []int64
	for _, l := range lessons {
		ids, err := s.quizIDs(ctx, l.ID)
		if err != nil {
			return err
		}
		quizIDs = append(quizIDs, ids...)
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrCourseNotFound)
	}
	s.invalidate(ctx, quizIDs...)
	s.logger.Info().Int64("course_id", id).Int64("user_id", p.UserID).Msg("course deleted")
	return nil
}

// ListCourses searches the catalog. Params are clamped to the allowed page size.
func (s *Service) ListCourses(ctx context.Context, params ListParams) ([]Course, error) {
	params = params.normalize()
	rows, err := s.courses.List(ctx, sqlcgen.ListCoursesParams{
		Query:     escapeLike(params.Query),
		Category:  params.Category,
		Sort:      string(params.Sort),
		RowLimit:  int32(params.Limit),
		RowOffset: int32(params.Offset),
	})
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	out := make([]Course, 0, len(rows))
	for _, row := range rows {
		out = append(out, toCourse(row))
	}
	return out, nil
}

// CreateLesson appends the lesson to the course unless a position is given.
func (s *Service) CreateLesson(ctx context.Context, p auth.Principal, courseID int64, in LessonInput) (Lesson, error) {
	if err := requireAuthor(p); err != nil {
		return Lesson{}, err
	}
	if err := in.normalize(); err != nil {
		return Lesson{}, err
	}
	if _, err := s.courses.Get(ctx, courseID); err != nil {
		return Lesson{}, mapNotFound(err, ErrCourseNotFound)
	}

	position := 0
	if in.Position != nil {
		position = *in.Position
	} else {
		existing, err := s.lessons.ListByCourse(ctx, courseID)
		if err != nil {
			return Lesson{}, fmt.Errorf("list lessons: %w", err)
		}
		position = len(existing)
	}

	row, err := s.lessons.Create(ctx, sqlcgen.CreateLessonParams{
		CourseID: courseID,
		Title:    in.Title,
		Content:  in.Content,
		Position: int32(position),
	})
	if err != nil {
		return Lesson{}, fmt.Errorf("create lesson: %w", err)
	}
	return toLesson(row), nil
}

// GetLesson returns a lesson by id.
func (s *Service) GetLesson(ctx context.Context, id int64) (Lesson, error) {
	row, err := s.lessons.Get(ctx, id)
	if err != nil {
		return Lesson{}, mapNotFound(err, ErrLessonNotFound)
	}
	return toLesson(row), nil
}

// UpdateLesson renames or moves a lesson. A nil position keeps the current one.
func (s *Service) UpdateLesson(ctx context.Context, p auth.Principal, id int64, in LessonInput) (Lesson, error) {
	if err := requireAuthor(p); err != nil {
		return Lesson{}, err
	}
	if err := in.normalize(); err != nil {
		return Lesson{}, err
	}
	current, err := s.lessons.Get(ctx, id)
	if err != nil {
		return Lesson{}, mapNotFound(err, ErrLessonNotFound)
	}
	position := current.Position
	if in.Position != nil {
		position = int32(*in.Position)
	}
	row, err := s.lessons.Update(ctx, sqlcgen.UpdateLessonParams{
		ID:       id,
		Title:    in.Title,
		Content:  in.Content,
		Position: position,
	})
	if err != nil {
		return Lesson{}, mapNotFound(err, ErrLessonNotFound)
	}
	return toLesson(row), nil
}

// DeleteLesson removes a lesson with its resources and drops their cached quizzes.
func (s *Service) DeleteLesson(ctx context.Context, p auth.Principal, id int64) error {
	if err := requireAuthor(p); err != nil {
		return err
	}
	quizIDs, err := s.quizIDs(ctx, id)
	if err != nil {
		return err
	}
	if err := s.lessons.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrLessonNotFound)
	}
	s.invalidate(ctx, quizIDs...)
	return nil
}

// ListLessons returns the course lessons ordered by position.
func (s *Service) ListLessons(ctx context.Context, courseID int64) ([]Lesson, error) {
	if _, err := s.courses.Get(ctx, courseID); err != nil {
		return nil, mapNotFound(err, ErrCourseNotFound)
	}
	rows, err := s.lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	out := make([]Lesson, 0, len(rows))
	for _, row := range rows {
		out = append(out, toLesson(row))
	}
	return out, nil
}

// CreateResource attaches a resource to a lesson. Quiz resources start with an empty quiz
// titled after the resource.
func (s *Service) CreateResource(ctx context.Context, p auth.Principal, lessonID int64, in ResourceInput) (Resource, error) {
	if err := requireAuthor(p); err != nil {
		return Resource{}, err
	}
	if err := in.normalize(); err != nil {
		return Resource{}, err
	}
	if _, err := s.lessons.Get(ctx, lessonID); err != nil {
		return Resource{}, mapNotFound(err, ErrLessonNotFound)
	}

	params := sqlcgen.CreateResourceParams{
		LessonID: lessonID,
		Kind:     string(in.Kind),
		Title:    in.Title,
		Url:      in.URL,
	}
	var (
		row sqlcgen.Resource
		err error
	)
	if in.Kind == KindQuiz {
		qz := quiz.New()
		qz.Settings.Title = in.Title
		payload, encErr := quiz.Encode(qz)
		if encErr != nil {
			return Resource{}, fmt.Errorf("encode quiz: %w", encErr)
		}
		row, err = s.resources.CreateQuiz(ctx, params, payload, p.UserID)
	} else {
		row, err = s.resources.Create(ctx, params)
	}
	if err != nil {
		return Resource{}, fmt.Errorf("create resource: %w", err)
	}
	s.logger.Info().
		Int64("resource_id", row.ID).
		Int64("lesson_id", lessonID).
		Str("kind", row.Kind).
		Msg("resource created")
	return toResource(row), nil
}

// GetResource returns a resource by id.
func (s *Service) GetResource(ctx context.Context, id int64) (Resource, error) {
	row, err := s.resources.Get(ctx, id)
	if err != nil {
		return Resource{}, mapNotFound(err, ErrResourceNotFound)
	}
	return toResource(row), nil
}

// DeleteResource removes a resource and its quiz, if any.
func (s *Service) DeleteResource(ctx context.Context, p auth.Principal, id int64) error {
	if err := requireAuthor(p); err != nil {
		return err
	}
	if err := s.resources.Delete(ctx, id); err != nil {
		return mapNotFound(err, ErrResourceNotFound)
	}
	s.invalidate(ctx, id)
	return nil
}

// ListResources returns the lesson resources and queues its quizzes for cache warming.
func (s *Service) ListResources(ctx context.Context, lessonID int64) ([]Resource, error) {
	if _, err := s.lessons.Get(ctx, lessonID); err != nil {
		return nil, mapNotFound(err, ErrLessonNotFound)
	}
	rows, err := s.resources.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	out := make([]Resource, 0, len(rows))
	for _, row := range rows {
		if Kind(row.Kind) == KindQuiz && s.warmer != nil && !s.warmer.Enqueue(row.ID) {
			s.logger.Debug().Int64("resource_id", row.ID).Msg("warm queue full")
		}
		out = append(out, toResource(row))
	}
	return out, nil
}

func (s *Service) quizIDs(ctx context.Context, lessonID int64) ([]int64, error) {
	rows, err := s.resources.ListByLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	var ids []int64
	for _, row := range rows {
		if Kind(row.Kind) == KindQuiz {
			ids = append(ids, row.ID)
		}
	}
	return ids, nil
}

func (s *Service) invalidate(ctx context.Context, resourceIDs ...int64) {
	if s.cache == nil {
		return
	}
	for _, id := range resourceIDs {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.logger.Warn().Err(err).Int64("resource_id", id).Msg("quiz cache invalidation failed")
		}
	}
}

func toCourse(row sqlcgen.Course) Course {
	return Course{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Category:    row.Category,
		Price:       row.Price,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func toLesson(row sqlcgen.Lesson) Lesson {
	return Lesson{
		ID:        row.ID,
		CourseID:  row.CourseID,
		Title:     row.Title,
		Content:   row.Content,
		Position:  int(row.Position),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

func toResource(row sqlcgen.Resource) Resource {
	return Resource{
		ID:        row.ID,
		LessonID:  row.LessonID,
		Kind:      Kind(row.Kind),
		Title:     row.Title,
		URL:       row.Url,
		CreatedAt: row.CreatedAt.Time,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes q match literally inside an ILIKE pattern.
func escapeLike(q string) string {
	return likeEscaper.Replace(q)
}
