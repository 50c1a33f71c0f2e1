package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/lms-platform/internal/auth"
	"github.com/gokatarajesh/lms-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
	"github.com/gokatarajesh/lms-platform/internal/metrics"
	"github.com/gokatarajesh/lms-platform/internal/quiz"
	"github.com/gokatarajesh/lms-platform/internal/quiz/scoring"
	ws "github.com/gokatarajesh/lms-platform/pkg/http/ws"
)

// ResourceKindQuiz is the resource kind that owns a quiz document.
const ResourceKindQuiz = "quiz"

// Store persists quiz documents and attempts (implemented by repository.QuizRepository).
type Store interface {
	GetPayload(ctx context.Context, resourceID int64) ([]byte, error)
	UpsertPayload(ctx context.Context, resourceID int64, payload []byte, authorID int64) error
	CreateAttempt(ctx context.Context, params sqlcgen.CreateQuizAttemptParams) (sqlcgen.QuizAttempt, error)
	CountAttempts(ctx context.Context, resourceID, userID int64) (int, error)
	ListAttempts(ctx context.Context, resourceID, userID int64) ([]sqlcgen.QuizAttempt, error)
}

// ResourceLookup resolves lesson resources (implemented by repository.ResourceRepository).
type ResourceLookup interface {
	Get(ctx context.Context, id int64) (sqlcgen.Resource, error)
}

// EventPublisher announces saved quizzes to other API instances.
type EventPublisher interface {
	PublishSaved(ctx context.Context, evt ws.QuizSavedPayload) error
}

// Attempt is one graded submission.
type Attempt struct {
	ID          int64          `json:"id"`
	ResourceID  int64          `json:"resourceId"`
	Number      int            `json:"number"`
	Result      scoring.Result `json:"result"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// ServiceOptions tunes a Service. A nil Engine uses the default grading config.
type ServiceOptions struct {
	Engine  *scoring.Engine
	Metrics *metrics.Metrics
}

// Service loads, saves and grades quizzes attached to lesson resources.
type Service struct {
	store     Store
	resources ResourceLookup
	cache     QuizCache
	publisher EventPublisher
	engine    *scoring.Engine
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService wires the quiz service. cache and publisher may be nil.
func NewService(store Store, resources ResourceLookup, cache QuizCache, publisher EventPublisher, opts ServiceOptions, logger zerolog.Logger) *Service {
	engine := opts.Engine
	if engine == nil {
		engine = scoring.NewEngine(scoring.DefaultConfig())
	}
	return &Service{
		store:     store,
		resources: resources,
		cache:     cache,
		publisher: publisher,
		engine:    engine,
		metrics:   opts.Metrics,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
		now:       time.Now,
	}
}

// Load returns the quiz for a resource, consulting the cache first. Cache failures are
// logged and fall through to the store.
func (s *Service) Load(ctx context.Context, resourceID int64) (quiz.Quiz, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, resourceID)
		switch {
		case err != nil:
			s.metrics.CacheLookup("error")
			s.logger.Warn().Err(err).Int64("resource_id", resourceID).Msg("quiz cache read failed")
		case cached != nil:
			s.metrics.CacheLookup("hit")
			return *cached, nil
		default:
			s.metrics.CacheLookup("miss")
		}
	}
	return s.loadFromStore(ctx, resourceID)
}

// Refetch drops any cached copy and reloads the quiz from the store.
func (s *Service) Refetch(ctx context.Context, resourceID int64) (quiz.Quiz, error) {
	s.invalidate(ctx, resourceID)
	return s.loadFromStore(ctx, resourceID)
}

// ForPrincipal loads the quiz as p may see it: authors get the answer keys, everyone
// else the student view.
func (s *Service) ForPrincipal(ctx context.Context, p auth.Principal, resourceID int64) (quiz.Quiz, error) {
	qz, err := s.Load(ctx, resourceID)
	if err != nil {
		return quiz.Quiz{}, err
	}
	return ViewFor(p, resourceID, qz), nil
}

// ViewFor applies the visibility rules of p to qz.
func ViewFor(p auth.Principal, resourceID int64, qz quiz.Quiz) quiz.Quiz {
	if p.Role.CanAuthor() {
		return qz
	}
	return quiz.StudentView(qz, p.UserID<<20^resourceID)
}

// Save validates qz and replaces the stored document. Validation failures are returned
// as *quiz.ValidationError and nothing is written.
func (s *Service) Save(ctx context.Context, p auth.Principal, resourceID int64, qz quiz.Quiz) (quiz.Quiz, error) {
	if !p.Role.CanAuthor() {
		return quiz.Quiz{}, quiz.ErrForbidden
	}
	if err := s.ensureQuizResource(ctx, resourceID); err != nil {
		return quiz.Quiz{}, err
	}

	qz.Settings = qz.Settings.Normalize()
	if err := quiz.ValidateQuiz(qz); err != nil {
		s.metrics.ValidationFailed()
		s.metrics.SaveOutcome("invalid")
		return quiz.Quiz{}, err
	}

	data, err := quiz.Encode(qz)
	if err != nil {
		s.metrics.SaveOutcome("error")
		return quiz.Quiz{}, fmt.Errorf("encode quiz %d: %w", resourceID, err)
	}
	if err := s.store.UpsertPayload(ctx, resourceID, data, p.UserID); err != nil {
		s.metrics.SaveOutcome("error")
		return quiz.Quiz{}, fmt.Errorf("store quiz %d: %w", resourceID, err)
	}
	s.invalidate(ctx, resourceID)
	s.metrics.SaveOutcome("ok")

	if s.publisher != nil {
		evt := ws.QuizSavedPayload{
			ResourceID:    resourceID,
			UpdatedBy:     p.UserID,
			QuestionCount: len(qz.Questions),
			TotalPoints:   qz.TotalPoints(),
			SavedAt:       s.now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishSaved(ctx, evt); err != nil {
			s.logger.Warn().Err(err).Int64("resource_id", resourceID).Msg("publish quiz_saved failed")
		}
	}

	s.logger.Info().
		Int64("resource_id", resourceID).
		Int64("user_id", p.UserID).
		Int("questions", len(qz.Questions)).
		Msg("quiz saved")
	return qz, nil
}

// Submit grades a learner submission and records the attempt.
func (s *Service) Submit(ctx context.Context, p auth.Principal, resourceID int64, sub scoring.Submission) (Attempt, error) {
	if !p.Authenticated() {
		return Attempt{}, ErrUnauthenticated
	}
	qz, err := s.Load(ctx, resourceID)
	if err != nil {
		return Attempt{}, err
	}

	used, err := s.store.CountAttempts(ctx, resourceID, p.UserID)
	if err != nil {
		return Attempt{}, fmt.Errorf("count attempts: %w", err)
	}
	if err := checkAttempts(qz.Settings, used); err != nil {
		return Attempt{}, err
	}

	res := s.engine.Grade(qz, sub)
	answers, err := json.Marshal(sub)
	if err != nil {
		return Attempt{}, fmt.Errorf("encode answers: %w", err)
	}
	result, err := json.Marshal(res)
	if err != nil {
		return Attempt{}, fmt.Errorf("encode result: %w", err)
	}

	row, err := s.store.CreateAttempt(ctx, sqlcgen.CreateQuizAttemptParams{
		ResourceID:    resourceID,
		UserID:        p.UserID,
		AttemptNumber: int32(used + 1),
		Earned:        int32(res.Earned),
		Possible:      int32(res.Possible),
		Percent:       res.Percent,
		Passed:        res.Passed,
		Answers:       answers,
		Result:        result,
	})
	if errors.Is(err, repository.ErrConflict) {
		// a concurrent submit took this attempt number
		return Attempt{}, ErrAttemptConflict
	}
	if err != nil {
		return Attempt{}, fmt.Errorf("store attempt: %w", err)
	}
	s.metrics.AttemptGraded(res.Passed)

	return toAttempt(row, used+1, res, qz.Settings.ShowResults), nil
}

// Attempts lists the caller's attempts for a quiz, newest first.
func (s *Service) Attempts(ctx context.Context, p auth.Principal, resourceID int64) ([]Attempt, error) {
	if !p.Authenticated() {
		return nil, ErrUnauthenticated
	}
	qz, err := s.Load(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListAttempts(ctx, resourceID, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	out := make([]Attempt, 0, len(rows))
	for i, row := range rows {
		var res scoring.Result
		if err := json.Unmarshal(row.Result, &res); err != nil {
			s.logger.Warn().Err(err).Int64("attempt_id", row.ID).Msg("attempt result decode failed")
			res = scoring.Result{
				Earned:   int(row.Earned),
				Possible: int(row.Possible),
				Percent:  row.Percent,
				Passed:   row.Passed,
			}
		}
		out = append(out, toAttempt(row, len(rows)-i, res, qz.Settings.ShowResults))
	}
	return out, nil
}

func (s *Service) loadFromStore(ctx context.Context, resourceID int64) (quiz.Quiz, error) {
	payload, err := s.store.GetPayload(ctx, resourceID)
	if errors.Is(err, repository.ErrNotFound) {
		if kindErr := s.ensureQuizResource(ctx, resourceID); kindErr != nil {
			return quiz.Quiz{}, kindErr
		}
		return quiz.Quiz{}, ErrQuizNotFound
	}
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("load quiz %d: %w", resourceID, err)
	}

	qz, err := quiz.Decode(payload)
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("decode quiz %d: %w", resourceID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, resourceID, qz); err != nil {
			s.logger.Warn().Err(err).Int64("resource_id", resourceID).Msg("quiz cache write failed")
		}
	}
	return qz, nil
}

func (s *Service) ensureQuizResource(ctx context.Context, resourceID int64) error {
	res, err := s.resources.Get(ctx, resourceID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrQuizNotFound
	}
	if err != nil {
		return fmt.Errorf("load resource %d: %w", resourceID, err)
	}
	if res.Kind != ResourceKindQuiz {
		return ErrNotAQuiz
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, resourceID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, resourceID); err != nil {
		s.logger.Warn().Err(err).Int64("resource_id", resourceID).Msg("quiz cache invalidate failed")
	}
}

func checkAttempts(settings quiz.Settings, used int) error {
	if used > 0 && !settings.AllowRetakes {
		return fmt.Errorf("%w: retakes are disabled", ErrAttemptsExhausted)
	}
	if settings.MaxAttempts > 0 && used >= settings.MaxAttempts {
		return fmt.Errorf("%w: limit of %d reached", ErrAttemptsExhausted, settings.MaxAttempts)
	}
	return nil
}

func toAttempt(row sqlcgen.QuizAttempt, number int, res scoring.Result, showResults bool) Attempt {
	if !showResults {
		res.Questions = nil
	}
	return Attempt{
		ID:          row.ID,
		ResourceID:  row.ResourceID,
		Number:      number,
		Result:      res,
		SubmittedAt: row.CreatedAt.Time,
	}
}
