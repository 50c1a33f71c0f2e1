package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/lms-platform/internal/auth"
	"github.com/gokatarajesh/lms-platform/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
	"github.com/gokatarajesh/lms-platform/internal/metrics"
	"github.com/gokatarajesh/lms-platform/internal/quiz"
	"github.com/gokatarajesh/lms-platform/internal/quiz/scoring"
)

var (
	teacher = auth.Principal{UserID: 10, Role: auth.RoleTeacher}
	student = auth.Principal{UserID: 20, Role: auth.RoleStudent}
)

type serviceFixture struct {
	svc       *Service
	store     *mockStore
	resources *mockResources
	cache     *Cache
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

func newFixture(t *testing.T) serviceFixture {
	t.Helper()
	_, client := newRedis(t)
	f := serviceFixture{
		store:     new(mockStore),
		resources: new(mockResources),
		cache:     NewCache(client, time.Minute),
		publisher: &recordingPublisher{},
		metrics:   metrics.New(prometheus.NewRegistry()),
	}
	f.svc = NewService(f.store, f.resources, f.cache, f.publisher, ServiceOptions{Metrics: f.metrics}, zerolog.Nop())
	f.svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func sampleQuiz(t *testing.T) quiz.Quiz {
	t.Helper()
	qz, err := quiz.Decode([]byte(samplePayload))
	require.NoError(t, err)
	return qz
}

func TestService_LoadIsCacheAside(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.On("GetPayload", mock.Anything, int64(5)).Return([]byte(samplePayload), nil).Once()

	first, err := f.svc.Load(ctx, 5)
	require.NoError(t, err)
	second, err := f.svc.Load(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Checkpoint", first.Settings.Title)
	f.store.AssertNumberOfCalls(t, "GetPayload", 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("miss")))
}

func TestService_LoadMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.On("GetPayload", mock.Anything, int64(8)).Return(nil, repository.ErrNotFound)
	f.store.On("GetPayload", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)
	f.resources.On("Get", mock.Anything, int64(8)).Return(sqlcgen.Resource{ID: 8, Kind: "pdf"}, nil)
	f.resources.On("Get", mock.Anything, int64(9)).Return(sqlcgen.Resource{}, repository.ErrNotFound)

	_, err := f.svc.Load(ctx, 8)
	assert.ErrorIs(t, err, ErrNotAQuiz)

	_, err = f.svc.Load(ctx, 9)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestService_LoadSurvivesCacheOutage(t *testing.T) {
	mr, client := newRedis(t)
	store := new(mockStore)
	svc := NewService(store, new(mockResources), NewCache(client, time.Minute), nil, ServiceOptions{}, zerolog.Nop())
	mr.Close()

	store.On("GetPayload", mock.Anything, int64(5)).Return([]byte(samplePayload), nil)

	qz, err := svc.Load(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, qz.Questions, 2)
}

func TestService_ForPrincipalHidesKeysFromStudents(t *testing.T) {
	f := newFixture(t)
	f.store.On("GetPayload", mock.Anything, int64(5)).Return([]byte(samplePayload), nil)

	full, err := f.svc.ForPrincipal(context.Background(), teacher, 5)
	require.NoError(t, err)
	c, _ := full.Questions[0].Choice()
	assert.Equal(t, []int{1}, c.Correct)

	view, err := f.svc.ForPrincipal(context.Background(), student, 5)
	require.NoError(t, err)
	c, _ = view.Questions[0].Choice()
	assert.Empty(t, c.Correct)
}

func TestService_SaveWritesInvalidatesAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	qz := sampleQuiz(t)

	require.NoError(t, f.cache.Set(ctx, 5, quiz.New()))
	f.resources.On("Get", mock.Anything, int64(5)).Return(sqlcgen.Resource{ID: 5, Kind: ResourceKindQuiz}, nil)

	want, err := quiz.Encode(qz)
	require.NoError(t, err)
	f.store.On("UpsertPayload", mock.Anything, int64(5), want, teacher.UserID).Return(nil)

	saved, err := f.svc.Save(ctx, teacher, 5, qz)
	require.NoError(t, err)
	assert.Equal(t, qz, saved)

	cached, err := f.cache.Get(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, cached, "save invalidates the cached copy")

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, int64(5), events[0].ResourceID)
	assert.Equal(t, 2, events[0].QuestionCount)
	assert.Equal(t, "2026-03-01T12:00:00Z", events[0].SavedAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.QuizSaves.WithLabelValues("ok")))
	f.store.AssertExpectations(t)
}

func TestService_SaveRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Save(ctx, student, 5, sampleQuiz(t))
	assert.ErrorIs(t, err, quiz.ErrForbidden)

	f.resources.On("Get", mock.Anything, int64(5)).Return(sqlcgen.Resource{ID: 5, Kind: ResourceKindQuiz}, nil)
	f.resources.On("Get", mock.Anything, int64(6)).Return(sqlcgen.Resource{ID: 6, Kind: "video"}, nil)

	_, err = f.svc.Save(ctx, teacher, 6, sampleQuiz(t))
	assert.ErrorIs(t, err, ErrNotAQuiz)

	invalid := sampleQuiz(t)
	invalid.Questions[0].Prompt = ""
	_, err = f.svc.Save(ctx, teacher, 5, invalid)
	var verr *quiz.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []quiz.Problem{{QuestionID: 1, Reason: "question text is required"}}, verr.Problems)
	assert.Empty(t, f.publisher.Events())
	f.store.AssertNotCalled(t, "UpsertPayload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ValidationFailures))
}

func TestService_SaveStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.resources.On("Get", mock.Anything, int64(5)).Return(sqlcgen.Resource{ID: 5, Kind: ResourceKindQuiz}, nil)
	boom := errors.New("db down")
	f.store.On("UpsertPayload", mock.Anything, int64(5), mock.Anything, teacher.UserID).Return(boom)

	_, err := f.svc.Save(context.Background(), teacher, 5, sampleQuiz(t))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.publisher.Events())
}

func TestService_Refetch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, 5, quiz.New()))
	f.store.On("GetPayload", mock.Anything, int64(5)).Return([]byte(samplePayload), nil)

	qz, err := f.svc.Refetch(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, qz.Questions, 2)

	cached, err := f.cache.Get(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Len(t, cached.Questions, 2)
}

func TestService_SubmitGradesAndStores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.On("GetPayload", mock.Anything, int64(5)).Return([]byte(samplePayload), nil)
	f.store.On("CountAttempts", mock.Anything, int64(5), student.UserID).Return(1, nil)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.store.On("CreateAttempt", mock.Anything, mock.MatchedBy(func(p sqlcgen.CreateQuizAttemptParams) bool {
		return p.ResourceID == 5 && p.UserID == student.UserID && p.AttemptNumber == 2 &&
			p.Earned == 1 && p.Possible == 2 && p.Passed
	})).Return(sqlcgen.QuizAttempt{
		ID:         33,
		ResourceID: 5,
		CreatedAt:  pgtype.Timestamptz{Time: created, Valid: true},
	}, nil)

	attempt, err := f.svc.Submit(ctx, student, 5, scoring.Submission{Answers: map[int]scoring.Response{
		1: {Selected: []int{1}},
		2: {Text: "Lyon"},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(33), attempt.ID)
	assert.Equal(t, 2, attempt.Number)
	assert.Equal(t, 50.0, attempt.Result.Percent)
	assert.True(t, attempt.Result.Passed)
	assert.Len(t, attempt.Result.Questions, 2)
	assert.Equal(t, created, attempt.SubmittedAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Attempts.WithLabelValues("true")))
}

func TestService_SubmitRespectsAttemptRules(t *testing.T) {
	tests := map[string]struct {
		settings string
		used     int
		allowed  bool
	}{
		"first attempt without retakes":  {settings: `"allowRetakes": false`, used: 0, allowed: true},
		"second attempt without retakes": {settings: `"allowRetakes": false`, used: 1},
		"under the max":                  {settings: `"maxAttempts": 3`, used: 2, allowed: true},
		"at the max":                     {settings: `"maxAttempts": 3`, used: 3},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			payload := `{"questions":[{"id":1,"type":"short","question":"q","correctAnswers":["a"]}],"settings":{` + tc.settings + `}}`
			f.store.On("GetPayload", mock.Anything, int64(5)).Return([]byte(payload), nil)
			f.store.On("CountAttempts", mock.Anything, int64(5), student.UserID).Return(tc.used, nil)
			f.store.On("CreateAttempt", mock.Anything, mock.Anything).Return(sqlcgen.QuizAttempt{ID: 1}, nil)

			_, err := f.svc.Submit(context.Background(), student, 5, scoring.Submission{})
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrAttemptsExhausted)
				f.store.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestService_SubmitHidesBreakdown(t *testing.T) {
	f := newFixture(t)
	payload := `{"questions":[{"id":1,"type":"short","question":"q","correctAnswers":["a"]}],"settings":{"showResults":false}}`
	f.store.On("GetPayload", mock.Anything, int64(5)).Return([]byte(payload), nil)
	f.store.On("CountAttempts", mock.Anything, int64(5), student.UserID).Return(0, nil)
	f.store.On("CreateAttempt", mock.Anything, mock.Anything).Return(sqlcgen.QuizAttempt{ID: 1}, nil)

	attempt, err := f.svc.Submit(context.Background(), student, 5, scoring.Submission{Answers: map[int]scoring.Response{1: {Text: "a"}}})
	require.NoError(t, err)
	assert.Nil(t, attempt.Result.Questions)
	assert.Equal(t, 100.0, attempt.Result.Percent)
}

func TestService_SubmitConcurrentAttempt(t *testing.T) {
	f := newFixture(t)
	f.store.On("GetPayload", mock.Anything, int64(5)).Return([]byte(samplePayload), nil)
	f.store.On("CountAttempts", mock.Anything, int64(5), student.UserID).Return(0, nil)
	f.store.On("CreateAttempt", mock.Anything, mock.MatchedBy(func(p sqlcgen.CreateQuizAttemptParams) bool {
		return p.AttemptNumber == 1
	})).Return(sqlcgen.QuizAttempt{}, repository.ErrConflict)

	_, err := f.svc.Submit(context.Background(), student, 5, scoring.Submission{})
	assert.ErrorIs(t, err, ErrAttemptConflict)
}

func TestService_SubmitRequiresPrincipal(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Submit(context.Background(), auth.Anonymous, 5, scoring.Submission{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestService_Attempts(t *testing.T) {
	f := newFixture(t)
	f.store.On("GetPayload", mock.Anything, int64(5)).Return([]byte(samplePayload), nil)

	stored, err := json.Marshal(scoring.Result{Earned: 2, Possible: 2, Percent: 100, Passed: true})
	require.NoError(t, err)
	f.store.On("ListAttempts", mock.Anything, int64(5), student.UserID).Return([]sqlcgen.QuizAttempt{
		{ID: 2, ResourceID: 5, Result: stored},
		{ID: 1, ResourceID: 5, Earned: 1, Possible: 2, Percent: 50, Result: []byte("not json")},
	}, nil)

	attempts, err := f.svc.Attempts(context.Background(), student, 5)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 2, attempts[0].Number)
	assert.Equal(t, 100.0, attempts[0].Result.Percent)
	assert.Equal(t, 1, attempts[1].Number)
	assert.Equal(t, 50.0, attempts[1].Result.Percent, "falls back to stored columns")
}
