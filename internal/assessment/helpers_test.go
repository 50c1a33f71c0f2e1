package assessment

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/lms-platform/internal/db/sqlc"
	ws "github.com/gokatarajesh/lms-platform/pkg/http/ws"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetPayload(ctx context.Context, resourceID int64) ([]byte, error) {
	args := m.Called(ctx, resourceID)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockStore) UpsertPayload(ctx context.Context, resourceID int64, payload []byte, authorID int64) error {
	return m.Called(ctx, resourceID, payload, authorID).Error(0)
}

func (m *mockStore) CreateAttempt(ctx context.Context, params sqlcgen.CreateQuizAttemptParams) (sqlcgen.QuizAttempt, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(sqlcgen.QuizAttempt), args.Error(1)
}

func (m *mockStore) CountAttempts(ctx context.Context, resourceID, userID int64) (int, error) {
	args := m.Called(ctx, resourceID, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) ListAttempts(ctx context.Context, resourceID, userID int64) ([]sqlcgen.QuizAttempt, error) {
	args := m.Called(ctx, resourceID, userID)
	return args.Get(0).([]sqlcgen.QuizAttempt), args.Error(1)
}

type mockResources struct {
	mock.Mock
}

func (m *mockResources) Get(ctx context.Context, id int64) (sqlcgen.Resource, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(sqlcgen.Resource), args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ws.QuizSavedPayload
}

func (p *recordingPublisher) PublishSaved(_ context.Context, evt ws.QuizSavedPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Events() []ws.QuizSavedPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ws.QuizSavedPayload(nil), p.events...)
}

const samplePayload = `{
	"questions": [
		{"id": 1, "type": "multiple", "question": "2+2", "options": ["3","4"], "correctAnswer": 1},
		{"id": 2, "type": "short", "question": "Capital of France", "correctAnswers": ["Paris"]}
	],
	"settings": {"title": "Checkpoint", "passingScore": 50, "allowRetakes": true, "showResults": true}
}`
