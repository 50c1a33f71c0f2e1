package assessment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/lms-platform/internal/quiz"
)

type quizLoader interface {
	Load(ctx context.Context, resourceID int64) (quiz.Quiz, error)
}

// Warmer loads quizzes into the cache ahead of the first learner request.
type Warmer struct {
	loader  quizLoader
	queue   chan int64
	logger  zerolog.Logger
	timeout time.Duration
}

// NewWarmer creates a warmer with a bounded queue of queueSize resource ids.
func NewWarmer(loader quizLoader, queueSize int, timeout time.Duration, logger zerolog.Logger) *Warmer {
	if queueSize <= 0 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &Warmer{
		loader:  loader,
		queue:   make(chan int64, queueSize),
		logger:  logger.With().Str("component", "quiz_warmer").Logger(),
		timeout: timeout,
	}
}

// Enqueue schedules a resource for warming. It never blocks; false means the queue is full.
func (w *Warmer) Enqueue(resourceID int64) bool {
	select {
	case w.queue <- resourceID:
		return true
	default:
		return false
	}
}

// Run drains the queue until ctx is cancelled.
func (w *Warmer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("quiz warmer stopping")
			return ctx.Err()
		case id := <-w.queue:
			w.handle(ctx, id)
		}
	}
}

func (w *Warmer) handle(ctx context.Context, resourceID int64) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if _, err := w.loader.Load(ctx, resourceID); err != nil {
		w.logger.Warn().Err(err).Int64("resource_id", resourceID).Msg("prefetch failed")
	}
}
