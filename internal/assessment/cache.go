package assessment

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/lms-platform/internal/quiz"
)

const defaultCacheTTL = 5 * time.Minute

// QuizCache stores decoded quizzes by resource id. Get returns (nil, nil) on a miss.
type QuizCache interface {
	Get(ctx context.Context, resourceID int64) (*quiz.Quiz, error)
	Set(ctx context.Context, resourceID int64, qz quiz.Quiz) error
	Invalidate(ctx context.Context, resourceID int64) error
}

// Cache is the Redis-backed QuizCache. Entries hold the canonical JSON document.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ QuizCache = (*Cache)(nil)

// NewCache builds a quiz cache over client. Entries expire after ttl.
func NewCache(client redis.UniversalClient, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(resourceID int64) string {
	return "quiz:" + strconv.FormatInt(resourceID, 10)
}

// Get returns the cached quiz for a resource, or nil on a miss.
func (c *Cache) Get(ctx context.Context, resourceID int64) (*quiz.Quiz, error) {
	data, err := c.client.Get(ctx, cacheKey(resourceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	qz, err := quiz.Decode(data)
	if err != nil {
		return nil, err
	}
	return &qz, nil
}

// Set stores qz under the resource key with the configured TTL.
func (c *Cache) Set(ctx context.Context, resourceID int64, qz quiz.Quiz) error {
	data, err := quiz.Encode(qz)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(resourceID), data, c.ttl).Err()
}

// Invalidate drops the cached quiz of a resource.
func (c *Cache) Invalidate(ctx context.Context, resourceID int64) error {
	return c.client.Del(ctx, cacheKey(resourceID)).Err()
}
