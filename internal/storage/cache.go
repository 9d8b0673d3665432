package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/messages"
)

type cachedProblemStorage struct {
	next   ProblemStorage
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewCachedProblemStorage keeps test cases in Redis in front of next.
// Redis failures are logged and the backing storage is used instead.
func NewCachedProblemStorage(next ProblemStorage, client *redis.Client, ttl time.Duration) ProblemStorage {
	return &cachedProblemStorage{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.NewNamedLogger("cache"),
	}
}

func TestCasesCacheKey(problemID int64) string {
	return constants.TestCasesCacheKeyBase + strconv.FormatInt(problemID, 10)
}

func (c *cachedProblemStorage) LoadTestCases(ctx context.Context, problemID int64) ([]messages.TestCase, error) {
	key := TestCasesCacheKey(problemID)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []messages.TestCase
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			c.logger.Debugf("Cache hit for problem %d", problemID)
			return cached, nil
		}
		c.logger.Warnf("Dropping unreadable cache entry %s", key)
	case errors.Is(err, redis.Nil):
		c.logger.Debugf("Cache miss for problem %d", problemID)
	default:
		c.logger.Warnf("Failed to read cache entry %s: %v", key, err)
	}

	testCases, err := c.next.LoadTestCases(ctx, problemID)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(testCases)
	if err != nil {
		return testCases, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warnf("Failed to cache test cases for problem %d: %v", problemID, err)
	}
	return testCases, nil
}

// LoadSource is not cached, every source is read once.
func (c *cachedProblemStorage) LoadSource(ctx context.Context, key string) (string, error) {
	return c.next.LoadSource(ctx, key)
}
