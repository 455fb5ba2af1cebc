package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"wiki-quiz-service/internal/domain"
	"wiki-quiz-service/internal/infra/memory"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuizCache caches quiz documents in Redis and falls back to a loader on miss.
// Documents are stored as JSON under quiz:{quizID}:doc with a jittered TTL.
type QuizCache struct {
	client *redis.Client
	loader memory.QuizLoader
	ttl    time.Duration
	group  singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuizCache(client *redis.Client, loader memory.QuizLoader, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.cached(ctx, quizID); ok {
		return quiz, nil
	}

	v, err, _ := c.group.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another instance filled it.
		if quiz, ok := c.cached(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := c.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("marshal quiz: %w", err)
		}
		// best-effort: a failed write only costs a reload later
		_ = c.client.Set(ctx, docKey(quizID), data, c.ttlWithJitter()).Err()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return v.(domain.Quiz), nil
}

// Forget drops a cached quiz document.
func (c *QuizCache) Forget(ctx context.Context, quizID string) error {
	return c.client.Del(ctx, docKey(quizID)).Err()
}

func (c *QuizCache) cached(ctx context.Context, quizID string) (domain.Quiz, bool) {
	data, err := c.client.Get(ctx, docKey(quizID)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func docKey(quizID string) string {
	return "quiz:" + quizID + ":doc"
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

func isMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
