package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"wiki-quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// QuizLoader fetches quiz content from a backing store (Postgres, SQLite, memory).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizCache keeps quiz documents in process memory for ttl (plus up to 10%
// jitter). Concurrent misses for one quiz share a single load.
type QuizCache struct {
	loader QuizLoader
	ttl    time.Duration
	clock  func() time.Time
	group  singleflight.Group

	mu      sync.RWMutex
	rnd     *rand.Rand
	entries map[string]cacheEntry
}

type cacheEntry struct {
	quiz      domain.Quiz
	expiresAt time.Time
}

func NewQuizCache(loader QuizLoader, ttl time.Duration) *QuizCache {
	return NewQuizCacheWithClock(loader, ttl, time.Now)
}

// NewQuizCacheWithClock is used by tests to control expiry.
func NewQuizCacheWithClock(loader QuizLoader, ttl time.Duration, clock func() time.Time) *QuizCache {
	return &QuizCache{
		loader:  loader,
		ttl:     ttl,
		clock:   clock,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		entries: make(map[string]cacheEntry),
	}
}

func (c *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.lookup(quizID); ok {
		return quiz, nil
	}

	v, err, _ := c.group.Do(quizID, func() (interface{}, error) {
		if quiz, ok := c.lookup(quizID); ok {
			return quiz, nil
		}
		quiz, err := c.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		c.store(quizID, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return v.(domain.Quiz), nil
}

// Forget drops a cached quiz so the next read goes to the loader.
func (c *QuizCache) Forget(quizID string) {
	c.mu.Lock()
	delete(c.entries, quizID)
	c.mu.Unlock()
}

func (c *QuizCache) lookup(quizID string) (domain.Quiz, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[quizID]
	if !ok || !entry.expiresAt.After(c.clock()) {
		return domain.Quiz{}, false
	}
	return entry.quiz, true
}

func (c *QuizCache) store(quizID string, quiz domain.Quiz) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[quizID] = cacheEntry{quiz: quiz, expiresAt: c.clock().Add(c.ttlWithJitterLocked())}
}

func (c *QuizCache) ttlWithJitterLocked() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
