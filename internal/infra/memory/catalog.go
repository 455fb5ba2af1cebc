package memory

import (
	"context"
	"sort"
	"sync"

	"wiki-quiz-service/internal/domain"
)

// Catalog is an in-memory quiz catalog (useful for tests/demos and as the
// fallback when no database is configured).
type Catalog struct {
	mu      sync.RWMutex
	records map[string]domain.QuizRecord
}

func NewCatalog(records ...domain.QuizRecord) *Catalog {
	c := &Catalog{records: make(map[string]domain.QuizRecord, len(records))}
	for _, r := range records {
		c.records[r.ID] = r
	}
	return c
}

func (c *Catalog) SaveQuiz(_ context.Context, record domain.QuizRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[record.ID] = record
	return nil
}

func (c *Catalog) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	record, err := c.GetRecord(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	return record.Quiz, nil
}

func (c *Catalog) GetRecord(_ context.Context, quizID string) (domain.QuizRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[quizID]
	if !ok {
		return domain.QuizRecord{}, domain.ErrQuizNotFound
	}
	return record, nil
}

// ListHistory returns summaries newest first, ties broken by id.
func (c *Catalog) ListHistory(_ context.Context) ([]domain.HistoryItem, error) {
	c.mu.RLock()
	items := make([]domain.HistoryItem, 0, len(c.records))
	for _, r := range c.records {
		items = append(items, r.HistoryItem)
	}
	c.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if !items[i].GeneratedAt.Equal(items[j].GeneratedAt) {
			return items[i].GeneratedAt.After(items[j].GeneratedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}
