package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wiki-quiz-service/internal/domain"

	"github.com/uptrace/bun"
)

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID          string    `bun:"id,pk"`
	URL         string    `bun:"url"`
	Title       string    `bun:"title"`
	GeneratedAt time.Time `bun:"generated_at"`
	Data        string    `bun:"data,type:jsonb"`
}

// Writer stores generated quizzes through bun.
type Writer struct {
	db *bun.DB
}

func NewWriter(db *bun.DB) *Writer {
	return &Writer{db: db}
}

func (w *Writer) SaveQuiz(ctx context.Context, record domain.QuizRecord) error {
	data, err := json.Marshal(record.Quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	row := &quizRow{
		ID:          record.ID,
		URL:         record.URL,
		Title:       record.Title,
		GeneratedAt: record.GeneratedAt,
		Data:        string(data),
	}
	_, err = w.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("url = EXCLUDED.url").
		Set("title = EXCLUDED.title").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}
