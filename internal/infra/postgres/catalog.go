package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"wiki-quiz-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Catalog reads quizzes and their history metadata from Postgres.
type Catalog struct {
	pool *pgxpool.Pool
}

func NewCatalog(pool *pgxpool.Pool) *Catalog {
	return &Catalog{pool: pool}
}

// LoadQuiz loads the quiz JSONB document.
func (c *Catalog) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := c.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	quiz.ID = quizID
	return quiz, nil
}

func (c *Catalog) GetRecord(ctx context.Context, quizID string) (domain.QuizRecord, error) {
	var (
		record domain.QuizRecord
		raw    []byte
	)
	err := c.pool.QueryRow(ctx,
		`SELECT id, url, title, generated_at, data FROM quizzes WHERE id=$1`, quizID,
	).Scan(&record.ID, &record.URL, &record.Title, &record.GeneratedAt, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizRecord{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizRecord{}, fmt.Errorf("get quiz record: %w", err)
	}
	if err := json.Unmarshal(raw, &record.Quiz); err != nil {
		return domain.QuizRecord{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	record.Quiz.ID = record.ID
	return record, nil
}

// ListHistory returns summaries newest first.
func (c *Catalog) ListHistory(ctx context.Context) ([]domain.HistoryItem, error) {
	rows, err := c.pool.Query(ctx, `SELECT id, url, title, generated_at FROM quizzes ORDER BY generated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	items := []domain.HistoryItem{}
	for rows.Next() {
		var item domain.HistoryItem
		if err := rows.Scan(&item.ID, &item.URL, &item.Title, &item.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
