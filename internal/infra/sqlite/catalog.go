// Package sqlite is a single-file quiz catalog for local and single-node runs.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"wiki-quiz-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS quizzes (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    generated_at INTEGER NOT NULL,
    data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS quizzes_generated_at_idx ON quizzes (generated_at DESC);
`

// Catalog stores quiz documents as JSON text; generated_at is unix milliseconds.
type Catalog struct {
	db *sql.DB
}

func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single writer avoids SQLITE_BUSY on concurrent imports
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) SaveQuiz(ctx context.Context, record domain.QuizRecord) error {
	data, err := json.Marshal(record.Quiz)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO quizzes (id, url, title, generated_at, data) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET url = excluded.url, title = excluded.title, data = excluded.data`,
		record.ID, record.URL, record.Title, record.GeneratedAt.UnixMilli(), string(data),
	)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

func (c *Catalog) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	record, err := c.GetRecord(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	return record.Quiz, nil
}

func (c *Catalog) GetRecord(ctx context.Context, quizID string) (domain.QuizRecord, error) {
	var (
		record    domain.QuizRecord
		generated int64
		data      string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT id, url, title, generated_at, data FROM quizzes WHERE id = ?`, quizID,
	).Scan(&record.ID, &record.URL, &record.Title, &generated, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.QuizRecord{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizRecord{}, fmt.Errorf("get quiz: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &record.Quiz); err != nil {
		return domain.QuizRecord{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	record.GeneratedAt = time.UnixMilli(generated).UTC()
	record.Quiz.ID = record.ID
	return record, nil
}

func (c *Catalog) ListHistory(ctx context.Context) ([]domain.HistoryItem, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, url, title, generated_at FROM quizzes ORDER BY generated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	items := []domain.HistoryItem{}
	for rows.Next() {
		var (
			item      domain.HistoryItem
			generated int64
		)
		if err := rows.Scan(&item.ID, &item.URL, &item.Title, &generated); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		item.GeneratedAt = time.UnixMilli(generated).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}
