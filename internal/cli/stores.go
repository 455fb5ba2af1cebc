package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wiki-quiz-service/internal/app"
	"wiki-quiz-service/internal/config"
	"wiki-quiz-service/internal/domain"
	"wiki-quiz-service/internal/infra/memory"
	"wiki-quiz-service/internal/infra/postgres"
	"wiki-quiz-service/internal/infra/sqlite"

	"github.com/jackc/pgx/v4/pgxpool"
)

// catalogStore is what the service needs from a quiz catalog backend.
type catalogStore interface {
	memory.QuizLoader
	app.Catalog
	app.QuizSaver
}

// postgresCatalog reads through pgx and writes through bun.
type postgresCatalog struct {
	*postgres.Catalog
	*postgres.Writer
}

// openCatalog picks the configured backend: Postgres, then SQLite, then the
// in-memory sample catalog. persistent is false for the in-memory fallback.
func openCatalog(ctx context.Context, cfg config.Config, logger *slog.Logger) (store catalogStore, persistent bool, closeFn func(), err error) {
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, false, nil, fmt.Errorf("connect postgres: %w", err)
		}
		db := postgres.OpenBun(cfg.Postgres.URL)
		logger.Info("using postgres catalog")
		return postgresCatalog{Catalog: postgres.NewCatalog(pool), Writer: postgres.NewWriter(db)}, true, func() {
			pool.Close()
			db.Close()
		}, nil
	case cfg.SQLite.Path != "":
		catalog, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, false, nil, err
		}
		logger.Info("using sqlite catalog", "path", cfg.SQLite.Path)
		return catalog, true, func() { catalog.Close() }, nil
	default:
		logger.Warn("no catalog configured, serving the in-memory sample quiz")
		return memory.NewCatalog(sampleQuizzes()...), false, func() {}, nil
	}
}

// sampleQuizzes seeds the in-memory catalog so the service is usable without a database.
func sampleQuizzes() []domain.QuizRecord {
	return []domain.QuizRecord{
		{
			HistoryItem: domain.HistoryItem{
				ID:          "quiz-1",
				Title:       "Alan Turing",
				URL:         "https://en.wikipedia.org/wiki/Alan_Turing",
				GeneratedAt: time.Date(2024, 11, 22, 0, 0, 0, 0, time.UTC),
			},
			Quiz: domain.Quiz{
				ID:      "quiz-1",
				Title:   "Alan Turing",
				Summary: "English mathematician and computer scientist, a founder of theoretical computer science.",
				Questions: []domain.Question{
					{
						Text:        "Where did Alan Turing work during the Second World War?",
						Options:     []string{"Bletchley Park", "Los Alamos", "Bell Labs", "Cambridge"},
						Answer:      "Bletchley Park",
						Difficulty:  "easy",
						Explanation: "He led Hut 8, responsible for German naval cryptanalysis.",
					},
					{
						Text:        "What did Turing propose as a test of machine intelligence?",
						Options:     []string{"The imitation game", "The halting test", "The Church test", "The Enigma test"},
						Answer:      "The imitation game",
						Difficulty:  "medium",
						Explanation: "Described in his 1950 paper Computing Machinery and Intelligence.",
					},
					{
						Text:        "Which abstract device bears his name?",
						Options:     []string{"Turing machine", "Turing engine", "Turing lattice", "Turing relay"},
						Answer:      "Turing machine",
						Difficulty:  "hard",
						Explanation: "Introduced in 1936 in On Computable Numbers.",
					},
				},
				RelatedTopics: []string{"Enigma machine", "Computability theory"},
			},
		},
	}
}
