package app

import (
	"context"
	"fmt"
	"time"

	"wiki-quiz-service/internal/domain"
	"wiki-quiz-service/internal/quizdoc"

	"github.com/google/uuid"
)

// QuizSaver persists generated quizzes into the catalog.
type QuizSaver interface {
	SaveQuiz(ctx context.Context, record domain.QuizRecord) error
}

// Importer turns raw generator output into catalog entries.
type Importer struct {
	saver QuizSaver
	now   func() time.Time
	newID func() string
}

func NewImporter(saver QuizSaver) *Importer {
	return NewImporterWithClock(saver, time.Now, uuid.NewString)
}

// NewImporterWithClock allows deterministic ids and timestamps in tests.
func NewImporterWithClock(saver QuizSaver, now func() time.Time, newID func() string) *Importer {
	return &Importer{saver: saver, now: now, newID: newID}
}

// Import decodes and validates a generator document, then stores it under a new id.
func (i *Importer) Import(ctx context.Context, sourceURL string, raw []byte) (domain.HistoryItem, error) {
	quiz, err := quizdoc.Decode(raw)
	if err != nil {
		return domain.HistoryItem{}, err
	}
	return i.ImportQuiz(ctx, sourceURL, quiz)
}

// ImportQuiz validates an already decoded quiz and stores it under a new id.
func (i *Importer) ImportQuiz(ctx context.Context, sourceURL string, quiz domain.Quiz) (domain.HistoryItem, error) {
	if err := domain.ValidateQuiz(quiz); err != nil {
		return domain.HistoryItem{}, err
	}

	quiz.ID = i.newID()
	item := domain.HistoryItem{
		ID:          quiz.ID,
		Title:       quiz.Title,
		URL:         sourceURL,
		GeneratedAt: i.now().UTC(),
	}
	if err := i.saver.SaveQuiz(ctx, domain.QuizRecord{HistoryItem: item, Quiz: quiz}); err != nil {
		return domain.HistoryItem{}, fmt.Errorf("save quiz: %w", err)
	}
	return item, nil
}
