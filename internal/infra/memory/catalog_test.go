package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"wiki-quiz-service/internal/domain"
)

func TestCatalogHistoryNewestFirst(t *testing.T) {
	older := sampleRecord()
	newer := sampleRecord()
	newer.ID = "quiz-2"
	newer.GeneratedAt = older.GeneratedAt.Add(time.Hour)

	catalog := NewCatalog(older)
	if err := catalog.SaveQuiz(context.Background(), newer); err != nil {
		t.Fatalf("save: %v", err)
	}

	items, err := catalog.ListHistory(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "quiz-2" || items[1].ID != "quiz-1" {
		t.Fatalf("expected newest first, got %+v", items)
	}
}

func TestCatalogGetRecord(t *testing.T) {
	catalog := NewCatalog(sampleRecord())

	record, err := catalog.GetRecord(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.URL != "https://en.wikipedia.org/wiki/Arithmetic" || len(record.Quiz.Questions) != 1 {
		t.Fatalf("unexpected record %+v", record)
	}
	if _, err := catalog.GetRecord(context.Background(), "nope"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}
