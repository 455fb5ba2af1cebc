package memory

import (
	"context"
	"errors"
	"testing"

	"wiki-quiz-service/internal/app"
	"wiki-quiz-service/internal/domain"
)

func TestPresentationStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewPresentationStore()

	p := app.Presentation{
		ID:       "p1",
		QuizID:   "quiz-1",
		Snapshot: app.Snapshot{Mode: app.ModeTaking, Selections: map[int]int{0: 1}},
	}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.QuizID != "quiz-1" || got.Snapshot.Selections[0] != 1 {
		t.Fatalf("unexpected presentation %+v", got)
	}

	if err := store.Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "p1"); !errors.Is(err, domain.ErrPresentationNotFound) {
		t.Fatalf("expected presentation removed, got %v", err)
	}
	if err := store.Delete(ctx, "p1"); !errors.Is(err, domain.ErrPresentationNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
