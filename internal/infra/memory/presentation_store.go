package memory

import (
	"context"
	"sync"

	"wiki-quiz-service/internal/app"
	"wiki-quiz-service/internal/domain"
)

// PresentationStore is an in-memory implementation of app.PresentationRepository.
type PresentationStore struct {
	mu            sync.RWMutex
	presentations map[string]app.Presentation
}

func NewPresentationStore() *PresentationStore {
	return &PresentationStore{
		presentations: make(map[string]app.Presentation),
	}
}

func (s *PresentationStore) Save(_ context.Context, p app.Presentation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presentations[p.ID] = p
	return nil
}

func (s *PresentationStore) Get(_ context.Context, id string) (app.Presentation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presentations[id]
	if !ok {
		return app.Presentation{}, domain.ErrPresentationNotFound
	}
	return p, nil
}

func (s *PresentationStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.presentations[id]; !ok {
		return domain.ErrPresentationNotFound
	}
	delete(s.presentations, id)
	return nil
}

// Len reports the number of open presentations.
func (s *PresentationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.presentations)
}
