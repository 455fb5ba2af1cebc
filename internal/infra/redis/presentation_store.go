package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wiki-quiz-service/internal/app"
	"wiki-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
)

// PresentationStore keeps presentation state in Redis so any instance can
// serve a presentation. Each save refreshes the TTL; an abandoned
// presentation expires on its own.
type PresentationStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPresentationStore(client *redis.Client, ttl time.Duration) *PresentationStore {
	return &PresentationStore{client: client, ttl: ttl}
}

func (s *PresentationStore) Save(ctx context.Context, p app.Presentation) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal presentation: %w", err)
	}
	if err := s.client.Set(ctx, s.key(p.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save presentation: %w", err)
	}
	return nil
}

func (s *PresentationStore) Get(ctx context.Context, id string) (app.Presentation, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if isMiss(err) {
		return app.Presentation{}, domain.ErrPresentationNotFound
	}
	if err != nil {
		return app.Presentation{}, fmt.Errorf("get presentation: %w", err)
	}
	var p app.Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		return app.Presentation{}, fmt.Errorf("unmarshal presentation: %w", err)
	}
	return p, nil
}

func (s *PresentationStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete presentation: %w", err)
	}
	if n == 0 {
		return domain.ErrPresentationNotFound
	}
	return nil
}

func (s *PresentationStore) key(id string) string {
	return "quiz:presentation:" + id
}
