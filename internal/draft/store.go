// Package draft caches setup and site-plan data for a project that does not
// exist server-side yet. One fixed key per editing session; the entry is
// cleared whenever a blank project context is entered.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nurpe/construction-projects/internal/model"
)

const keyPrefix = "wizard:draft:"

// Draft is the transient pre-creation state of the first two wizard steps.
type Draft struct {
	Setup     model.Setup     `json:"setup"`
	SitePlan  *model.SitePlan `json:"site_plan,omitempty"`
	StepIndex int             `json:"step_index"`
	SavedAt   time.Time       `json:"saved_at"`
}

type Store struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *Store) Save(ctx context.Context, sessionID string, d Draft) error {
	d.SavedAt = time.Now().UTC()
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, key(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

// Load returns nil without error when no draft exists for the session.
func (s *Store) Load(ctx context.Context, sessionID string) (*Draft, error) {
	raw, err := s.client.Get(ctx, key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
