package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore issues and resolves opaque bearer tokens backed by Redis.
type TokenStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type tokenPayload struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	CompanyID int64  `json:"company_id"`
	TeamID    int64  `json:"team_id"`
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, prefix string, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, prefix: prefix, ttl: ttl}
}

// Issue creates a new token for the actor and persists it with the store TTL.
func (s *TokenStore) Issue(ctx context.Context, actor Actor) (string, error) {
	if s == nil || s.client == nil {
		return "", errors.New("token store not configured")
	}
	token := uuid.NewString()
	raw, err := json.Marshal(tokenPayload{
		UserID:    actor.UserID,
		Email:     actor.Email,
		CompanyID: actor.CompanyID,
		TeamID:    actor.TeamID,
	})
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.key(token), raw, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the actor behind a token, or ErrUnauthorized when the
// token is unknown or expired.
func (s *TokenStore) Resolve(ctx context.Context, token string) (*Actor, error) {
	if s == nil || s.client == nil {
		return nil, errors.New("token store not configured")
	}
	if token == "" {
		return nil, ErrUnauthorized
	}
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, ErrUnauthorized
	}
	return &Actor{
		UserID:    payload.UserID,
		Email:     payload.Email,
		CompanyID: payload.CompanyID,
		TeamID:    payload.TeamID,
	}, nil
}

// Revoke deletes a token.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	if s == nil || s.client == nil {
		return errors.New("token store not configured")
	}
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *TokenStore) key(token string) string {
	return fmt.Sprintf("%s:%s", s.prefix, token)
}
