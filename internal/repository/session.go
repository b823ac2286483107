package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const sessionKeyPrefix = "session:"

type SessionRepository interface {
	Save(ctx context.Context, state entity.SessionState) error
	GetByID(ctx context.Context, id string) (entity.SessionState, error)
	DeleteByID(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error
}

type dbSession struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository stores session snapshots as JSON. Every save renews the ttl; zero keeps
// snapshots forever.
func NewSessionRepository(client *redis.Client, ttl time.Duration) SessionRepository {
	return &dbSession{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbSession) Save(ctx context.Context, state entity.SessionState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal session: %w", err)
	}

	if err = that.client.Set(ctx, sessionKeyPrefix+state.ID, stateJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (that *dbSession) GetByID(ctx context.Context, id string) (entity.SessionState, error) {
	response, err := that.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.SessionState{}, apperror.ErrSessionNotFound
	}

	if err != nil {
		return entity.SessionState{}, fmt.Errorf("failed to get session by id: %w", err)
	}

	var state entity.SessionState
	if err = json.Unmarshal(response, &state); err != nil {
		return entity.SessionState{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return state, nil
}

func (that *dbSession) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session by id: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrSessionNotFound
	}

	return nil
}

// Touch renews the ttl of a stored snapshot. Without a ttl snapshots never expire and Touch is a
// no-op.
func (that *dbSession) Touch(ctx context.Context, id string) error {
	if that.ttl <= 0 {
		return nil
	}

	renewed, err := that.client.Expire(ctx, sessionKeyPrefix+id, that.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to renew session ttl: %w", err)
	}

	if !renewed {
		return apperror.ErrSessionNotFound
	}

	return nil
}
