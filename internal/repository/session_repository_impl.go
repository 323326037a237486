package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"physiocare/internal/domain/entity"
	domainRepo "physiocare/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

type sessionRepository struct {
	redisClient *redis.Client
}

func NewSessionRepository(redisClient *redis.Client) domainRepo.SessionRepository {
	return &sessionRepository{redisClient: redisClient}
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return r.redisClient.Set(ctx, sessionKey(session.ID), payload, ttl).Err()
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	payload, err := r.redisClient.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	return r.redisClient.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
