package repository

import (
	"context"
	"time"

	"physiocare/internal/domain/entity"
)

// SessionRepository stores browser sessions. FindByID returns (nil, nil) for
// unknown or expired sessions.
type SessionRepository interface {
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	FindByID(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
