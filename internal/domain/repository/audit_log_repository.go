package repository

import (
	"context"

	"physiocare/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindRecent(ctx context.Context, db *gorm.DB, limit int) ([]entity.AuditLog, error)
}
