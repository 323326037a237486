package repository

import (
	"context"

	"physiocare/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PhysioRepository interface {
	Create(ctx context.Context, db *gorm.DB, physio *entity.Physio) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Physio, error)
	FindByLicenseNumber(ctx context.Context, db *gorm.DB, licenseNumber string) (*entity.Physio, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Physio, error)
	FindBySpeciality(ctx context.Context, db *gorm.DB, speciality string) ([]entity.Physio, error)
	Update(ctx context.Context, db *gorm.DB, physio *entity.Physio) error
}
