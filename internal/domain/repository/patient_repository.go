package repository

import (
	"context"

	"physiocare/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Patient, error)
	FindByInsuranceNumber(ctx context.Context, db *gorm.DB, insuranceNumber string) (*entity.Patient, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Patient, error)
	FindBySurname(ctx context.Context, db *gorm.DB, surname string) ([]entity.Patient, error)
	Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error
}
