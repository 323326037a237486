package repository

import (
	"context"
	"errors"

	"physiocare/internal/domain/entity"
	domainRepo "physiocare/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type physioRepository struct{}

func NewPhysioRepository() domainRepo.PhysioRepository {
	return &physioRepository{}
}

func (r *physioRepository) Create(ctx context.Context, db *gorm.DB, physio *entity.Physio) error {
	return db.WithContext(ctx).Omit("User").Create(physio).Error
}

func (r *physioRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Physio, error) {
	var physio entity.Physio
	err := db.WithContext(ctx).Where("id = ?", id).First(&physio).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &physio, nil
}

func (r *physioRepository) FindByLicenseNumber(ctx context.Context, db *gorm.DB, licenseNumber string) (*entity.Physio, error) {
	var physio entity.Physio
	err := db.WithContext(ctx).Where("license_number = ?", licenseNumber).First(&physio).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &physio, nil
}

func (r *physioRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Physio, error) {
	var physios []entity.Physio
	err := db.WithContext(ctx).Order("surname ASC, name ASC").Find(&physios).Error
	if err != nil {
		return nil, err
	}
	return physios, nil
}

func (r *physioRepository) FindBySpeciality(ctx context.Context, db *gorm.DB, speciality string) ([]entity.Physio, error) {
	var physios []entity.Physio
	err := db.WithContext(ctx).
		Where(`LOWER(speciality) LIKE ? ESCAPE '\'`, containsPattern(speciality)).
		Order("surname ASC, name ASC").
		Find(&physios).Error
	if err != nil {
		return nil, err
	}
	return physios, nil
}

func (r *physioRepository) Update(ctx context.Context, db *gorm.DB, physio *entity.Physio) error {
	return db.WithContext(ctx).Omit("User").Save(physio).Error
}
