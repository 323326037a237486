package repository

import (
	"context"
	"errors"

	"physiocare/internal/domain/entity"
	domainRepo "physiocare/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit("User").Create(patient).Error
}

func (r *patientRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	return r.findOne(ctx, db, "id = ?", id)
}

func (r *patientRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Patient, error) {
	return r.findOne(ctx, db, "user_id = ?", userID)
}

func (r *patientRepository) FindByInsuranceNumber(ctx context.Context, db *gorm.DB, insuranceNumber string) (*entity.Patient, error) {
	return r.findOne(ctx, db, "insurance_number = ?", insuranceNumber)
}

func (r *patientRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.WithContext(ctx).Order("surname ASC, name ASC").Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) FindBySurname(ctx context.Context, db *gorm.DB, surname string) ([]entity.Patient, error) {
	var patients []entity.Patient
	err := db.WithContext(ctx).
		Where(`LOWER(surname) LIKE ? ESCAPE '\'`, containsPattern(surname)).
		Order("surname ASC, name ASC").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, db *gorm.DB, patient *entity.Patient) error {
	return db.WithContext(ctx).Omit("User").Save(patient).Error
}

func (r *patientRepository) findOne(ctx context.Context, db *gorm.DB, query string, arg interface{}) (*entity.Patient, error) {
	var patient entity.Patient
	err := db.WithContext(ctx).Where(query, arg).First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}
