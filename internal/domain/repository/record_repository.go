package repository

import (
	"context"

	"physiocare/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecordRepository interface {
	Create(ctx context.Context, db *gorm.DB, record *entity.Record) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Record, error)
	// FindDetail loads the patient and every appointment's physio, appointments in append order.
	FindDetail(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Record, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Record, error)
	FindByPatientIDs(ctx context.Context, db *gorm.DB, patientIDs []uuid.UUID) ([]entity.Record, error)
	AppendAppointment(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
}
