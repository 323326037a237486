package repository

import (
	"context"
	"errors"

	"physiocare/internal/domain/entity"
	domainRepo "physiocare/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type recordRepository struct{}

func NewRecordRepository() domainRepo.RecordRepository {
	return &recordRepository{}
}

func (r *recordRepository) Create(ctx context.Context, db *gorm.DB, record *entity.Record) error {
	return db.WithContext(ctx).Omit("Patient", "Appointments").Create(record).Error
}

func (r *recordRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Record, error) {
	var record entity.Record
	err := db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) FindDetail(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Record, error) {
	var record entity.Record
	err := db.WithContext(ctx).
		Preload("Patient").
		Preload("Appointments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Appointments.Physio").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) FindAll(ctx context.Context, db *gorm.DB) ([]entity.Record, error) {
	var records []entity.Record
	err := db.WithContext(ctx).Preload("Patient").Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *recordRepository) FindByPatientIDs(ctx context.Context, db *gorm.DB, patientIDs []uuid.UUID) ([]entity.Record, error) {
	if len(patientIDs) == 0 {
		return []entity.Record{}, nil
	}

	var records []entity.Record
	err := db.WithContext(ctx).
		Preload("Patient").
		Where("patient_id IN ?", patientIDs).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// AppendAppointment stores the appointment after the record's current last one.
// Run it inside a transaction: the record row stays locked until commit, so the
// position read and the insert stay consistent. A missing record yields
// gorm.ErrRecordNotFound.
func (r *recordRepository) AppendAppointment(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	var parent entity.Record
	if err := lockRecord(db.WithContext(ctx), appointment.RecordID).Take(&parent).Error; err != nil {
		return err
	}

	var count int64
	err := db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("record_id = ?", appointment.RecordID).
		Count(&count).Error
	if err != nil {
		return err
	}

	appointment.Position = int(count)
	if err := db.WithContext(ctx).Omit("Physio").Create(appointment).Error; err != nil {
		return err
	}

	return db.WithContext(ctx).
		Model(&entity.Record{}).
		Where("id = ?", appointment.RecordID).
		Update("updated_at", appointment.CreatedAt).Error
}

func (r *recordRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	if err := db.WithContext(ctx).Where("record_id = ?", id).Delete(&entity.Appointment{}).Error; err != nil {
		return 0, err
	}

	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Record{})
	return result.RowsAffected, result.Error
}

// lockRecord reads the record row FOR UPDATE. SQLite drops the clause and
// serializes writers on its own.
func lockRecord(db *gorm.DB, id uuid.UUID) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", id)
}
