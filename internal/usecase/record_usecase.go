package usecase

import (
	"context"
	"errors"

	"physiocare/internal/converter"
	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"
	"physiocare/internal/domain/repository"
	"physiocare/internal/service"
	"physiocare/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RecordUsecase interface {
	// List returns every record for admin and physio, and only their own for a patient.
	List(ctx context.Context, identity entity.Identity) (*dto.RecordListResponse, error)
	FindBySurname(ctx context.Context, surname string) (*dto.RecordListResponse, error)
	Create(ctx context.Context, actor entity.Identity, req *dto.CreateRecordRequest) (*dto.RecordResponse, error)
	Get(ctx context.Context, id string) (*dto.RecordResponse, error)
	AppendAppointment(ctx context.Context, actor entity.Identity, recordID string, req *dto.CreateAppointmentRequest) (*dto.RecordResponse, error)
	Delete(ctx context.Context, actor entity.Identity, id string) error
}

type recordUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	recordRepo   repository.RecordRepository
	patientRepo  repository.PatientRepository
	physioRepo   repository.PhysioRepository
	auditService service.AuditService
}

func NewRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	recordRepo repository.RecordRepository,
	patientRepo repository.PatientRepository,
	physioRepo repository.PhysioRepository,
	auditService service.AuditService,
) RecordUsecase {
	return &recordUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		recordRepo:   recordRepo,
		patientRepo:  patientRepo,
		physioRepo:   physioRepo,
		auditService: auditService,
	}
}

func (u *recordUsecase) List(ctx context.Context, identity entity.Identity) (*dto.RecordListResponse, error) {
	if identity.Role == entity.RolePatient {
		patient, err := u.patientRepo.FindByUserID(ctx, u.db, identity.UserID)
		if err != nil {
			u.log.Warnf("Failed to find patient by user: %+v", err)
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientNotFound
		}

		records, err := u.recordRepo.FindByPatientIDs(ctx, u.db, []uuid.UUID{patient.ID})
		if err != nil {
			u.log.Warnf("Failed to find records by patient: %+v", err)
			return nil, err
		}
		return converter.RecordsToListResponse(records), nil
	}

	records, err := u.recordRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all records: %+v", err)
		return nil, err
	}

	return converter.RecordsToListResponse(records), nil
}

func (u *recordUsecase) FindBySurname(ctx context.Context, surname string) (*dto.RecordListResponse, error) {
	patients, err := u.patientRepo.FindBySurname(ctx, u.db, surname)
	if err != nil {
		u.log.Warnf("Failed to find patients by surname: %+v", err)
		return nil, err
	}

	patientIDs := make([]uuid.UUID, len(patients))
	for i := range patients {
		patientIDs[i] = patients[i].ID
	}

	records, err := u.recordRepo.FindByPatientIDs(ctx, u.db, patientIDs)
	if err != nil {
		u.log.Warnf("Failed to find records by patients: %+v", err)
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecordsFound
	}

	return converter.RecordsToListResponse(records), nil
}

func (u *recordUsecase) Create(ctx context.Context, actor entity.Identity, req *dto.CreateRecordRequest) (*dto.RecordResponse, error) {
	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	patientID, ok := parseID(req.PatientID)
	if !ok {
		return nil, fieldError("patientId", "patient not found")
	}

	patient, err := u.patientRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient by id: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, fieldError("patientId", "patient not found")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record := &entity.Record{
		PatientID:     patient.ID,
		MedicalRecord: req.MedicalRecord,
	}

	if err := u.recordRepo.Create(ctx, tx, record); err != nil {
		u.log.Warnf("Failed to create record: %+v", err)
		return nil, err
	}

	record.Patient = *patient
	response := converter.RecordToResponse(record)

	if err := u.auditService.LogCreate(ctx, tx, actorID(actor), entity.AuditActionRecordCreate, "record", record.ID.String(), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.auditService.Publish(actorID(actor), entity.AuditActionRecordCreate, "record", record.ID.String(), response)

	return response, nil
}

// Get returns the record with its patient and every appointment's physio, appointments in append order.
func (u *recordUsecase) Get(ctx context.Context, id string) (*dto.RecordResponse, error) {
	recordID, ok := parseID(id)
	if !ok {
		return nil, ErrRecordNotFound
	}

	record, err := u.recordRepo.FindDetail(ctx, u.db, recordID)
	if err != nil {
		u.log.Warnf("Failed to find record detail: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	return converter.RecordToResponse(record), nil
}

func (u *recordUsecase) AppendAppointment(ctx context.Context, actor entity.Identity, recordID string, req *dto.CreateAppointmentRequest) (*dto.RecordResponse, error) {
	id, ok := parseID(recordID)
	if !ok {
		return nil, ErrRecordNotFound
	}

	record, err := u.recordRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find record by id: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	if err := validate(u.validate, req); err != nil {
		return nil, err
	}

	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	physioID, ok := parseID(req.PhysioID)
	if !ok {
		return nil, fieldError("physio", "physio not found")
	}

	physio, err := u.physioRepo.FindByID(ctx, u.db, physioID)
	if err != nil {
		u.log.Warnf("Failed to find physio by id: %+v", err)
		return nil, err
	}
	if physio == nil {
		return nil, fieldError("physio", "physio not found")
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment := &entity.Appointment{
		RecordID:     record.ID,
		Date:         date,
		PhysioID:     physio.ID,
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Observations: req.Observations,
	}

	if err := u.recordRepo.AppendAppointment(ctx, tx, appointment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		u.log.Warnf("Failed to append appointment: %+v", err)
		return nil, err
	}

	appointment.Physio = *physio
	payload := converter.AppointmentToResponse(appointment)

	if err := u.auditService.LogCreate(ctx, tx, actorID(actor), entity.AuditActionAppointmentCreate, "record", record.ID.String(), payload); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.auditService.Publish(actorID(actor), entity.AuditActionAppointmentCreate, "record", record.ID.String(), payload)

	return u.Get(ctx, recordID)
}

// Delete removes the record together with its appointments.
func (u *recordUsecase) Delete(ctx context.Context, actor entity.Identity, id string) error {
	recordID, ok := parseID(id)
	if !ok {
		return ErrRecordNotFound
	}

	record, err := u.recordRepo.FindDetail(ctx, u.db, recordID)
	if err != nil {
		u.log.Warnf("Failed to find record detail: %+v", err)
		return err
	}
	if record == nil {
		return ErrRecordNotFound
	}

	oldValue := converter.RecordToResponse(record)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	deleted, err := u.recordRepo.Delete(ctx, tx, recordID)
	if err != nil {
		u.log.Warnf("Failed to delete record: %+v", err)
		return err
	}
	if deleted == 0 {
		return ErrRecordNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, actorID(actor), entity.AuditActionRecordDelete, "record", record.ID.String(), oldValue); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.auditService.Publish(actorID(actor), entity.AuditActionRecordDelete, "record", record.ID.String(), nil)

	return nil
}
