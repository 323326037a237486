package usecase

import (
	"context"

	"physiocare/internal/converter"
	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"
	"physiocare/internal/domain/repository"
	"physiocare/internal/infrastructure/storage"
	"physiocare/internal/service"
	"physiocare/pkg/validator"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type PatientUsecase interface {
	Me(ctx context.Context, identity entity.Identity) (*dto.PatientResponse, error)
	List(ctx context.Context) (*dto.PatientListResponse, error)
	FindBySurname(ctx context.Context, surname string) (*dto.PatientListResponse, error)
	Create(ctx context.Context, actor entity.Identity, req *dto.CreatePatientRequest, image *dto.FileUpload) (*dto.PatientResponse, error)
	Get(ctx context.Context, id string) (*dto.PatientResponse, error)
	Update(ctx context.Context, actor entity.Identity, id string, req *dto.UpdatePatientRequest, image *dto.FileUpload) (*dto.PatientResponse, error)
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	userRepo     repository.UserRepository
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	imageStore   storage.ImageStore
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	imageStore storage.ImageStore,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		userRepo:     userRepo,
		patientRepo:  patientRepo,
		auditService: auditService,
		imageStore:   imageStore,
	}
}

func (u *patientUsecase) Me(ctx context.Context, identity entity.Identity) (*dto.PatientResponse, error) {
	patient, err := u.patientRepo.FindByUserID(ctx, u.db, identity.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient by user: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) List(ctx context.Context) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all patients: %+v", err)
		return nil, err
	}

	return converter.PatientsToListResponse(patients), nil
}

// FindBySurname matches surname case-insensitively as a substring. An empty
// surname lists everyone; no match is reported as ErrNoPatientsFound.
func (u *patientUsecase) FindBySurname(ctx context.Context, surname string) (*dto.PatientListResponse, error) {
	patients, err := u.patientRepo.FindBySurname(ctx, u.db, surname)
	if err != nil {
		u.log.Warnf("Failed to find patients by surname: %+v", err)
		return nil, err
	}
	if len(patients) == 0 {
		return nil, ErrNoPatientsFound
	}

	return converter.PatientsToListResponse(patients), nil
}

func (u *patientUsecase) Create(ctx context.Context, actor entity.Identity, req *dto.CreatePatientRequest, image *dto.FileUpload) (*dto.PatientResponse, error) {
	if err := validateForm(u.validate, req, image); err != nil {
		return nil, err
	}

	birthDate, err := parseDate("birthDate", req.BirthDate)
	if err != nil {
		return nil, err
	}

	existing, err := u.patientRepo.FindByInsuranceNumber(ctx, u.db, req.InsuranceNumber)
	if err != nil {
		u.log.Warnf("Failed to find patient by insurance number: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Field: "insuranceNumber", Message: "insurance number already exists"}
	}

	existingUser, err := u.userRepo.FindByLogin(ctx, u.db, req.Login)
	if err != nil {
		u.log.Warnf("Failed to find user by login: %+v", err)
		return nil, err
	}
	if existingUser != nil {
		return nil, &ConflictError{Field: "login", Message: "login already exists"}
	}

	imageRef, err := saveImage(ctx, u.imageStore, image)
	if err != nil {
		u.log.Warnf("Failed to save patient image: %+v", err)
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			discardImage(ctx, u.imageStore, u.log, imageRef)
		}
	}()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Login:    req.Login,
		Password: string(hashedPassword),
		Role:     entity.RolePatient,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "login") {
			return nil, &ConflictError{Field: "login", Message: "login already exists"}
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	patient := &entity.Patient{
		UserID:          user.ID,
		Name:            req.Name,
		Surname:         req.Surname,
		BirthDate:       birthDate,
		Address:         req.Address,
		InsuranceNumber: req.InsuranceNumber,
		Image:           imageRef,
	}

	if err := u.patientRepo.Create(ctx, tx, patient); err != nil {
		if isDuplicateKeyError(err, "insurance_number") {
			return nil, &ConflictError{Field: "insuranceNumber", Message: "insurance number already exists"}
		}
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, err
	}

	response := converter.PatientToResponse(patient)

	if err := u.auditService.LogCreate(ctx, tx, actorID(actor), entity.AuditActionPatientCreate, "patient", patient.ID.String(), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	committed = true

	u.auditService.Publish(actorID(actor), entity.AuditActionPatientCreate, "patient", patient.ID.String(), response)

	return response, nil
}

func (u *patientUsecase) Get(ctx context.Context, id string) (*dto.PatientResponse, error) {
	patientID, ok := parseID(id)
	if !ok {
		return nil, ErrPatientNotFound
	}

	patient, err := u.patientRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient by id: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	return converter.PatientToResponse(patient), nil
}

// Update overwrites every editable field. The stored image is kept unless a new one is uploaded.
func (u *patientUsecase) Update(ctx context.Context, actor entity.Identity, id string, req *dto.UpdatePatientRequest, image *dto.FileUpload) (*dto.PatientResponse, error) {
	patientID, ok := parseID(id)
	if !ok {
		return nil, ErrPatientNotFound
	}

	patient, err := u.patientRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient by id: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	if err := validateForm(u.validate, req, image); err != nil {
		return nil, err
	}

	birthDate, err := parseDate("birthDate", req.BirthDate)
	if err != nil {
		return nil, err
	}

	if req.InsuranceNumber != patient.InsuranceNumber {
		other, err := u.patientRepo.FindByInsuranceNumber(ctx, u.db, req.InsuranceNumber)
		if err != nil {
			u.log.Warnf("Failed to find patient by insurance number: %+v", err)
			return nil, err
		}
		if other != nil && other.ID != patient.ID {
			return nil, &ConflictError{Field: "insuranceNumber", Message: "insurance number already exists"}
		}
	}

	imageRef, err := saveImage(ctx, u.imageStore, image)
	if err != nil {
		u.log.Warnf("Failed to save patient image: %+v", err)
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			discardImage(ctx, u.imageStore, u.log, imageRef)
		}
	}()

	oldValue := converter.PatientToResponse(patient)

	patient.Name = req.Name
	patient.Surname = req.Surname
	patient.BirthDate = birthDate
	patient.Address = req.Address
	patient.InsuranceNumber = req.InsuranceNumber
	previousImage := patient.Image
	if imageRef != "" {
		patient.Image = imageRef
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.patientRepo.Update(ctx, tx, patient); err != nil {
		if isDuplicateKeyError(err, "insurance_number") {
			return nil, &ConflictError{Field: "insuranceNumber", Message: "insurance number already exists"}
		}
		u.log.Warnf("Failed to update patient: %+v", err)
		return nil, err
	}

	response := converter.PatientToResponse(patient)

	if err := u.auditService.LogUpdate(ctx, tx, actorID(actor), entity.AuditActionPatientUpdate, "patient", patient.ID.String(), oldValue, response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	committed = true
	if imageRef != "" {
		discardImage(ctx, u.imageStore, u.log, previousImage)
	}

	u.auditService.Publish(actorID(actor), entity.AuditActionPatientUpdate, "patient", patient.ID.String(), response)

	return response, nil
}
