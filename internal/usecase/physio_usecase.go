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

type PhysioUsecase interface {
	List(ctx context.Context) (*dto.PhysioListResponse, error)
	FindBySpeciality(ctx context.Context, speciality string) (*dto.PhysioListResponse, error)
	Create(ctx context.Context, actor entity.Identity, req *dto.CreatePhysioRequest, image *dto.FileUpload) (*dto.PhysioResponse, error)
	Get(ctx context.Context, id string) (*dto.PhysioResponse, error)
	Update(ctx context.Context, actor entity.Identity, id string, req *dto.UpdatePhysioRequest, image *dto.FileUpload) (*dto.PhysioResponse, error)
}

type physioUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validate     *validator.CustomValidator
	userRepo     repository.UserRepository
	physioRepo   repository.PhysioRepository
	auditService service.AuditService
	imageStore   storage.ImageStore
}

func NewPhysioUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validate *validator.CustomValidator,
	userRepo repository.UserRepository,
	physioRepo repository.PhysioRepository,
	auditService service.AuditService,
	imageStore storage.ImageStore,
) PhysioUsecase {
	return &physioUsecase{
		db:           db,
		log:          log,
		validate:     validate,
		userRepo:     userRepo,
		physioRepo:   physioRepo,
		auditService: auditService,
		imageStore:   imageStore,
	}
}

func (u *physioUsecase) List(ctx context.Context) (*dto.PhysioListResponse, error) {
	physios, err := u.physioRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find all physios: %+v", err)
		return nil, err
	}

	return converter.PhysiosToListResponse(physios), nil
}

func (u *physioUsecase) FindBySpeciality(ctx context.Context, speciality string) (*dto.PhysioListResponse, error) {
	physios, err := u.physioRepo.FindBySpeciality(ctx, u.db, speciality)
	if err != nil {
		u.log.Warnf("Failed to find physios by speciality: %+v", err)
		return nil, err
	}
	if len(physios) == 0 {
		return nil, ErrNoPhysiosFound
	}

	return converter.PhysiosToListResponse(physios), nil
}

func (u *physioUsecase) Create(ctx context.Context, actor entity.Identity, req *dto.CreatePhysioRequest, image *dto.FileUpload) (*dto.PhysioResponse, error) {
	if err := validateForm(u.validate, req, image); err != nil {
		return nil, err
	}

	existing, err := u.physioRepo.FindByLicenseNumber(ctx, u.db, req.LicenseNumber)
	if err != nil {
		u.log.Warnf("Failed to find physio by license number: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Field: "licenseNumber", Message: "license number already exists"}
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
		u.log.Warnf("Failed to save physio image: %+v", err)
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
		Role:     entity.RolePhysio,
	}

	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "login") {
			return nil, &ConflictError{Field: "login", Message: "login already exists"}
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	physio := &entity.Physio{
		UserID:        user.ID,
		Name:          req.Name,
		Surname:       req.Surname,
		Speciality:    req.Speciality,
		LicenseNumber: req.LicenseNumber,
		Image:         imageRef,
	}

	if err := u.physioRepo.Create(ctx, tx, physio); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, &ConflictError{Field: "licenseNumber", Message: "license number already exists"}
		}
		u.log.Warnf("Failed to create physio: %+v", err)
		return nil, err
	}

	response := converter.PhysioToResponse(physio)

	if err := u.auditService.LogCreate(ctx, tx, actorID(actor), entity.AuditActionPhysioCreate, "physio", physio.ID.String(), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}
	committed = true

	u.auditService.Publish(actorID(actor), entity.AuditActionPhysioCreate, "physio", physio.ID.String(), response)

	return response, nil
}

func (u *physioUsecase) Get(ctx context.Context, id string) (*dto.PhysioResponse, error) {
	physioID, ok := parseID(id)
	if !ok {
		return nil, ErrPhysioNotFound
	}

	physio, err := u.physioRepo.FindByID(ctx, u.db, physioID)
	if err != nil {
		u.log.Warnf("Failed to find physio by id: %+v", err)
		return nil, err
	}
	if physio == nil {
		return nil, ErrPhysioNotFound
	}

	return converter.PhysioToResponse(physio), nil
}

func (u *physioUsecase) Update(ctx context.Context, actor entity.Identity, id string, req *dto.UpdatePhysioRequest, image *dto.FileUpload) (*dto.PhysioResponse, error) {
	physioID, ok := parseID(id)
	if !ok {
		return nil, ErrPhysioNotFound
	}

	physio, err := u.physioRepo.FindByID(ctx, u.db, physioID)
	if err != nil {
		u.log.Warnf("Failed to find physio by id: %+v", err)
		return nil, err
	}
	if physio == nil {
		return nil, ErrPhysioNotFound
	}

	if err := validateForm(u.validate, req, image); err != nil {
		return nil, err
	}

	if req.LicenseNumber != physio.LicenseNumber {
		other, err := u.physioRepo.FindByLicenseNumber(ctx, u.db, req.LicenseNumber)
		if err != nil {
			u.log.Warnf("Failed to find physio by license number: %+v", err)
			return nil, err
		}
		if other != nil && other.ID != physio.ID {
			return nil, &ConflictError{Field: "licenseNumber", Message: "license number already exists"}
		}
	}

	imageRef, err := saveImage(ctx, u.imageStore, image)
	if err != nil {
		u.log.Warnf("Failed to save physio image: %+v", err)
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			discardImage(ctx, u.imageStore, u.log, imageRef)
		}
	}()

	oldValue := converter.PhysioToResponse(physio)

	physio.Name = req.Name
	physio.Surname = req.Surname
	physio.Speciality = req.Speciality
	physio.LicenseNumber = req.LicenseNumber
	previousImage := physio.Image
	if imageRef != "" {
		physio.Image = imageRef
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.physioRepo.Update(ctx, tx, physio); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, &ConflictError{Field: "licenseNumber", Message: "license number already exists"}
		}
		u.log.Warnf("Failed to update physio: %+v", err)
		return nil, err
	}

	response := converter.PhysioToResponse(physio)

	if err := u.auditService.LogUpdate(ctx, tx, actorID(actor), entity.AuditActionPhysioUpdate, "physio", physio.ID.String(), oldValue, response); err != nil {
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

	u.auditService.Publish(actorID(actor), entity.AuditActionPhysioUpdate, "physio", physio.ID.String(), response)

	return response, nil
}
