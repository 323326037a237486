package usecase

import (
	"context"
	"testing"
	"time"

	"physiocare/config"
	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"
	"physiocare/internal/infrastructure/messaging"
	"physiocare/internal/infrastructure/storage"
	"physiocare/internal/repository"
	"physiocare/internal/service"
	"physiocare/internal/testutil"
	"physiocare/pkg/jwt"
	"physiocare/pkg/validator"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	fs       afero.Fs
	sessions *testutil.SessionStore
	auth     AuthUsecase
	patients PatientUsecase
	physios  PhysioUsecase
	records  RecordUsecase
	audit    AuditLogUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	v := validator.NewValidator()

	fs := afero.NewMemMapFs()
	imageStore, err := storage.NewLocalStore(fs, "uploads")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	physioRepo := repository.NewPhysioRepository()
	recordRepo := repository.NewRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	sessions := testutil.NewSessionStore()

	auditService := service.NewAuditService(log, auditLogRepo, messaging.NoopPublisher{})
	jwtService := jwt.NewJWTService(config.SessionConfig{Secret: "test-secret", TTL: 30 * time.Minute, CookieName: "sid"})

	return &testEnv{
		db:       db,
		fs:       fs,
		sessions: sessions,
		auth:     NewAuthUsecase(db, log, v, userRepo, sessions, auditService, jwtService),
		patients: NewPatientUsecase(db, log, v, userRepo, patientRepo, auditService, imageStore),
		physios:  NewPhysioUsecase(db, log, v, userRepo, physioRepo, auditService, imageStore),
		records:  NewRecordUsecase(db, log, v, recordRepo, patientRepo, physioRepo, auditService),
		audit:    NewAuditLogUsecase(db, log, auditLogRepo),
	}
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count error = %v", err)
	}
	return n
}

var admin = entity.Identity{Login: "admin", Role: entity.RoleAdmin}

func patientRequest(login, insurance string) *dto.CreatePatientRequest {
	return &dto.CreatePatientRequest{
		Name:            "Alice",
		Surname:         "Smith",
		BirthDate:       "1990-04-12",
		Address:         "1 Main Street",
		InsuranceNumber: insurance,
		Login:           login,
		Password:        "secret1",
	}
}

func physioRequest(login, license string) *dto.CreatePhysioRequest {
	return &dto.CreatePhysioRequest{
		Name:          "Bob",
		Surname:       "Jones",
		Speciality:    entity.SpecialitySports,
		LicenseNumber: license,
		Login:         login,
		Password:      "secret1",
	}
}

func mustCreatePatient(t *testing.T, e *testEnv, login, insurance string) *dto.PatientResponse {
	t.Helper()
	p, err := e.patients.Create(context.Background(), admin, patientRequest(login, insurance), nil)
	if err != nil {
		t.Fatalf("Create patient error = %v", err)
	}
	return p
}

func mustCreatePhysio(t *testing.T, e *testEnv, login, license string) *dto.PhysioResponse {
	t.Helper()
	p, err := e.physios.Create(context.Background(), admin, physioRequest(login, license), nil)
	if err != nil {
		t.Fatalf("Create physio error = %v", err)
	}
	return p
}

func mustCreateRecord(t *testing.T, e *testEnv, patientID uuid.UUID) *dto.RecordResponse {
	t.Helper()
	r, err := e.records.Create(context.Background(), admin, &dto.CreateRecordRequest{
		PatientID:     patientID.String(),
		MedicalRecord: "Chronic lower back pain",
	})
	if err != nil {
		t.Fatalf("Create record error = %v", err)
	}
	return r
}

func assertField(t *testing.T, err error, field string) {
	t.Helper()
	fields := FieldErrors(err)
	if fields == nil {
		t.Fatalf("error = %v, want a field error", err)
	}
	if _, ok := fields[field]; !ok {
		t.Fatalf("field errors = %v, want key %q", fields, field)
	}
}
