package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"physiocare/internal/domain/entity"
	"physiocare/internal/testutil"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func createPatient(t *testing.T, db *gorm.DB, surname, insurance string) *entity.Patient {
	t.Helper()
	ctx := context.Background()

	user := &entity.User{Login: "u-" + insurance, Password: "hash", Role: entity.RolePatient}
	if err := NewUserRepository().Create(ctx, db, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	patient := &entity.Patient{
		UserID:          user.ID,
		Name:            "Test",
		Surname:         surname,
		BirthDate:       time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		InsuranceNumber: insurance,
	}
	if err := NewPatientRepository().Create(ctx, db, patient); err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return patient
}

func TestPatientRepository_FindBySurname(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPatientRepository()
	createPatient(t, db, "Smith", "AAA111111")
	createPatient(t, db, "Goldsmith", "BBB222222")
	createPatient(t, db, "Brown_Smith", "CCC333333")

	tests := []struct {
		query string
		want  int
	}{
		{"smith", 3},
		{"SMITH", 3},
		{"gold", 1},
		{"_", 1},
		{"%", 0},
		{"", 3},
		{"jones", 0},
	}

	for _, tt := range tests {
		got, err := repo.FindBySurname(context.Background(), db, tt.query)
		if err != nil {
			t.Fatalf("FindBySurname(%q) error = %v", tt.query, err)
		}
		if len(got) != tt.want {
			t.Errorf("FindBySurname(%q) = %d patients, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestPatientRepository_FindByIDMissing(t *testing.T) {
	db := testutil.NewDB(t)

	got, err := NewPatientRepository().FindByID(context.Background(), db, uuid.New())
	if err != nil || got != nil {
		t.Errorf("FindByID(missing) = %v, %v; want nil, nil", got, err)
	}
}

func TestRecordRepository_RejectsDuplicatePosition(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewRecordRepository()
	patient := createPatient(t, db, "Smith", "AAA111111")

	record := &entity.Record{PatientID: patient.ID}
	if err := repo.Create(ctx, db, record); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first := &entity.Appointment{RecordID: record.ID, Date: time.Now(), PhysioID: uuid.New(), Diagnosis: "Diagnosis text", Treatment: "Treatment"}
	if err := repo.AppendAppointment(ctx, db, first); err != nil {
		t.Fatalf("AppendAppointment() error = %v", err)
	}

	clash := &entity.Appointment{RecordID: record.ID, Position: first.Position, Date: time.Now(), PhysioID: uuid.New(), Diagnosis: "Diagnosis text", Treatment: "Treatment"}
	if err := db.WithContext(ctx).Omit("Physio").Create(clash).Error; err == nil {
		t.Error("inserting a second appointment at the same position succeeded, want a unique violation")
	}
}

func TestRecordRepository_AppendAppointmentToMissingRecord(t *testing.T) {
	db := testutil.NewDB(t)

	err := NewRecordRepository().AppendAppointment(context.Background(), db, &entity.Appointment{
		RecordID: uuid.New(), Date: time.Now(), PhysioID: uuid.New(), Diagnosis: "Diagnosis text", Treatment: "Treatment",
	})

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("AppendAppointment() error = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestLockRecord_SelectsForUpdate(t *testing.T) {
	// DryRun with the automatic ping disabled never dials the server.
	db, err := gorm.Open(postgres.Open("host=localhost user=physiocare dbname=physiocare sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var record entity.Record
		return lockRecord(tx, uuid.New()).Take(&record)
	})

	if !strings.HasSuffix(sql, "FOR UPDATE") {
		t.Errorf("lock query = %q, want it to end in FOR UPDATE", sql)
	}
}

func TestRecordRepository_AppendAppointmentPositions(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewRecordRepository()
	patient := createPatient(t, db, "Smith", "AAA111111")

	record := &entity.Record{PatientID: patient.ID}
	if err := repo.Create(ctx, db, record); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	physioID := uuid.New()
	for i := 0; i < 3; i++ {
		appointment := &entity.Appointment{
			RecordID:  record.ID,
			Date:      time.Date(2024, 3, 3-i, 0, 0, 0, 0, time.UTC),
			PhysioID:  physioID,
			Diagnosis: "Diagnosis text",
			Treatment: "Treatment",
		}
		if err := repo.AppendAppointment(ctx, db, appointment); err != nil {
			t.Fatalf("AppendAppointment() error = %v", err)
		}
		if appointment.Position != i {
			t.Errorf("Position = %d, want %d", appointment.Position, i)
		}
	}

	detail, err := repo.FindDetail(ctx, db, record.ID)
	if err != nil {
		t.Fatalf("FindDetail() error = %v", err)
	}
	for i, a := range detail.Appointments {
		if a.Position != i {
			t.Errorf("appointment %d position = %d", i, a.Position)
		}
	}

	deleted, err := repo.Delete(ctx, db, record.ID)
	if err != nil || deleted != 1 {
		t.Fatalf("Delete() = %d, %v; want 1, nil", deleted, err)
	}
	if deleted, _ := repo.Delete(ctx, db, record.ID); deleted != 0 {
		t.Errorf("second Delete() = %d, want 0", deleted)
	}
}
