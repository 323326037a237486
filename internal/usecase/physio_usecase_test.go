package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"

	"github.com/spf13/afero"
)

func TestPhysioCreate(t *testing.T) {
	e := newTestEnv(t)

	physio := mustCreatePhysio(t, e, "bobby", "LIC12345")

	if physio.Speciality != entity.SpecialitySports {
		t.Errorf("Speciality = %q", physio.Speciality)
	}

	var user entity.User
	if err := e.db.Where("id = ?", physio.UserID).First(&user).Error; err != nil {
		t.Fatalf("linked user not found: %v", err)
	}
	if user.Role != entity.RolePhysio {
		t.Errorf("user role = %q, want physio", user.Role)
	}
}

func TestPhysioCreate_InvalidLicenseNotPersisted(t *testing.T) {
	e := newTestEnv(t)

	for _, license := range []string{"LIC1234", "LIC-2345", ""} {
		_, err := e.physios.Create(context.Background(), admin, physioRequest("bobby", license), nil)

		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("Create(%q) error = %v, want ValidationError", license, err)
		}
		if _, ok := validation.Fields["licenseNumber"]; !ok {
			t.Errorf("Create(%q) fields = %v", license, validation.Fields)
		}
	}

	if n := e.count(t, &entity.Physio{}); n != 0 {
		t.Errorf("physios = %d, want 0", n)
	}
	if n := e.count(t, &entity.User{}); n != 0 {
		t.Errorf("users = %d, want 0", n)
	}
}

func TestPhysioCreate_UnknownSpeciality(t *testing.T) {
	e := newTestEnv(t)
	req := physioRequest("bobby", "LIC12345")
	req.Speciality = "Dental"

	_, err := e.physios.Create(context.Background(), admin, req, nil)

	assertField(t, err, "speciality")
}

func TestPhysioCreate_DuplicateLicense(t *testing.T) {
	e := newTestEnv(t)
	mustCreatePhysio(t, e, "bobby", "LIC12345")

	_, err := e.physios.Create(context.Background(), admin, physioRequest("carol", "LIC12345"), nil)

	assertField(t, err, "licenseNumber")
	if n := e.count(t, &entity.Physio{}); n != 1 {
		t.Errorf("physios = %d, want 1", n)
	}
}

func TestPhysioUpdate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	created := mustCreatePhysio(t, e, "bobby", "LIC12345")

	_, err := e.physios.Update(ctx, admin, created.ID.String(), &dto.UpdatePhysioRequest{
		Name:          "Robert",
		Surname:       "Jones",
		Speciality:    entity.SpecialityGeriatric,
		LicenseNumber: "LIC12345",
	}, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := e.physios.Get(ctx, created.ID.String())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Robert" || got.Speciality != entity.SpecialityGeriatric {
		t.Errorf("Get() = %+v, want the edited values", got)
	}
}

func TestPhysioFindBySpeciality(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	mustCreatePhysio(t, e, "bobby", "LIC12345")

	list, err := e.physios.FindBySpeciality(ctx, entity.SpecialitySports)
	if err != nil {
		t.Fatalf("FindBySpeciality() error = %v", err)
	}
	if list.Total != 1 {
		t.Errorf("Total = %d, want 1", list.Total)
	}

	if _, err := e.physios.FindBySpeciality(ctx, entity.SpecialityPediatric); !errors.Is(err, ErrNoPhysiosFound) {
		t.Errorf("FindBySpeciality(no match) error = %v, want ErrNoPhysiosFound", err)
	}
}

func TestPhysioUpdate_ReplacesStoredImageAndReportsAllFields(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	created, err := e.physios.Create(ctx, admin, physioRequest("bobby", "LIC12345"),
		&dto.FileUpload{Filename: "old.jpg", Content: strings.NewReader("old")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err = e.physios.Update(ctx, admin, created.ID.String(), &dto.UpdatePhysioRequest{
		Name:          "R",
		Surname:       "Jones",
		Speciality:    entity.SpecialitySports,
		LicenseNumber: "LIC12345",
	}, &dto.FileUpload{Filename: "new.jpg", Size: 2 << 20, Limit: 1 << 20, Content: strings.NewReader("new")})
	assertField(t, err, "name")
	assertField(t, err, "image")
	if n := storedImages(t, e.fs); n != 1 {
		t.Fatalf("stored images = %d after a rejected update, want 1", n)
	}

	updated, err := e.physios.Update(ctx, admin, created.ID.String(), &dto.UpdatePhysioRequest{
		Name:          "Robert",
		Surname:       "Jones",
		Speciality:    entity.SpecialitySports,
		LicenseNumber: "LIC12345",
	}, &dto.FileUpload{Filename: "new.jpg", Content: strings.NewReader("new")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if ok, _ := afero.Exists(e.fs, "uploads/"+created.Image); ok {
		t.Errorf("replaced image %q is still stored", created.Image)
	}
	if n := storedImages(t, e.fs); n != 1 || updated.Image == created.Image {
		t.Errorf("stored images = %d, image %q; want only the new one", n, updated.Image)
	}
}
