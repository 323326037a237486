package http

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"physiocare/config"
	"physiocare/internal/delivery/dto"
	"physiocare/internal/delivery/http/handler"
	"physiocare/internal/delivery/http/middleware"
	"physiocare/internal/delivery/http/view"
	"physiocare/internal/domain/entity"
	"physiocare/internal/infrastructure/messaging"
	"physiocare/internal/infrastructure/storage"
	"physiocare/internal/repository"
	"physiocare/internal/service"
	"physiocare/internal/testutil"
	"physiocare/internal/usecase"
	"physiocare/pkg/jwt"
	"physiocare/pkg/validator"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

type app struct {
	handler  http.Handler
	patients usecase.PatientUsecase
	physios  usecase.PhysioUsecase
	records  usecase.RecordUsecase
}

func newApp(t *testing.T) *app {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger()
	v := validator.NewValidator()

	imageStore, err := storage.NewLocalStore(afero.NewMemMapFs(), "uploads")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	physioRepo := repository.NewPhysioRepository()
	recordRepo := repository.NewRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	sessionCfg := config.SessionConfig{Secret: "test-secret", TTL: time.Hour, CookieName: "physiocare_session"}
	jwtService := jwt.NewJWTService(sessionCfg)
	auditService := service.NewAuditService(log, auditLogRepo, messaging.NoopPublisher{})

	authUsecase := usecase.NewAuthUsecase(db, log, v, userRepo, testutil.NewSessionStore(), auditService, jwtService)
	patientUsecase := usecase.NewPatientUsecase(db, log, v, userRepo, patientRepo, auditService, imageStore)
	physioUsecase := usecase.NewPhysioUsecase(db, log, v, userRepo, physioRepo, auditService, imageStore)
	recordUsecase := usecase.NewRecordUsecase(db, log, v, recordRepo, patientRepo, physioRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	if err := authUsecase.EnsureAdmin(context.Background(), "admin", "admin-password"); err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}

	renderer, err := view.NewTemplateRenderer(log, middleware.RequestIdentity)
	if err != nil {
		t.Fatalf("NewTemplateRenderer() error = %v", err)
	}

	router := NewRouter(
		log,
		handler.NewAuthHandler(authUsecase, jwtService, renderer, log),
		handler.NewMenuHandler(renderer, log),
		handler.NewPatientHandler(patientUsecase, renderer, log, 1<<20),
		handler.NewPhysioHandler(physioUsecase, renderer, log, 1<<20),
		handler.NewRecordHandler(recordUsecase, patientUsecase, physioUsecase, renderer, log),
		handler.NewAuditLogHandler(auditLogUsecase, renderer, log),
		middleware.NewAuthMiddleware(authUsecase, renderer, log, sessionCfg.CookieName),
		middleware.NewRoleGuard(renderer),
		imageStore.FileSystem(),
		map[string]HealthCheck{"database": func(ctx context.Context) error { return nil }},
	)

	return &app{
		handler:  router.Setup(),
		patients: patientUsecase,
		physios:  physioUsecase,
		records:  recordUsecase,
	}
}

func (a *app) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *app) login(t *testing.T, login, password string) *http.Cookie {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/login", url.Values{"login": {login}, "password": {password}}, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("login %s status = %d, want 302", login, rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "physiocare_session" && c.Value != "" {
			return c
		}
	}
	t.Fatalf("login %s did not set the session cookie", login)
	return nil
}

func (a *app) seed(t *testing.T) (dto.PatientResponse, dto.PhysioResponse) {
	t.Helper()
	ctx := context.Background()
	admin := entity.Identity{Login: "admin", Role: entity.RoleAdmin}

	patient, err := a.patients.Create(ctx, admin, &dto.CreatePatientRequest{
		Name: "Alice", Surname: "Doe", BirthDate: "1990-04-12", InsuranceNumber: "ABC123456", Login: "alice", Password: "secret1",
	}, nil)
	if err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	physio, err := a.physios.Create(ctx, admin, &dto.CreatePhysioRequest{
		Name: "Bob", Surname: "Jones", Speciality: entity.SpecialitySports, LicenseNumber: "LIC12345", Login: "bobby", Password: "secret1",
	}, nil)
	if err != nil {
		t.Fatalf("seed physio: %v", err)
	}
	return *patient, *physio
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	a := newApp(t)

	for _, target := range []string{"/patients", "/records", "/menu", "/physios/new"} {
		rec := a.do(t, http.MethodGet, target, nil, nil)
		if rec.Code != http.StatusFound || rec.Header().Get("Location") != middleware.LoginPath {
			t.Errorf("GET %s = %d %q, want redirect to login", target, rec.Code, rec.Header().Get("Location"))
		}
	}
}

func TestLoginLandsByRole(t *testing.T) {
	a := newApp(t)
	a.seed(t)

	tests := []struct {
		login, password, want string
	}{
		{"admin", "admin-password", "/patients"},
		{"bobby", "secret1", "/patients"},
		{"alice", "secret1", "/patients/me"},
	}
	for _, tt := range tests {
		rec := a.do(t, http.MethodPost, "/auth/login", url.Values{"login": {tt.login}, "password": {tt.password}}, nil)
		if got := rec.Header().Get("Location"); rec.Code != http.StatusFound || got != tt.want {
			t.Errorf("login %s = %d %q, want redirect to %q", tt.login, rec.Code, got, tt.want)
		}
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodPost, "/auth/login", url.Values{"login": {"admin"}, "password": {"nope"}}, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid login or password") {
		t.Error("login form should show the credentials error")
	}
}

func TestPhysioCannotListPhysios(t *testing.T) {
	a := newApp(t)
	a.seed(t)
	cookie := a.login(t, "bobby", "secret1")

	rec := a.do(t, http.MethodGet, "/physios", nil, cookie)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Access denied") {
		t.Error("expected the access denied error view")
	}
}

func TestPatientSeesOnlyOwnProfile(t *testing.T) {
	a := newApp(t)
	patient, _ := a.seed(t)
	cookie := a.login(t, "alice", "secret1")

	if rec := a.do(t, http.MethodGet, "/patients/me", nil, cookie); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ABC123456") {
		t.Errorf("GET /patients/me = %d", rec.Code)
	}
	if rec := a.do(t, http.MethodGet, "/patients/"+patient.ID.String(), nil, cookie); rec.Code != http.StatusForbidden {
		t.Errorf("GET /patients/{id} as patient = %d, want 403", rec.Code)
	}
}

func TestFindPatientsWithoutMatch(t *testing.T) {
	a := newApp(t)
	a.seed(t)
	cookie := a.login(t, "admin", "admin-password")

	rec := a.do(t, http.MethodGet, "/patients/find?surname=Smith", nil, cookie)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No patients match the given surname") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreatePatientFormErrors(t *testing.T) {
	a := newApp(t)
	cookie := a.login(t, "admin", "admin-password")

	rec := a.do(t, http.MethodPost, "/patients", url.Values{
		"name": {"Carol"}, "surname": {"King"}, "birthDate": {"1985-05-05"},
		"insuranceNumber": {"BAD"}, "login": {"carol"}, "password": {"secret1"},
	}, cookie)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "insuranceNumber must be exactly 9 characters") {
		t.Error("form should show the insurance number error")
	}
	if !strings.Contains(body, `value="Carol"`) {
		t.Error("form should keep the submitted values")
	}
}

func TestCreatePatientRedirectsToList(t *testing.T) {
	a := newApp(t)
	cookie := a.login(t, "admin", "admin-password")

	rec := a.do(t, http.MethodPost, "/patients", url.Values{
		"name": {"Carol"}, "surname": {"King"}, "birthDate": {"1985-05-05"},
		"insuranceNumber": {"CAR123456"}, "login": {"carol"}, "password": {"secret1"},
	}, cookie)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/patients" {
		t.Fatalf("POST /patients = %d %q, want redirect to /patients", rec.Code, rec.Header().Get("Location"))
	}
	if list := a.do(t, http.MethodGet, "/patients", nil, cookie); !strings.Contains(list.Body.String(), "CAR123456") {
		t.Error("new patient is missing from the list")
	}
}

func TestUploadsAreNotListed(t *testing.T) {
	a := newApp(t)
	patient, err := a.patients.Create(context.Background(), entity.Identity{Login: "admin", Role: entity.RoleAdmin}, &dto.CreatePatientRequest{
		Name: "Alice", Surname: "Doe", BirthDate: "1990-04-12", InsuranceNumber: "ABC123456", Login: "alice", Password: "secret1",
	}, &dto.FileUpload{Filename: "face.png", Content: strings.NewReader("png-bytes")})
	if err != nil {
		t.Fatalf("create patient: %v", err)
	}

	if rec := a.do(t, http.MethodGet, "/uploads/", nil, nil); rec.Code != http.StatusFound {
		t.Errorf("anonymous GET /uploads/ = %d, want redirect to login", rec.Code)
	}
	if rec := a.do(t, http.MethodGet, "/uploads/"+patient.Image, nil, nil); rec.Code != http.StatusFound {
		t.Errorf("anonymous GET of an image = %d, want redirect to login", rec.Code)
	}

	cookie := a.login(t, "admin", "admin-password")
	rec := a.do(t, http.MethodGet, "/uploads/", nil, cookie)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /uploads/ = %d, want 404", rec.Code)
	}
	if strings.Contains(rec.Body.String(), patient.Image) {
		t.Error("GET /uploads/ exposed a stored image name")
	}

	rec = a.do(t, http.MethodGet, "/uploads/"+patient.Image, nil, cookie)
	if rec.Code != http.StatusOK || rec.Body.String() != "png-bytes" {
		t.Errorf("GET image = %d %q, want the stored bytes", rec.Code, rec.Body.String())
	}
}

func TestCreatePatientOversizedImageKeepsFieldErrors(t *testing.T) {
	a := newApp(t)
	cookie := a.login(t, "admin", "admin-password")

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, value := range map[string]string{
		"name": "Carol", "surname": "King", "birthDate": "1985-05-05",
		"insuranceNumber": "BAD", "login": "carol", "password": "secret1",
	} {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("WriteField() error = %v", err)
		}
	}
	part, err := w.CreateFormFile("image", "carol.png")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	part.Write(bytes.Repeat([]byte{0}, 1<<20+1))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/patients", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	for _, msg := range []string{"image must be at most 1024 KB", "insuranceNumber must be exactly 9 characters"} {
		if !strings.Contains(rec.Body.String(), msg) {
			t.Errorf("form is missing %q", msg)
		}
	}
	if _, err := a.patients.FindBySurname(context.Background(), "King"); !errors.Is(err, usecase.ErrNoPatientsFound) {
		t.Errorf("FindBySurname() error = %v, want nothing persisted", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	a := newApp(t)
	patient, _ := a.seed(t)
	record, err := a.records.Create(context.Background(), entity.Identity{Role: entity.RoleAdmin}, &dto.CreateRecordRequest{PatientID: patient.ID.String()})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	target := "/records/" + record.ID.String()

	physioCookie := a.login(t, "bobby", "secret1")
	if rec := a.do(t, http.MethodDelete, target, nil, physioCookie); rec.Code != http.StatusForbidden {
		t.Errorf("DELETE as physio = %d, want 403", rec.Code)
	}

	adminCookie := a.login(t, "admin", "admin-password")
	if rec := a.do(t, http.MethodDelete, "/records/"+uuid.NewString(), nil, adminCookie); rec.Code != http.StatusNotFound {
		t.Errorf("DELETE missing record = %d, want 404", rec.Code)
	}

	rec := a.do(t, http.MethodPost, target, url.Values{"_method": {http.MethodDelete}}, adminCookie)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/records" {
		t.Fatalf("DELETE via _method = %d %q, want redirect to /records", rec.Code, rec.Header().Get("Location"))
	}

	if rec := a.do(t, http.MethodGet, target, nil, adminCookie); rec.Code != http.StatusNotFound {
		t.Errorf("GET deleted record = %d, want 404", rec.Code)
	}
}

func TestAppendAppointmentThroughForm(t *testing.T) {
	a := newApp(t)
	patient, physio := a.seed(t)
	record, err := a.records.Create(context.Background(), entity.Identity{Role: entity.RoleAdmin}, &dto.CreateRecordRequest{PatientID: patient.ID.String()})
	if err != nil {
		t.Fatalf("create record: %v", err)
	}
	cookie := a.login(t, "bobby", "secret1")
	target := "/records/" + record.ID.String() + "/appointments"

	rec := a.do(t, http.MethodPost, target, url.Values{
		"date": {"2024-03-01"}, "physio": {physio.ID.String()}, "diagnosis": {"short"}, "treatment": {""},
	}, cookie)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid appointment status = %d, want 422", rec.Code)
	}
	for _, msg := range []string{"diagnosis must be at least 10 characters", "treatment is required"} {
		if !strings.Contains(rec.Body.String(), msg) {
			t.Errorf("form is missing %q", msg)
		}
	}

	rec = a.do(t, http.MethodPost, target, url.Values{
		"date": {"2024-03-01"}, "physio": {physio.ID.String()}, "diagnosis": {"Lumbar muscle strain"}, "treatment": {"Stretching"},
	}, cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("valid appointment status = %d, want 302", rec.Code)
	}

	detail := a.do(t, http.MethodGet, "/records/"+record.ID.String(), nil, cookie)
	if !strings.Contains(detail.Body.String(), "Lumbar muscle strain") || !strings.Contains(detail.Body.String(), "Jones") {
		t.Errorf("record detail is missing the appointment:\n%s", detail.Body.String())
	}
}

func TestEmptyRecordListShowsMessage(t *testing.T) {
	a := newApp(t)
	cookie := a.login(t, "admin", "admin-password")

	rec := a.do(t, http.MethodGet, "/records", nil, cookie)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "There are no records yet") {
		t.Errorf("GET /records = %d, want the empty-state message", rec.Code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	a := newApp(t)
	cookie := a.login(t, "admin", "admin-password")

	rec := a.do(t, http.MethodGet, "/auth/logout", nil, cookie)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != middleware.LoginPath {
		t.Fatalf("logout = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	if rec := a.do(t, http.MethodGet, "/menu", nil, cookie); rec.Code != http.StatusFound {
		t.Errorf("GET /menu after logout = %d, want redirect", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	a := newApp(t)

	if rec := a.do(t, http.MethodGet, "/health", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", rec.Code)
	}
}

func TestHealthReportsFailingDependency(t *testing.T) {
	r := NewRouter(testutil.NewLogger(), nil, nil, nil, nil, nil, nil, nil, nil, nil,
		map[string]HealthCheck{"redis": func(ctx context.Context) error { return errors.New("down") }})

	rec := httptest.NewRecorder()
	r.healthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
