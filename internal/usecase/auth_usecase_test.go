package usecase

import (
	"context"
	"errors"
	"testing"

	"physiocare/internal/delivery/dto"
	"physiocare/internal/domain/entity"
)

func TestLogin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	physio := mustCreatePhysio(t, e, "bobby", "LIC12345")

	res, err := e.auth.Login(ctx, &dto.LoginRequest{Login: "bobby", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Identity.Role != entity.RolePhysio || res.Identity.UserID != physio.UserID {
		t.Errorf("Identity = %+v", res.Identity)
	}
	if e.sessions.Len() != 1 {
		t.Errorf("sessions = %d, want 1", e.sessions.Len())
	}

	sessionID, identity, err := e.auth.ResolveSession(ctx, res.Token)
	if err != nil {
		t.Fatalf("ResolveSession() error = %v", err)
	}
	if identity.Login != "bobby" {
		t.Errorf("resolved login = %q", identity.Login)
	}

	if err := e.auth.Logout(ctx, sessionID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, _, err := e.auth.ResolveSession(ctx, res.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ResolveSession() after logout error = %v, want ErrSessionNotFound", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	e := newTestEnv(t)
	mustCreatePatient(t, e, "alice", "ABC123456")

	for _, req := range []*dto.LoginRequest{
		{Login: "alice", Password: "wrong-password"},
		{Login: "nobody", Password: "secret1"},
	} {
		if _, err := e.auth.Login(context.Background(), req); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%s) error = %v, want ErrInvalidCredentials", req.Login, err)
		}
	}
	if e.sessions.Len() != 0 {
		t.Errorf("sessions = %d, want 0", e.sessions.Len())
	}
}

func TestLogin_MissingFields(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.auth.Login(context.Background(), &dto.LoginRequest{})

	assertField(t, err, "login")
	assertField(t, err, "password")
}

func TestResolveSession_GarbageToken(t *testing.T) {
	e := newTestEnv(t)

	if _, _, err := e.auth.ResolveSession(context.Background(), "not-a-token"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := e.auth.EnsureAdmin(ctx, "admin", "admin-password"); err != nil {
			t.Fatalf("EnsureAdmin() call %d error = %v", i+1, err)
		}
	}

	if n := e.count(t, &entity.User{}); n != 1 {
		t.Errorf("users = %d, want 1", n)
	}

	res, err := e.auth.Login(ctx, &dto.LoginRequest{Login: "admin", Password: "admin-password"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Identity.Role != entity.RoleAdmin {
		t.Errorf("role = %q, want admin", res.Identity.Role)
	}
}

func TestAuditLogRecent(t *testing.T) {
	e := newTestEnv(t)
	mustCreatePatient(t, e, "alice", "ABC123456")
	mustCreatePhysio(t, e, "bobby", "LIC12345")

	logs, err := e.audit.Recent(context.Background())
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if logs.Total != 2 {
		t.Fatalf("Total = %d, want 2", logs.Total)
	}
	if logs.Logs[0].Action != entity.AuditActionPhysioCreate {
		t.Errorf("newest action = %q, want %q", logs.Logs[0].Action, entity.AuditActionPhysioCreate)
	}
}
