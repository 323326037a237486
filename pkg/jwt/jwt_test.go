package jwt

import (
	"testing"
	"time"

	"physiocare/config"

	"github.com/google/uuid"
)

func newService(secret string, ttl time.Duration) *JWTService {
	return NewJWTService(config.SessionConfig{
		Secret:     secret,
		TTL:        ttl,
		CookieName: "physiocare_session",
	})
}

func TestSessionToken_RoundTrip(t *testing.T) {
	s := newService("test-secret", 30*time.Minute)
	userID := uuid.New()

	token, err := s.GenerateSessionToken("session-1", userID)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.SessionID != "session-1" {
		t.Errorf("SessionID = %q, want %q", claims.SessionID, "session-1")
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := newService("secret-a", time.Minute).GenerateSessionToken("s", uuid.New())
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if _, err := newService("secret-b", time.Minute).ValidateToken(token); err == nil {
		t.Error("ValidateToken() error = nil, want signature failure")
	}
}

func TestValidateToken_Expired(t *testing.T) {
	s := newService("test-secret", -time.Minute)
	token, err := s.GenerateSessionToken("s", uuid.New())
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	if _, err := s.ValidateToken(token); err == nil {
		t.Error("ValidateToken() error = nil, want expiry failure")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	if _, err := newService("test-secret", time.Minute).ValidateToken("not-a-token"); err == nil {
		t.Error("ValidateToken() error = nil, want parse failure")
	}
}
