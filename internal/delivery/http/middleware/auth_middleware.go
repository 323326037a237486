package middleware

import (
	"context"
	"errors"
	"net/http"

	"physiocare/internal/delivery/dto"
	"physiocare/internal/delivery/http/view"
	"physiocare/internal/domain/entity"
	"physiocare/internal/infrastructure/tracking"
	"physiocare/internal/usecase"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	IdentityKey  contextKey = "identity"
	SessionIDKey contextKey = "session_id"
)

const LoginPath = "/auth/login"

// SessionResolver maps a session cookie token to the identity behind it.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (string, *entity.Identity, error)
}

type AuthMiddleware struct {
	sessions   SessionResolver
	renderer   view.Renderer
	log        *logrus.Logger
	cookieName string
}

func NewAuthMiddleware(sessions SessionResolver, renderer view.Renderer, log *logrus.Logger, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		renderer:   renderer,
		log:        log,
		cookieName: cookieName,
	}
}

// Authenticate puts the session identity into the request context. Requests
// without a live session are redirected to the login page.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}

		sessionID, identity, err := m.sessions.ResolveSession(r.Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, usecase.ErrSessionNotFound) {
				http.SetCookie(w, ExpiredCookie(m.cookieName))
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			m.log.Warnf("Failed to resolve session: %+v", err)
			tracking.CaptureError(err, map[string]interface{}{"path": r.URL.Path})
			m.renderer.Render(w, r, http.StatusInternalServerError, view.Error, dto.ErrorPage{Message: "Failed to load your session"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), sessionID, identity)))
	})
}

// OptionalIdentity resolves the session when there is one but never redirects.
func (m *AuthMiddleware) OptionalIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err == nil && cookie.Value != "" {
			if sessionID, identity, err := m.sessions.ResolveSession(r.Context(), cookie.Value); err == nil {
				r = r.WithContext(WithIdentity(r.Context(), sessionID, identity))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func ExpiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func WithIdentity(ctx context.Context, sessionID string, identity *entity.Identity) context.Context {
	ctx = context.WithValue(ctx, IdentityKey, identity)
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// GetIdentityFromContext extracts the request identity from context
func GetIdentityFromContext(ctx context.Context) (*entity.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*entity.Identity)
	return identity, ok && identity != nil
}

// GetSessionIDFromContext extracts session ID from context
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok
}

// RequestIdentity is the view.IdentityFunc used by the renderer.
func RequestIdentity(r *http.Request) *entity.Identity {
	identity, _ := GetIdentityFromContext(r.Context())
	return identity
}
