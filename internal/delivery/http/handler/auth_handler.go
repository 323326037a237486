package handler

import (
	"errors"
	"net/http"

	"physiocare/internal/delivery/dto"
	"physiocare/internal/delivery/http/middleware"
	"physiocare/internal/delivery/http/view"
	"physiocare/internal/domain/entity"
	"physiocare/internal/usecase"
	"physiocare/pkg/jwt"
	"physiocare/pkg/metrics"

	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	base
	authUsecase usecase.AuthUsecase
	jwtService  *jwt.JWTService
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, jwtService *jwt.JWTService, renderer view.Renderer, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		base:        base{renderer: renderer, log: log},
		authUsecase: authUsecase,
		jwtService:  jwtService,
	}
}

// LandingPage is where a role goes after logging in.
func LandingPage(role entity.Role) string {
	if role == entity.RolePatient {
		return "/patients/me"
	}
	return "/patients"
}

// LoginForm renders the login form
// GET /auth/login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, view.Login, dto.FormPage{
		Errors: map[string]string{},
		Data:   &dto.LoginRequest{},
	})
}

// Login checks the credentials and starts a session
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeForm(r, &req, 1<<20); err != nil {
		h.renderBadRequest(w, r)
		return
	}

	result, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		var validationErr *usecase.ValidationError
		if errors.Is(err, usecase.ErrInvalidCredentials) || errors.As(err, &validationErr) {
			metrics.LoginAttempts.WithLabelValues("rejected").Inc()
			h.renderer.Render(w, r, http.StatusUnauthorized, view.Login, dto.FormPage{
				Errors: map[string]string{"general": "Invalid login or password"},
				Data:   &dto.LoginRequest{Login: req.Login},
			})
			return
		}
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		h.renderError(w, r, err)
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()

	http.SetCookie(w, &http.Cookie{
		Name:     h.jwtService.CookieName(),
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(result.ExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   h.jwtService.SecureCookie(),
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, LandingPage(result.Identity.Role), http.StatusFound)
}

// Logout destroys the session
// GET /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionIDFromContext(r.Context())
	if ok {
		if err := h.authUsecase.Logout(r.Context(), sessionID); err != nil {
			h.renderError(w, r, err)
			return
		}
	}

	http.SetCookie(w, middleware.ExpiredCookie(h.jwtService.CookieName()))
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}
