package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"physiocare/internal/delivery/http/handler"
	"physiocare/internal/delivery/http/middleware"
	"physiocare/pkg/metrics"
	"physiocare/pkg/response"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Router struct {
	router          *mux.Router
	log             *logrus.Logger
	authHandler     *handler.AuthHandler
	menuHandler     *handler.MenuHandler
	patientHandler  *handler.PatientHandler
	physioHandler   *handler.PhysioHandler
	recordHandler   *handler.RecordHandler
	auditLogHandler *handler.AuditLogHandler
	authMiddleware  *middleware.AuthMiddleware
	roleGuard       *middleware.RoleGuard
	uploads         http.FileSystem
	healthChecks    map[string]HealthCheck
}

func NewRouter(
	log *logrus.Logger,
	authHandler *handler.AuthHandler,
	menuHandler *handler.MenuHandler,
	patientHandler *handler.PatientHandler,
	physioHandler *handler.PhysioHandler,
	recordHandler *handler.RecordHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	roleGuard *middleware.RoleGuard,
	uploads http.FileSystem,
	healthChecks map[string]HealthCheck,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		log:             log,
		authHandler:     authHandler,
		menuHandler:     menuHandler,
		patientHandler:  patientHandler,
		physioHandler:   physioHandler,
		recordHandler:   recordHandler,
		auditLogHandler: auditLogHandler,
		authMiddleware:  authMiddleware,
		roleGuard:       roleGuard,
		uploads:         uploads,
		healthChecks:    healthChecks,
	}
}

func (r *Router) Setup() http.Handler {
	r.router.Use(middleware.Metrics)

	// Health check and metrics
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	r.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// Public routes
	r.router.Handle("/", r.authMiddleware.OptionalIdentity(http.HandlerFunc(r.menuHandler.Root))).Methods(http.MethodGet)
	r.router.HandleFunc("/auth/login", r.authHandler.LoginForm).Methods(http.MethodGet)
	r.router.HandleFunc("/auth/login", r.authHandler.Login).Methods(http.MethodPost)

	// Everything below requires a session
	protected := r.router.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	admin := r.roleGuard.RequireAdmin
	staff := r.roleGuard.RequireStaff

	protected.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodGet)
	protected.HandleFunc("/menu", r.menuHandler.Menu).Methods(http.MethodGet)

	// Locally stored images; S3 references are absolute URLs
	if r.uploads != nil {
		protected.PathPrefix("/uploads/").
			Handler(http.StripPrefix("/uploads/", http.FileServer(r.uploads))).
			Methods(http.MethodGet)
	}

	// Patients: /me, /find and /new are declared before /{id}
	protected.HandleFunc("/patients/me", r.patientHandler.Me).Methods(http.MethodGet)
	protected.Handle("/patients", staff(http.HandlerFunc(r.patientHandler.List))).Methods(http.MethodGet)
	protected.Handle("/patients/find", staff(http.HandlerFunc(r.patientHandler.Find))).Methods(http.MethodGet)
	protected.Handle("/patients/new", staff(http.HandlerFunc(r.patientHandler.New))).Methods(http.MethodGet)
	protected.Handle("/patients", staff(http.HandlerFunc(r.patientHandler.Create))).Methods(http.MethodPost)
	protected.Handle("/patients/{id}/edit", staff(http.HandlerFunc(r.patientHandler.Edit))).Methods(http.MethodGet)
	protected.Handle("/patients/{id}", staff(http.HandlerFunc(r.patientHandler.Update))).Methods(http.MethodPost, http.MethodPut)
	protected.Handle("/patients/{id}", staff(http.HandlerFunc(r.patientHandler.Detail))).Methods(http.MethodGet)

	// Physios (admin only)
	protected.Handle("/physios", admin(http.HandlerFunc(r.physioHandler.List))).Methods(http.MethodGet)
	protected.Handle("/physios/find", admin(http.HandlerFunc(r.physioHandler.Find))).Methods(http.MethodGet)
	protected.Handle("/physios/new", admin(http.HandlerFunc(r.physioHandler.New))).Methods(http.MethodGet)
	protected.Handle("/physios", admin(http.HandlerFunc(r.physioHandler.Create))).Methods(http.MethodPost)
	protected.Handle("/physios/{id}/edit", admin(http.HandlerFunc(r.physioHandler.Edit))).Methods(http.MethodGet)
	protected.Handle("/physios/{id}", admin(http.HandlerFunc(r.physioHandler.Update))).Methods(http.MethodPost, http.MethodPut)
	protected.Handle("/physios/{id}", admin(http.HandlerFunc(r.physioHandler.Detail))).Methods(http.MethodGet)

	// Records
	protected.HandleFunc("/records", r.recordHandler.List).Methods(http.MethodGet)
	protected.Handle("/records/find", staff(http.HandlerFunc(r.recordHandler.Find))).Methods(http.MethodGet)
	protected.Handle("/records/new", staff(http.HandlerFunc(r.recordHandler.New))).Methods(http.MethodGet)
	protected.Handle("/records", staff(http.HandlerFunc(r.recordHandler.Create))).Methods(http.MethodPost)
	protected.Handle("/records/{id}/appointments/new", staff(http.HandlerFunc(r.recordHandler.NewAppointment))).Methods(http.MethodGet)
	protected.Handle("/records/{id}/appointments", staff(http.HandlerFunc(r.recordHandler.AppendAppointment))).Methods(http.MethodPost)
	protected.Handle("/records/{id}", admin(http.HandlerFunc(r.recordHandler.Delete))).Methods(http.MethodDelete)
	protected.Handle("/records/{id}", staff(http.HandlerFunc(r.recordHandler.Detail))).Methods(http.MethodGet)

	// Audit trail
	protected.Handle("/audit-logs", admin(http.HandlerFunc(r.auditLogHandler.List))).Methods(http.MethodGet)

	// Forms send DELETE as POST with _method=DELETE
	var h http.Handler = handlers.HTTPMethodOverrideHandler(r.router)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(r.log), handlers.PrintRecoveryStack(true))(h)

	return h
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(r.healthChecks))
	for name := range r.healthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := r.healthChecks[name](ctx); err != nil {
			r.log.Warnf("Health check %s failed: %+v", name, err)
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		response.ServiceUnavailable(w, "Dependency unavailable", status)
		return
	}
	response.Success(w, http.StatusOK, "ok", status)
}
