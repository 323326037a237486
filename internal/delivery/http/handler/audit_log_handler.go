package handler

import (
	"net/http"

	"physiocare/internal/delivery/http/view"
	"physiocare/internal/usecase"

	"github.com/sirupsen/logrus"
)

type AuditLogHandler struct {
	base
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase, renderer view.Renderer, log *logrus.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		base:            base{renderer: renderer, log: log},
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	logs, err := h.auditLogUsecase.Recent(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.AuditLogsList, logs)
}
