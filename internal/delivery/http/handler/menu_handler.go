package handler

import (
	"net/http"

	"physiocare/internal/delivery/http/middleware"
	"physiocare/internal/delivery/http/view"

	"github.com/sirupsen/logrus"
)

type MenuHandler struct {
	base
}

func NewMenuHandler(renderer view.Renderer, log *logrus.Logger) *MenuHandler {
	return &MenuHandler{base: base{renderer: renderer, log: log}}
}

// Root sends visitors to the menu or to the login form.
func (h *MenuHandler) Root(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetIdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, "/menu", http.StatusFound)
		return
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
}

func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, view.Menu, nil)
}
