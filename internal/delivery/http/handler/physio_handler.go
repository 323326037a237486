package handler

import (
	"net/http"

	"physiocare/internal/converter"
	"physiocare/internal/delivery/dto"
	"physiocare/internal/delivery/http/view"
	"physiocare/internal/domain/entity"
	"physiocare/internal/usecase"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type PhysioHandler struct {
	base
	physioUsecase usecase.PhysioUsecase
	maxUpload     int64
}

func NewPhysioHandler(physioUsecase usecase.PhysioUsecase, renderer view.Renderer, log *logrus.Logger, maxUpload int64) *PhysioHandler {
	return &PhysioHandler{
		base:          base{renderer: renderer, log: log},
		physioUsecase: physioUsecase,
		maxUpload:     maxUpload,
	}
}

func (h *PhysioHandler) List(w http.ResponseWriter, r *http.Request) {
	physios, err := h.physioUsecase.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.PhysiosList, physios)
}

// Find searches physios by speciality
// GET /physios/find?speciality=
func (h *PhysioHandler) Find(w http.ResponseWriter, r *http.Request) {
	physios, err := h.physioUsecase.FindBySpeciality(r.Context(), r.URL.Query().Get("speciality"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.PhysiosList, physios)
}

func (h *PhysioHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, view.PhysioAdd, dto.FormPage{
		Errors:  map[string]string{},
		Data:    &dto.CreatePhysioRequest{},
		Choices: entity.Specialities,
	})
}

// Create registers a physio together with its login
// POST /physios
func (h *PhysioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePhysioRequest
	if err := decodeForm(r, &req, h.maxUpload); err != nil {
		h.renderBadRequest(w, r)
		return
	}

	image, release, err := readImage(r, h.maxUpload)
	defer release()
	if err == nil {
		_, err = h.physioUsecase.Create(r.Context(), identity(r), &req, image)
	}
	if err != nil {
		if fields := formErrors(err); fields != nil {
			req.Password = ""
			h.renderer.Render(w, r, http.StatusUnprocessableEntity, view.PhysioAdd, dto.FormPage{
				Errors:  fields,
				Data:    &req,
				Choices: entity.Specialities,
			})
			return
		}
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/physios", http.StatusFound)
}

func (h *PhysioHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	physio, err := h.physioUsecase.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.PhysioEdit, dto.FormPage{
		ID:      id,
		Errors:  map[string]string{},
		Data:    converter.PhysioToUpdateRequest(physio),
		Choices: entity.Specialities,
		Image:   physio.Image,
	})
}

// Update overwrites the physio with the submitted values
// POST /physios/{id}
func (h *PhysioHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.UpdatePhysioRequest
	if err := decodeForm(r, &req, h.maxUpload); err != nil {
		h.renderBadRequest(w, r)
		return
	}

	image, release, err := readImage(r, h.maxUpload)
	defer release()
	if err == nil {
		_, err = h.physioUsecase.Update(r.Context(), identity(r), id, &req, image)
	}
	if err != nil {
		if fields := formErrors(err); fields != nil {
			page := dto.FormPage{ID: id, Errors: fields, Data: &req, Choices: entity.Specialities}
			if current, getErr := h.physioUsecase.Get(r.Context(), id); getErr == nil {
				page.Image = current.Image
			}
			h.renderer.Render(w, r, http.StatusUnprocessableEntity, view.PhysioEdit, page)
			return
		}
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/physios/"+id, http.StatusFound)
}

func (h *PhysioHandler) Detail(w http.ResponseWriter, r *http.Request) {
	physio, err := h.physioUsecase.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.PhysiosDetail, physio)
}
