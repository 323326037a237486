package handler

import (
	"net/http"

	"physiocare/internal/converter"
	"physiocare/internal/delivery/dto"
	"physiocare/internal/delivery/http/view"
	"physiocare/internal/usecase"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type PatientHandler struct {
	base
	patientUsecase usecase.PatientUsecase
	maxUpload      int64
}

func NewPatientHandler(patientUsecase usecase.PatientUsecase, renderer view.Renderer, log *logrus.Logger, maxUpload int64) *PatientHandler {
	return &PatientHandler{
		base:           base{renderer: renderer, log: log},
		patientUsecase: patientUsecase,
		maxUpload:      maxUpload,
	}
}

// Me renders the profile of the logged in patient
// GET /patients/me
func (h *PatientHandler) Me(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUsecase.Me(r.Context(), identity(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.PatientsDetail, patient)
}

// List renders every patient
// GET /patients
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.PatientsList, patients)
}

// Find searches patients by surname
// GET /patients/find?surname=
func (h *PatientHandler) Find(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientUsecase.FindBySurname(r.Context(), r.URL.Query().Get("surname"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.PatientsList, patients)
}

// New renders the empty creation form
// GET /patients/new
func (h *PatientHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, view.PatientAdd, dto.FormPage{
		Errors: map[string]string{},
		Data:   &dto.CreatePatientRequest{},
	})
}

// Create registers a patient together with its login
// POST /patients
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePatientRequest
	if err := decodeForm(r, &req, h.maxUpload); err != nil {
		h.renderBadRequest(w, r)
		return
	}

	image, release, err := readImage(r, h.maxUpload)
	defer release()
	if err == nil {
		_, err = h.patientUsecase.Create(r.Context(), identity(r), &req, image)
	}
	if err != nil {
		if fields := formErrors(err); fields != nil {
			req.Password = ""
			h.renderer.Render(w, r, http.StatusUnprocessableEntity, view.PatientAdd, dto.FormPage{
				Errors: fields,
				Data:   &req,
			})
			return
		}
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/patients", http.StatusFound)
}

// Edit renders the edit form filled with the stored values
// GET /patients/{id}/edit
func (h *PatientHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	patient, err := h.patientUsecase.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.PatientEdit, dto.FormPage{
		ID:     id,
		Errors: map[string]string{},
		Data:   converter.PatientToUpdateRequest(patient),
		Image:  patient.Image,
	})
}

// Update overwrites the patient with the submitted values
// POST /patients/{id}
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.UpdatePatientRequest
	if err := decodeForm(r, &req, h.maxUpload); err != nil {
		h.renderBadRequest(w, r)
		return
	}

	image, release, err := readImage(r, h.maxUpload)
	defer release()
	if err == nil {
		_, err = h.patientUsecase.Update(r.Context(), identity(r), id, &req, image)
	}
	if err != nil {
		if fields := formErrors(err); fields != nil {
			page := dto.FormPage{ID: id, Errors: fields, Data: &req}
			if current, getErr := h.patientUsecase.Get(r.Context(), id); getErr == nil {
				page.Image = current.Image
			}
			h.renderer.Render(w, r, http.StatusUnprocessableEntity, view.PatientEdit, page)
			return
		}
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/patients/"+id, http.StatusFound)
}

// Detail renders one patient
// GET /patients/{id}
func (h *PatientHandler) Detail(w http.ResponseWriter, r *http.Request) {
	patient, err := h.patientUsecase.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.PatientsDetail, patient)
}
