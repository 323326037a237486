package handler

import (
	"net/http"

	"physiocare/internal/delivery/dto"
	"physiocare/internal/delivery/http/view"
	"physiocare/internal/usecase"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const noRecordsMessage = "There are no records yet"

type RecordHandler struct {
	base
	recordUsecase  usecase.RecordUsecase
	patientUsecase usecase.PatientUsecase
	physioUsecase  usecase.PhysioUsecase
}

func NewRecordHandler(
	recordUsecase usecase.RecordUsecase,
	patientUsecase usecase.PatientUsecase,
	physioUsecase usecase.PhysioUsecase,
	renderer view.Renderer,
	log *logrus.Logger,
) *RecordHandler {
	return &RecordHandler{
		base:           base{renderer: renderer, log: log},
		recordUsecase:  recordUsecase,
		patientUsecase: patientUsecase,
		physioUsecase:  physioUsecase,
	}
}

// List renders the records visible to the caller
// GET /records
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordUsecase.List(r.Context(), identity(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	page := dto.RecordListPage{RecordListResponse: records}
	if records.Total == 0 {
		page.Message = noRecordsMessage
	}
	h.renderer.Render(w, r, http.StatusOK, view.RecordsList, page)
}

// Find lists the records of patients whose surname matches
// GET /records/find?surname=
func (h *RecordHandler) Find(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordUsecase.FindBySurname(r.Context(), r.URL.Query().Get("surname"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.RecordsList, dto.RecordListPage{RecordListResponse: records})
}

// New renders the record form
// GET /records/new
func (h *RecordHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderRecordForm(w, r, http.StatusOK, map[string]string{}, &dto.CreateRecordRequest{})
}

// Create stores a new record for an existing patient
// POST /records
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecordRequest
	if err := decodeForm(r, &req, 1<<20); err != nil {
		h.renderBadRequest(w, r)
		return
	}

	if _, err := h.recordUsecase.Create(r.Context(), identity(r), &req); err != nil {
		if fields := formErrors(err); fields != nil {
			h.renderRecordForm(w, r, http.StatusUnprocessableEntity, fields, &req)
			return
		}
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/records", http.StatusFound)
}

func (h *RecordHandler) renderRecordForm(w http.ResponseWriter, r *http.Request, status int, errors map[string]string, req *dto.CreateRecordRequest) {
	patients, err := h.patientUsecase.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, status, view.RecordAdd, dto.FormPage{
		Errors:  errors,
		Data:    req,
		Choices: patients.Patients,
	})
}

// Detail renders a record with its appointments
// GET /records/{id}
func (h *RecordHandler) Detail(w http.ResponseWriter, r *http.Request) {
	record, err := h.recordUsecase.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, view.RecordsDetail, record)
}

// NewAppointment renders the appointment form of a record
// GET /records/{id}/appointments/new
func (h *RecordHandler) NewAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.recordUsecase.Get(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderAppointmentForm(w, r, http.StatusOK, id, map[string]string{}, &dto.CreateAppointmentRequest{})
}

// AppendAppointment adds an appointment at the end of the record
// POST /records/{id}/appointments
func (h *RecordHandler) AppendAppointment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dto.CreateAppointmentRequest
	if err := decodeForm(r, &req, 1<<20); err != nil {
		h.renderBadRequest(w, r)
		return
	}

	if _, err := h.recordUsecase.AppendAppointment(r.Context(), identity(r), id, &req); err != nil {
		if fields := formErrors(err); fields != nil {
			h.renderAppointmentForm(w, r, http.StatusUnprocessableEntity, id, fields, &req)
			return
		}
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/records/"+id, http.StatusFound)
}

func (h *RecordHandler) renderAppointmentForm(w http.ResponseWriter, r *http.Request, status int, recordID string, errors map[string]string, req *dto.CreateAppointmentRequest) {
	physios, err := h.physioUsecase.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderer.Render(w, r, status, view.AppointmentAdd, dto.FormPage{
		ID:      recordID,
		Errors:  errors,
		Data:    req,
		Choices: physios.Physios,
	})
}

// Delete removes a record and its appointments
// DELETE /records/{id}
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.recordUsecase.Delete(r.Context(), identity(r), mux.Vars(r)["id"]); err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/records", http.StatusFound)
}
