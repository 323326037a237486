package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateRecordRequest struct {
	PatientID     string `form:"patientId" validate:"required,uuid"`
	MedicalRecord string `form:"medicalRecord" validate:"max=1000"`
}

type CreateAppointmentRequest struct {
	Date         string `form:"date" validate:"required,datetime=2006-01-02"`
	PhysioID     string `form:"physio" validate:"required,uuid"`
	Diagnosis    string `form:"diagnosis" validate:"required,min=10,max=500"`
	Treatment    string `form:"treatment" validate:"required"`
	Observations string `form:"observations" validate:"max=500"`
}

// Response DTOs

type AppointmentResponse struct {
	Position     int             `json:"position"`
	Date         string          `json:"date"`
	Physio       *PhysioResponse `json:"physio,omitempty"`
	Diagnosis    string          `json:"diagnosis"`
	Treatment    string          `json:"treatment"`
	Observations string          `json:"observations,omitempty"`
}

type RecordResponse struct {
	ID            uuid.UUID             `json:"id"`
	Patient       *PatientResponse      `json:"patient,omitempty"`
	MedicalRecord string                `json:"medical_record,omitempty"`
	Appointments  []AppointmentResponse `json:"appointments,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
	Total   int              `json:"total"`
}
