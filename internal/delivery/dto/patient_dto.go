package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

// CreatePatientRequest is the patient form plus the credentials of the linked user.
type CreatePatientRequest struct {
	Name            string `form:"name" validate:"required,min=2,max=50"`
	Surname         string `form:"surname" validate:"required,min=2,max=50"`
	BirthDate       string `form:"birthDate" validate:"required,datetime=2006-01-02"`
	Address         string `form:"address" validate:"max=100"`
	InsuranceNumber string `form:"insuranceNumber" validate:"required,len=9,alphanum"`
	Login           string `form:"login" validate:"required,min=4"`
	Password        string `form:"password" validate:"required,min=7"`
}

type UpdatePatientRequest struct {
	Name            string `form:"name" validate:"required,min=2,max=50"`
	Surname         string `form:"surname" validate:"required,min=2,max=50"`
	BirthDate       string `form:"birthDate" validate:"required,datetime=2006-01-02"`
	Address         string `form:"address" validate:"max=100"`
	InsuranceNumber string `form:"insuranceNumber" validate:"required,len=9,alphanum"`
}

// Response DTOs

type PatientResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Name            string    `json:"name"`
	Surname         string    `json:"surname"`
	BirthDate       string    `json:"birth_date"`
	Address         string    `json:"address,omitempty"`
	InsuranceNumber string    `json:"insurance_number"`
	Image           string    `json:"image,omitempty"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
