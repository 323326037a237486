package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type CreatePhysioRequest struct {
	Name          string `form:"name" validate:"required,min=2,max=50"`
	Surname       string `form:"surname" validate:"required,min=2,max=50"`
	Speciality    string `form:"speciality" validate:"required,oneof=Sports Neurological Pediatric Geriatric Oncological"`
	LicenseNumber string `form:"licenseNumber" validate:"required,len=8,alphanum"`
	Login         string `form:"login" validate:"required,min=4"`
	Password      string `form:"password" validate:"required,min=7"`
}

type UpdatePhysioRequest struct {
	Name          string `form:"name" validate:"required,min=2,max=50"`
	Surname       string `form:"surname" validate:"required,min=2,max=50"`
	Speciality    string `form:"speciality" validate:"required,oneof=Sports Neurological Pediatric Geriatric Oncological"`
	LicenseNumber string `form:"licenseNumber" validate:"required,len=8,alphanum"`
}

// Response DTOs

type PhysioResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Surname       string    `json:"surname"`
	Speciality    string    `json:"speciality"`
	LicenseNumber string    `json:"license_number"`
	Image         string    `json:"image,omitempty"`
}

type PhysioListResponse struct {
	Physios []PhysioResponse `json:"physios"`
	Total   int              `json:"total"`
}
