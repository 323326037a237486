package dto

import (
	"time"

	"physiocare/internal/domain/entity"
)

// Request DTOs

type LoginRequest struct {
	Login    string `form:"login" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Response DTOs

// LoginResponse carries the signed session token for the cookie.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresIn time.Duration   `json:"expires_in"`
	Identity  entity.Identity `json:"identity"`
}

type UserResponse struct {
	Login string `json:"login"`
	Role  string `json:"role"`
}
