package dto

import (
	"time"

	"physiocare/internal/domain/entity"
)

// Response DTOs

type AuditLogResponse struct {
	ID         int64       `json:"id"`
	Login      string      `json:"login,omitempty"`
	Action     string      `json:"action"`
	EntityName string      `json:"entity"`
	EntityID   string      `json:"entity_id"`
	Metadata   entity.JSON `json:"metadata"`
	CreatedAt  time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
