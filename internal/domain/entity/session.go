package entity

import (
	"time"

	"github.com/google/uuid"
)

// Identity is who is making the current request.
type Identity struct {
	UserID uuid.UUID `json:"user_id"`
	Login  string    `json:"login"`
	Role   Role      `json:"role"`
}

func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// Session is the server-side state behind a session cookie.
type Session struct {
	ID        string    `json:"id"`
	Identity  Identity  `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
}
