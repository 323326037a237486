package entity

// Role represents a user role in the system
type Role string

// Role constants
const (
	RoleAdmin   Role = "admin"
	RolePhysio  Role = "physio"
	RolePatient Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RolePhysio, RolePatient:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
