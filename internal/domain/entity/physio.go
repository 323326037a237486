package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Speciality values accepted for a physio
const (
	SpecialitySports       = "Sports"
	SpecialityNeurological = "Neurological"
	SpecialityPediatric    = "Pediatric"
	SpecialityGeriatric    = "Geriatric"
	SpecialityOncological  = "Oncological"
)

var Specialities = []string{
	SpecialitySports,
	SpecialityNeurological,
	SpecialityPediatric,
	SpecialityGeriatric,
	SpecialityOncological,
}

// Physio represents physiotherapist-specific profile data
type Physio struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name          string    `gorm:"type:varchar(50);not null" json:"name"`
	Surname       string    `gorm:"type:varchar(50);not null" json:"surname"`
	Speciality    string    `gorm:"type:varchar(20);not null;index" json:"speciality"`
	LicenseNumber string    `gorm:"type:char(8);uniqueIndex;not null" json:"license_number"`
	Image         string    `gorm:"type:varchar(255)" json:"image,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Physio) TableName() string {
	return "physios"
}

func (p *Physio) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
