package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient represents a clinic patient. Each patient owns exactly one login.
type Patient struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Name            string    `gorm:"type:varchar(50);not null" json:"name"`
	Surname         string    `gorm:"type:varchar(50);not null;index" json:"surname"`
	BirthDate       time.Time `gorm:"type:date;not null" json:"birth_date"`
	Address         string    `gorm:"type:varchar(100)" json:"address,omitempty"`
	InsuranceNumber string    `gorm:"type:char(9);uniqueIndex;not null" json:"insurance_number"`
	Image           string    `gorm:"type:varchar(255)" json:"image,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
