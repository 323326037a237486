package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record is a patient's medical record. Appointments only exist inside a record.
type Record struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	MedicalRecord string    `gorm:"type:varchar(1000)" json:"medical_record,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient      Patient       `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:RecordID" json:"appointments,omitempty"`
}

func (Record) TableName() string {
	return "records"
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Appointment is one visit appended to a record, kept in append order by Position.
type Appointment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecordID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_appointments_record_position,priority:1" json:"record_id"`
	Position     int       `gorm:"not null;uniqueIndex:idx_appointments_record_position,priority:2" json:"position"`
	Date         time.Time `gorm:"not null" json:"date"`
	PhysioID     uuid.UUID `gorm:"type:uuid;not null;index" json:"physio_id"`
	Diagnosis    string    `gorm:"type:varchar(500);not null" json:"diagnosis"`
	Treatment    string    `gorm:"type:text;not null" json:"treatment"`
	Observations string    `gorm:"type:varchar(500)" json:"observations,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Physio Physio `gorm:"foreignKey:PhysioID" json:"physio,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
