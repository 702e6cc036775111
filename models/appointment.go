package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment statuses. There is no enforced transition graph: any status
// can be set from any other via update.
const (
	AppointmentScheduled  = "scheduled"
	AppointmentInProgress = "in_progress"
	AppointmentCompleted  = "completed"
	AppointmentCancelled  = "cancelled"
)

const (
	PriorityLow       = "low"
	PriorityMedium    = "medium"
	PriorityHigh      = "high"
	PriorityEmergency = "emergency"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	CustomerID uuid.UUID `gorm:"type:uuid;index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	TechnicianID *uuid.UUID  `gorm:"type:uuid;index" json:"technician_id"`
	Technician   *Technician `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`

	AppointmentDate time.Time `gorm:"type:date;not null" json:"appointment_date"`
	StartTime       string    `gorm:"type:varchar(5);not null" json:"start_time"` // HH:MM
	EndTime         string    `gorm:"type:varchar(5);not null" json:"end_time"`   // HH:MM

	Description string `gorm:"type:text;not null" json:"description"`
	Status      string `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	Priority    string `gorm:"type:varchar(20);default:'medium'" json:"priority"`
	Notes       string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentScheduled, AppointmentInProgress, AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency:
		return true
	}
	return false
}
