package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BillTypeBill     = "bill"
	BillTypeEstimate = "estimate"
)

const (
	BillDraft     = "draft"
	BillSent      = "sent"
	BillPaid      = "paid"
	BillOverdue   = "overdue"
	BillCancelled = "cancelled"
)

// Bill is either an invoice or an estimate. Customer and appointment
// references are nullable: a bill outlives both so billing history is
// preserved when either is deleted.
type Bill struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	AppointmentID *uuid.UUID   `gorm:"type:uuid;index" json:"appointment_id"`
	Appointment   *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`

	Type   string `gorm:"type:varchar(20);not null" json:"type"`
	Status string `gorm:"type:varchar(20);default:'draft'" json:"status"`

	Description  string     `gorm:"type:text" json:"description"`
	Notes        string     `gorm:"type:text" json:"notes"`
	DueDate      *time.Time `gorm:"type:date" json:"due_date"`
	EmployeeName string     `json:"employee_name"`

	LineItems []BillLineItem `gorm:"foreignKey:BillID" json:"line_items,omitempty"`

	// Derived, never stored: sum of line item amounts.
	TotalAmount float64 `gorm:"-" json:"total_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// Recalculate fills the derived amount fields from the loaded line items.
// Callers must have LineItems preloaded.
func (b *Bill) Recalculate() {
	var total float64
	for i := range b.LineItems {
		b.LineItems[i].Amount = b.LineItems[i].ComputeAmount()
		total += b.LineItems[i].Amount
	}
	b.TotalAmount = total
}

func ValidBillType(t string) bool {
	return t == BillTypeBill || t == BillTypeEstimate
}

func ValidBillStatus(s string) bool {
	switch s {
	case BillDraft, BillSent, BillPaid, BillOverdue, BillCancelled:
		return true
	}
	return false
}

type BillLineItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillID uuid.UUID `gorm:"type:uuid;index;not null" json:"bill_id"`

	Description string  `gorm:"not null" json:"description"`
	PartNumber  string  `json:"part_number"`
	Quantity    float64 `gorm:"type:decimal(10,2);default:0" json:"quantity"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);default:0" json:"unit_price"`
	IsLabor     bool    `gorm:"default:false" json:"is_labor"`
	// No column default: gorm omits zero values for fields carrying a
	// default tag, which would store non-taxable items as taxable.
	IsTaxable bool `json:"is_taxable"`

	TechnicianID *uuid.UUID  `gorm:"type:uuid;index" json:"technician_id"`
	Technician   *Technician `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`

	// Derived, never stored.
	Amount float64 `gorm:"-" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (li *BillLineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return
}

func (li *BillLineItem) ComputeAmount() float64 {
	return li.Quantity * li.UnitPrice
}
