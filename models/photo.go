package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhotoOwnerKind discriminates which entity a photo is attached to.
type PhotoOwnerKind string

const (
	OwnerCustomer    PhotoOwnerKind = "customer"
	OwnerAppointment PhotoOwnerKind = "appointment"
	OwnerBill        PhotoOwnerKind = "bill"
)

func (k PhotoOwnerKind) Valid() bool {
	switch k {
	case OwnerCustomer, OwnerAppointment, OwnerBill:
		return true
	}
	return false
}

// PhotoOwner is a tagged reference to the entity a photo belongs to.
// There is no foreign key behind it; readers filter photos by the
// (kind, id) pair.
type PhotoOwner struct {
	Kind PhotoOwnerKind
	ID   uuid.UUID
}

func CustomerOwner(id uuid.UUID) PhotoOwner    { return PhotoOwner{Kind: OwnerCustomer, ID: id} }
func AppointmentOwner(id uuid.UUID) PhotoOwner { return PhotoOwner{Kind: OwnerAppointment, ID: id} }
func BillOwner(id uuid.UUID) PhotoOwner        { return PhotoOwner{Kind: OwnerBill, ID: id} }

func (o PhotoOwner) Validate() error {
	if !o.Kind.Valid() {
		return fmt.Errorf("invalid photo owner kind %q", o.Kind)
	}
	if o.ID == uuid.Nil {
		return fmt.Errorf("photo owner id is required")
	}
	return nil
}

type Photo struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	ContentType PhotoOwnerKind `gorm:"type:varchar(20);index:idx_photo_owner;not null" json:"content_type"`
	ObjectID    uuid.UUID      `gorm:"type:uuid;index:idx_photo_owner;not null" json:"object_id"`

	FileName    string `gorm:"not null" json:"file_name"`
	URL         string `gorm:"not null" json:"url"`
	Description string `json:"description"`

	UploadedByID *uuid.UUID `gorm:"type:uuid" json:"uploaded_by_id"`
	UploadedBy   *User      `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`

	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

func (p *Photo) Owner() PhotoOwner {
	return PhotoOwner{Kind: p.ContentType, ID: p.ObjectID}
}
