// services/billing.go
package services

import (
	"errors"

	"fieldpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillingService owns the cascading writes between appointments, bills and
// line items. Each operation runs in a single transaction so a partial
// cascade is never visible: an appointment always has its bill, a bill
// always has its default labor item.
type BillingService struct {
	db *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// CreateAppointmentWithBill persists the appointment together with its draft
// bill and the bill's default labor line item. The bill copies the
// appointment's description and notes at creation time.
func (s *BillingService) CreateAppointmentWithBill(appt *models.Appointment) (*models.Bill, error) {
	var bill *models.Bill
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(appt).Error; err != nil {
			return err
		}
		b := models.Bill{
			CustomerID:    &appt.CustomerID,
			AppointmentID: &appt.ID,
			Type:          models.BillTypeBill,
			Status:        models.BillDraft,
			Description:   appt.Description,
			Notes:         appt.Notes,
		}
		if err := createBillWithDefaultItem(tx, &b); err != nil {
			return err
		}
		bill = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// CreateBill persists a bill and its default labor line item.
func (s *BillingService) CreateBill(bill *models.Bill) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return createBillWithDefaultItem(tx, bill)
	})
}

func createBillWithDefaultItem(tx *gorm.DB, bill *models.Bill) error {
	if err := tx.Create(bill).Error; err != nil {
		return err
	}
	item := models.BillLineItem{
		BillID:      bill.ID,
		Description: "Labor",
		Quantity:    0,
		UnitPrice:   0,
		IsLabor:     true,
		IsTaxable:   false,
	}
	if err := tx.Create(&item).Error; err != nil {
		return err
	}
	bill.LineItems = append(bill.LineItems, item)
	return nil
}

// SaveAppointment persists appointment changes and mirrors description and
// notes onto the linked bill when one exists. The sync is one-way; an
// appointment without a bill is not an error.
func (s *BillingService) SaveAppointment(appt *models.Appointment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(appt).Error; err != nil {
			return err
		}
		var bill models.Bill
		err := tx.Where("appointment_id = ?", appt.ID).First(&bill).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&bill).Updates(map[string]interface{}{
			"description": appt.Description,
			"notes":       appt.Notes,
		}).Error
	})
}

// SaveBill persists bill changes. When items is non-nil the bill's line
// items are replaced wholesale with the given list (an empty list clears
// them); a nil items pointer leaves existing line items untouched.
func (s *BillingService) SaveBill(bill *models.Bill, items *[]models.BillLineItem) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("LineItems").Save(bill).Error; err != nil {
			return err
		}
		if items == nil {
			return nil
		}
		if err := tx.Where("bill_id = ?", bill.ID).Delete(&models.BillLineItem{}).Error; err != nil {
			return err
		}
		newItems := *items
		for i := range newItems {
			newItems[i].ID = uuid.Nil
			newItems[i].BillID = bill.ID
			if err := tx.Create(&newItems[i]).Error; err != nil {
				return err
			}
		}
		bill.LineItems = newItems
		return nil
	})
}

// LoadBill fetches a bill with its line items and derived totals filled in.
func (s *BillingService) LoadBill(id uuid.UUID) (*models.Bill, error) {
	var bill models.Bill
	if err := s.db.Preload("LineItems").Where("id = ?", id).First(&bill).Error; err != nil {
		return nil, err
	}
	bill.Recalculate()
	return &bill, nil
}

// DeleteCustomer removes the customer and its appointments. Bills survive
// with their customer and appointment references cleared, preserving
// billing history.
func (s *BillingService) DeleteCustomer(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("id = ?", id).First(&customer).Error; err != nil {
			return err
		}
		var apptIDs []uuid.UUID
		if err := tx.Model(&models.Appointment{}).Where("customer_id = ?", id).
			Pluck("id", &apptIDs).Error; err != nil {
			return err
		}
		if len(apptIDs) > 0 {
			if err := tx.Model(&models.Bill{}).Where("appointment_id IN ?", apptIDs).
				Update("appointment_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Bill{}).Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
}

// DeleteAppointment removes the appointment only; the linked bill keeps its
// row with the appointment reference cleared.
func (s *BillingService) DeleteAppointment(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var appt models.Appointment
		if err := tx.Where("id = ?", id).First(&appt).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Bill{}).Where("appointment_id = ?", id).
			Update("appointment_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&appt).Error
	})
}

// DeleteTechnician removes the technician and clears references on
// appointments and line items rather than deleting them.
func (s *BillingService) DeleteTechnician(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var tech models.Technician
		if err := tx.Where("id = ?", id).First(&tech).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Appointment{}).Where("technician_id = ?", id).
			Update("technician_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BillLineItem{}).Where("technician_id = ?", id).
			Update("technician_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&tech).Error
	})
}

// DeleteBill removes the bill and its line items.
func (s *BillingService) DeleteBill(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var bill models.Bill
		if err := tx.Where("id = ?", id).First(&bill).Error; err != nil {
			return err
		}
		if err := tx.Where("bill_id = ?", id).Delete(&models.BillLineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&bill).Error
	})
}
