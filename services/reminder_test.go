package services

import (
	"testing"
	"time"

	"fieldpro-backend/models"
)

func TestMarkOverdueBills(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := &ReminderService{db: db}
	billing := NewBillingService(db)
	customer := seedCustomer(t, db)

	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	pastDue := now.AddDate(0, 0, -3)
	futureDue := now.AddDate(0, 0, 3)

	sentPast := models.Bill{CustomerID: &customer.ID, Type: models.BillTypeBill, Status: models.BillSent, DueDate: &pastDue}
	sentFuture := models.Bill{CustomerID: &customer.ID, Type: models.BillTypeBill, Status: models.BillSent, DueDate: &futureDue}
	draftPast := models.Bill{CustomerID: &customer.ID, Type: models.BillTypeBill, Status: models.BillDraft, DueDate: &pastDue}
	for _, b := range []*models.Bill{&sentPast, &sentFuture, &draftPast} {
		if err := billing.CreateBill(b); err != nil {
			t.Fatalf("seed bill: %v", err)
		}
	}

	svc.MarkOverdueBills()

	check := func(id interface{}, want string) {
		var got models.Bill
		if err := db.Where("id = ?", id).First(&got).Error; err != nil {
			t.Fatalf("reload bill: %v", err)
		}
		if got.Status != want {
			t.Errorf("bill status = %q, want %q", got.Status, want)
		}
	}
	check(sentPast.ID, models.BillOverdue)
	check(sentFuture.ID, models.BillSent)
	check(draftPast.ID, models.BillDraft)
}
