// services/reminder.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"fieldpro-backend/models"
	"fieldpro-backend/utils"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// Swapped out in tests.
var timeNow = time.Now

// ReminderService runs the daily batch jobs: marking sent bills past their
// due date as overdue, and texting customers about next-day appointments.
type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 7 AM
	c.AddFunc("0 7 * * *", func() {
		s.MarkOverdueBills()
		s.SendAppointmentReminders()
	})

	c.Start()
	log.Println("Daily job scheduler started")
}

// MarkOverdueBills flips sent bills whose due date has passed to overdue.
func (s *ReminderService) MarkOverdueBills() {
	today := utils.BeginningOfDay(timeNow())

	result := s.db.Model(&models.Bill{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", models.BillSent, today).
		Update("status", models.BillOverdue)
	if result.Error != nil {
		log.Printf("Failed to mark overdue bills: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Marked %d bills overdue", result.RowsAffected)
	}
}

// SendAppointmentReminders texts every customer with an appointment
// scheduled for tomorrow.
func (s *ReminderService) SendAppointmentReminders() {
	tomorrow := utils.Tomorrow(timeNow())

	var appointments []models.Appointment
	if err := s.db.Preload("Customer").
		Where("appointment_date = ? AND status = ?", tomorrow, models.AppointmentScheduled).
		Find(&appointments).Error; err != nil {
		log.Printf("Failed to fetch tomorrow's appointments: %v", err)
		return
	}

	for _, appt := range appointments {
		if appt.Customer == nil || appt.Customer.Phone == "" {
			continue
		}

		message := fmt.Sprintf(
			"Reminder: you have a service appointment tomorrow at %s. Reply to this number with any questions.",
			appt.StartTime)

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(appt.Customer.Phone)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
		params.SetBody(message)

		resp, err := s.client.Api.CreateMessage(params)
		if err != nil {
			log.Printf("Failed to send reminder to %s: %v", appt.Customer.Phone, err)
			continue
		}
		if resp.Sid != nil {
			log.Printf("Reminder sent to %s, SID: %s", appt.Customer.Phone, *resp.Sid)
		} else {
			log.Printf("Reminder sent to %s, but no SID returned", appt.Customer.Phone)
		}
	}
}
