package controllers

import (
	"net/http"
	"time"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type DashboardOverview struct {
	TotalCustomers         int64                `json:"total_customers"`
	TodaysAppointments     []models.Appointment `json:"todays_appointments"`
	ScheduledCount         int64                `json:"scheduled_count"`
	InProgressCount        int64                `json:"in_progress_count"`
	DraftBills             int64                `json:"draft_bills"`
	OverdueBills           int64                `json:"overdue_bills"`
	OutstandingReceivables float64              `json:"outstanding_receivables"`
}

// GetDashboardOverview summarises today's schedule and the billing backlog
func GetDashboardOverview(c *gin.Context) {
	var overview DashboardOverview

	config.DB.Model(&models.Customer{}).Count(&overview.TotalCustomers)

	today := utils.BeginningOfDay(time.Now())
	if err := config.DB.Preload("Customer").Preload("Technician").
		Where("appointment_date = ?", today).
		Order("start_time").
		Find(&overview.TodaysAppointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load today's appointments")
		return
	}

	config.DB.Model(&models.Appointment{}).
		Where("status = ?", models.AppointmentScheduled).Count(&overview.ScheduledCount)
	config.DB.Model(&models.Appointment{}).
		Where("status = ?", models.AppointmentInProgress).Count(&overview.InProgressCount)

	config.DB.Model(&models.Bill{}).
		Where("type = ? AND status = ?", models.BillTypeBill, models.BillDraft).
		Count(&overview.DraftBills)
	config.DB.Model(&models.Bill{}).
		Where("type = ? AND status = ?", models.BillTypeBill, models.BillOverdue).
		Count(&overview.OverdueBills)

	// Bill totals are derived, so outstanding receivables come from the
	// line items of sent and overdue bills.
	config.DB.Raw(`
        SELECT COALESCE(SUM(li.quantity * li.unit_price), 0)
        FROM bill_line_items li
        JOIN bills b ON b.id = li.bill_id
        WHERE b.type = ? AND b.status IN (?, ?)
    `, models.BillTypeBill, models.BillSent, models.BillOverdue).
		Scan(&overview.OutstandingReceivables)

	c.JSON(http.StatusOK, overview)
}
