package controllers

import (
	"errors"
	"net/http"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateAppointmentInput defines the expected JSON structure for creating an appointment
type CreateAppointmentInput struct {
	CustomerID      uuid.UUID  `json:"customer_id" binding:"required"`
	TechnicianID    *uuid.UUID `json:"technician_id"`
	AppointmentDate string     `json:"appointment_date" binding:"required"` // YYYY-MM-DD
	StartTime       string     `json:"start_time" binding:"required"`       // HH:MM
	EndTime         string     `json:"end_time" binding:"required"`         // HH:MM
	Description     string     `json:"description" binding:"required"`
	Status          string     `json:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Priority        string     `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
	Notes           string     `json:"notes"`
}

// UpdateAppointmentInput defines the expected JSON structure for updating an appointment
type UpdateAppointmentInput struct {
	TechnicianID    *uuid.UUID `json:"technician_id"`
	AppointmentDate *string    `json:"appointment_date"`
	StartTime       *string    `json:"start_time"`
	EndTime         *string    `json:"end_time"`
	Description     *string    `json:"description"`
	Status          *string    `json:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Priority        *string    `json:"priority" binding:"omitempty,oneof=low medium high emergency"`
	Notes           *string    `json:"notes"`
}

// CreateAppointment creates an appointment together with its draft bill
// and the bill's default labor line item.
func CreateAppointment(c *gin.Context) {
	var input CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date, err := utils.ParseDate(input.AppointmentDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment date, expected YYYY-MM-DD")
		return
	}
	if !utils.ValidateTimeOfDay(input.StartTime) || !utils.ValidateTimeOfDay(input.EndTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid time, expected HH:MM")
		return
	}

	var customer models.Customer
	if err := config.DB.Where("id = ?", input.CustomerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.TechnicianID != nil {
		var technician models.Technician
		if err := config.DB.Where("id = ?", *input.TechnicianID).First(&technician).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Technician not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	status := input.Status
	if status == "" {
		status = models.AppointmentScheduled
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	appointment := models.Appointment{
		CustomerID:      input.CustomerID,
		TechnicianID:    input.TechnicianID,
		AppointmentDate: date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Description:     input.Description,
		Status:          status,
		Priority:        priority,
		Notes:           input.Notes,
	}

	billing := services.NewBillingService(config.DB)
	if _, err := billing.CreateAppointmentWithBill(&appointment); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create appointment")
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

// GetAppointments retrieves appointments, filterable by customer,
// technician, status and date.
func GetAppointments(c *gin.Context) {
	query := config.DB.Preload("Customer").Preload("Technician")

	if customer := c.Query("customer"); customer != "" {
		query = query.Where("customer_id = ?", customer)
	}
	if technician := c.Query("technician"); technician != "" {
		query = query.Where("technician_id = ?", technician)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		parsed, err := utils.ParseDate(date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date filter, expected YYYY-MM-DD")
			return
		}
		query = query.Where("appointment_date = ?", parsed)
	}

	var appointments []models.Appointment
	if err := query.Find(&appointments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve appointments")
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// GetAppointment retrieves a specific appointment by ID
func GetAppointment(c *gin.Context) {
	apptUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := config.DB.Preload("Customer").Preload("Technician").
		Where("id = ?", apptUUID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// UpdateAppointment applies field changes and mirrors description/notes
// onto the linked bill.
func UpdateAppointment(c *gin.Context) {
	apptUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	var input UpdateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := config.DB.Where("id = ?", apptUUID).First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.TechnicianID != nil {
		var technician models.Technician
		if err := config.DB.Where("id = ?", *input.TechnicianID).First(&technician).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Technician not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		appointment.TechnicianID = input.TechnicianID
	}
	if input.AppointmentDate != nil {
		date, err := utils.ParseDate(*input.AppointmentDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment date, expected YYYY-MM-DD")
			return
		}
		appointment.AppointmentDate = date
	}
	if input.StartTime != nil {
		if !utils.ValidateTimeOfDay(*input.StartTime) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid start time, expected HH:MM")
			return
		}
		appointment.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		if !utils.ValidateTimeOfDay(*input.EndTime) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid end time, expected HH:MM")
			return
		}
		appointment.EndTime = *input.EndTime
	}
	if input.Description != nil {
		appointment.Description = *input.Description
	}
	if input.Status != nil {
		appointment.Status = *input.Status
	}
	if input.Priority != nil {
		appointment.Priority = *input.Priority
	}
	if input.Notes != nil {
		appointment.Notes = *input.Notes
	}

	billing := services.NewBillingService(config.DB)
	if err := billing.SaveAppointment(&appointment); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update appointment")
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// DeleteAppointment removes an appointment; the linked bill survives with
// its appointment reference cleared.
func DeleteAppointment(c *gin.Context) {
	apptUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid appointment ID format")
		return
	}

	billing := services.NewBillingService(config.DB)
	if err := billing.DeleteAppointment(apptUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Appointment not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete appointment")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
