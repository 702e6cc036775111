package controllers

import (
	"encoding/json"
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

// LineItemInput defines the structure for a bill line item
type LineItemInput struct {
	Description  string     `json:"description" binding:"required"`
	PartNumber   string     `json:"part_number"`
	Quantity     float64    `json:"quantity" binding:"min=0"`
	UnitPrice    float64    `json:"unit_price" binding:"min=0"`
	IsLabor      bool       `json:"is_labor"`
	IsTaxable    *bool      `json:"is_taxable"`
	TechnicianID *uuid.UUID `json:"technician_id"`
}

func (in LineItemInput) toModel() models.BillLineItem {
	taxable := true
	if in.IsTaxable != nil {
		taxable = *in.IsTaxable
	}
	return models.BillLineItem{
		Description:  in.Description,
		PartNumber:   in.PartNumber,
		Quantity:     in.Quantity,
		UnitPrice:    in.UnitPrice,
		IsLabor:      in.IsLabor,
		IsTaxable:    taxable,
		TechnicianID: in.TechnicianID,
	}
}

// CreateBillInput defines the expected JSON structure for creating a bill
type CreateBillInput struct {
	CustomerID    *uuid.UUID `json:"customer_id"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Type          string     `json:"type" binding:"required,oneof=bill estimate"`
	Status        string     `json:"status" binding:"omitempty,oneof=draft sent paid overdue cancelled"`
	Description   string     `json:"description"`
	Notes         string     `json:"notes"`
	DueDate       *string    `json:"due_date"` // YYYY-MM-DD
	EmployeeName  string     `json:"employee_name"`
}

// NullableUUID distinguishes an omitted JSON field from an explicit null,
// so a nullable reference can be cleared through the API.
type NullableUUID struct {
	Set   bool
	Value *uuid.UUID
}

func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// UpdateBillInput defines the expected JSON structure for updating a bill.
// A present line_items list replaces all existing items; omitting it leaves
// them untouched. customer_id and appointment_id accept an explicit null to
// clear the reference.
type UpdateBillInput struct {
	CustomerID    NullableUUID     `json:"customer_id"`
	AppointmentID NullableUUID     `json:"appointment_id"`
	Type          *string          `json:"type" binding:"omitempty,oneof=bill estimate"`
	Status        *string          `json:"status" binding:"omitempty,oneof=draft sent paid overdue cancelled"`
	Description   *string          `json:"description"`
	Notes         *string          `json:"notes"`
	DueDate       *string          `json:"due_date"`
	EmployeeName  *string          `json:"employee_name"`
	LineItems     *[]LineItemInput `json:"line_items"`
}

// CreateBill creates a bill together with its default labor line item.
func CreateBill(c *gin.Context) {
	var input CreateBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.CustomerID != nil {
		var customer models.Customer
		if err := config.DB.Where("id = ?", *input.CustomerID).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}
	if input.AppointmentID != nil {
		var appointment models.Appointment
		if err := config.DB.Where("id = ?", *input.AppointmentID).First(&appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Appointment not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	status := input.Status
	if status == "" {
		status = models.BillDraft
	}

	bill := models.Bill{
		CustomerID:    input.CustomerID,
		AppointmentID: input.AppointmentID,
		Type:          input.Type,
		Status:        status,
		Description:   input.Description,
		Notes:         input.Notes,
		EmployeeName:  input.EmployeeName,
	}

	if input.DueDate != nil {
		due, err := utils.ParseDate(*input.DueDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		bill.DueDate = &due
	}

	billing := services.NewBillingService(config.DB)
	if err := billing.CreateBill(&bill); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create bill")
		return
	}

	bill.Recalculate()
	c.JSON(http.StatusCreated, bill)
}

// GetBills retrieves bills, filterable by customer, appointment, type and
// status. Totals are derived from line items on every read.
func GetBills(c *gin.Context) {
	query := config.DB.Preload("LineItems")

	if customer := c.Query("customer"); customer != "" {
		query = query.Where("customer_id = ?", customer)
	}
	if appointment := c.Query("appointment"); appointment != "" {
		query = query.Where("appointment_id = ?", appointment)
	}
	if billType := c.Query("type"); billType != "" {
		query = query.Where("type = ?", billType)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bills []models.Bill
	if err := query.Find(&bills).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bills")
		return
	}

	for i := range bills {
		bills[i].Recalculate()
	}

	c.JSON(http.StatusOK, bills)
}

// GetBill retrieves a specific bill by ID with derived totals
func GetBill(c *gin.Context) {
	billUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
		return
	}

	billing := services.NewBillingService(config.DB)
	bill, err := billing.LoadBill(billUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Bill not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, bill)
}

// UpdateBill applies field changes; a supplied line_items list replaces all
// existing line items.
func UpdateBill(c *gin.Context) {
	billUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
		return
	}

	var input UpdateBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var bill models.Bill
	if err := config.DB.Where("id = ?", billUUID).First(&bill).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Bill not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.CustomerID.Set {
		if input.CustomerID.Value != nil {
			var customer models.Customer
			if err := config.DB.Where("id = ?", *input.CustomerID.Value).First(&customer).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusBadRequest, "Customer not found")
				} else {
					utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				}
				return
			}
		}
		bill.CustomerID = input.CustomerID.Value
	}
	if input.AppointmentID.Set {
		if input.AppointmentID.Value != nil {
			var appointment models.Appointment
			if err := config.DB.Where("id = ?", *input.AppointmentID.Value).First(&appointment).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					utils.RespondWithError(c, http.StatusBadRequest, "Appointment not found")
				} else {
					utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
				}
				return
			}
		}
		bill.AppointmentID = input.AppointmentID.Value
	}
	if input.Type != nil {
		bill.Type = *input.Type
	}
	if input.Status != nil {
		bill.Status = *input.Status
	}
	if input.Description != nil {
		bill.Description = *input.Description
	}
	if input.Notes != nil {
		bill.Notes = *input.Notes
	}
	if input.DueDate != nil {
		due, err := utils.ParseDate(*input.DueDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid due date, expected YYYY-MM-DD")
			return
		}
		bill.DueDate = &due
	}
	if input.EmployeeName != nil {
		bill.EmployeeName = *input.EmployeeName
	}

	var replacement *[]models.BillLineItem
	if input.LineItems != nil {
		items := make([]models.BillLineItem, 0, len(*input.LineItems))
		for _, in := range *input.LineItems {
			items = append(items, in.toModel())
		}
		replacement = &items
	}

	billing := services.NewBillingService(config.DB)
	if err := billing.SaveBill(&bill, replacement); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update bill")
		return
	}

	updated, err := billing.LoadBill(bill.ID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteBill removes a bill and its line items
func DeleteBill(c *gin.Context) {
	billUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
		return
	}

	billing := services.NewBillingService(config.DB)
	if err := billing.DeleteBill(billUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Bill not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete bill")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted successfully"})
}
