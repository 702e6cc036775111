package controllers

import (
	"errors"
	"net/http"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UpdateLineItemInput struct {
	Description  *string    `json:"description"`
	PartNumber   *string    `json:"part_number"`
	Quantity     *float64   `json:"quantity" binding:"omitempty,min=0"`
	UnitPrice    *float64   `json:"unit_price" binding:"omitempty,min=0"`
	IsLabor      *bool      `json:"is_labor"`
	IsTaxable    *bool      `json:"is_taxable"`
	TechnicianID *uuid.UUID `json:"technician_id"`
}

// GetLineItems lists the line items of a bill with derived amounts
func GetLineItems(c *gin.Context) {
	billUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
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

	var items []models.BillLineItem
	if err := config.DB.Where("bill_id = ?", billUUID).Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve line items")
		return
	}

	for i := range items {
		items[i].Amount = items[i].ComputeAmount()
	}

	c.JSON(http.StatusOK, items)
}

// CreateLineItem adds a line item to a bill
func CreateLineItem(c *gin.Context) {
	billUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid bill ID format")
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

	var input LineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
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

	item := input.toModel()
	item.BillID = billUUID

	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create line item")
		return
	}

	item.Amount = item.ComputeAmount()
	c.JSON(http.StatusCreated, item)
}

// UpdateLineItem updates a single line item
func UpdateLineItem(c *gin.Context) {
	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid line item ID format")
		return
	}

	var input UpdateLineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var item models.BillLineItem
	if err := config.DB.Where("id = ?", itemUUID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Line item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.PartNumber != nil {
		item.PartNumber = *input.PartNumber
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if input.IsLabor != nil {
		item.IsLabor = *input.IsLabor
	}
	if input.IsTaxable != nil {
		item.IsTaxable = *input.IsTaxable
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
		item.TechnicianID = input.TechnicianID
	}

	if err := config.DB.Save(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update line item")
		return
	}

	item.Amount = item.ComputeAmount()
	c.JSON(http.StatusOK, item)
}

// DeleteLineItem removes a single line item
func DeleteLineItem(c *gin.Context) {
	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid line item ID format")
		return
	}

	result := config.DB.Where("id = ?", itemUUID).Delete(&models.BillLineItem{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete line item")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Line item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Line item deleted successfully"})
}
