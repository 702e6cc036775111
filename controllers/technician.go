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

// CreateTechnicianInput creates the linked user account alongside the
// technician record.
type CreateTechnicianInput struct {
	Email     string  `json:"email" binding:"required,email"`
	Name      string  `json:"name" binding:"required"`
	Password  string  `json:"password" binding:"required,min=8"`
	Phone     string  `json:"phone"`
	LaborRate float64 `json:"labor_rate" binding:"min=0"`
}

type UpdateTechnicianInput struct {
	Phone       *string  `json:"phone"`
	IsAvailable *bool    `json:"is_available"`
	LaborRate   *float64 `json:"labor_rate" binding:"omitempty,min=0"`
}

func CreateTechnician(c *gin.Context) {
	var input CreateTechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existingUser models.User
	result := config.DB.Where("email = ?", input.Email).First(&existingUser)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var technician models.Technician
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Email:    input.Email,
			Name:     input.Name,
			Phone:    input.Phone,
			Password: input.Password,
			Role:     "technician",
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		technician = models.Technician{
			UserID:    user.ID,
			Phone:     input.Phone,
			LaborRate: input.LaborRate,
		}
		return tx.Create(&technician).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create technician")
		return
	}

	config.DB.Preload("User").First(&technician, "id = ?", technician.ID)
	c.JSON(http.StatusCreated, technician)
}

func GetTechnicians(c *gin.Context) {
	var technicians []models.Technician
	if err := config.DB.Preload("User").Find(&technicians).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve technicians")
		return
	}

	c.JSON(http.StatusOK, technicians)
}

func GetTechnician(c *gin.Context) {
	techUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid technician ID format")
		return
	}

	var technician models.Technician
	if err := config.DB.Preload("User").Where("id = ?", techUUID).First(&technician).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Technician not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, technician)
}

func UpdateTechnician(c *gin.Context) {
	techUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid technician ID format")
		return
	}

	var input UpdateTechnicianInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var technician models.Technician
	if err := config.DB.Where("id = ?", techUUID).First(&technician).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Technician not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Phone != nil {
		technician.Phone = *input.Phone
	}
	if input.IsAvailable != nil {
		technician.IsAvailable = *input.IsAvailable
	}
	if input.LaborRate != nil {
		technician.LaborRate = *input.LaborRate
	}

	if err := config.DB.Save(&technician).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update technician")
		return
	}

	c.JSON(http.StatusOK, technician)
}

// DeleteTechnician removes a technician; appointments and line items that
// referenced them keep their rows with the reference cleared.
func DeleteTechnician(c *gin.Context) {
	techUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid technician ID format")
		return
	}

	billing := services.NewBillingService(config.DB)
	if err := billing.DeleteTechnician(techUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Technician not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete technician")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Technician deleted successfully"})
}
