package controllers

import (
	"errors"
	"net/http"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpdateSettingsInput struct {
	SalesTaxRate *float64 `json:"sales_tax_rate" binding:"omitempty,min=0"`
	Theme        *string  `json:"theme" binding:"omitempty,oneof=light dark"`
}

type UpdateUserSettingsInput struct {
	Theme    *string `json:"theme" binding:"omitempty,oneof=light dark"`
	FontSize *string `json:"font_size" binding:"omitempty,oneof=small medium large"`
}

// GetSettings returns the global settings row seeded at startup
func GetSettings(c *gin.Context) {
	var settings models.Settings
	if err := config.DB.First(&settings, models.SettingsRowID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Settings not initialized")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func UpdateSettings(c *gin.Context) {
	var input UpdateSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var settings models.Settings
	if err := config.DB.First(&settings, models.SettingsRowID).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Settings not initialized")
		return
	}

	if input.SalesTaxRate != nil {
		settings.SalesTaxRate = *input.SalesTaxRate
	}
	if input.Theme != nil {
		settings.Theme = *input.Theme
	}

	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}

// GetUserSettings returns the current user's preferences, creating the
// default row on first access.
func GetUserSettings(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var settings models.UserSettings
	err = config.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.UserSettings{UserID: userID, Theme: "light", FontSize: "medium"}
		if err := config.DB.Create(&settings).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user settings")
			return
		}
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, settings)
}

func UpdateUserSettings(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input UpdateUserSettingsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var settings models.UserSettings
	err = config.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.UserSettings{UserID: userID, Theme: "light", FontSize: "medium"}
		if err := config.DB.Create(&settings).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user settings")
			return
		}
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if input.Theme != nil {
		settings.Theme = *input.Theme
	}
	if input.FontSize != nil {
		settings.FontSize = *input.FontSize
	}

	if err := config.DB.Save(&settings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update user settings")
		return
	}

	c.JSON(http.StatusOK, settings)
}
