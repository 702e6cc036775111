package controllers

import (
	"errors"
	"log"
	"net/http"

	"fieldpro-backend/config"
	"fieldpro-backend/models"
	"fieldpro-backend/services"
	"fieldpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PhotoStore is the blob backend photos are written to; main wires it up
// at startup.
var PhotoStore services.PhotoStorage

// UploadPhoto accepts a multipart upload tagged with an owner reference
func UploadPhoto(c *gin.Context) {
	kind := models.PhotoOwnerKind(c.PostForm("content_type"))
	objectID, err := uuid.Parse(c.PostForm("object_id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid object_id")
		return
	}

	owner := models.PhotoOwner{Kind: kind, ID: objectID}
	if err := owner.Validate(); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !ownerExists(owner) {
		utils.RespondWithError(c, http.StatusBadRequest, "Referenced object not found")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Missing photo file")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Unreadable photo file")
		return
	}
	defer file.Close()

	url, err := PhotoStore.Save(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to store photo")
		return
	}

	photo := models.Photo{
		ContentType: owner.Kind,
		ObjectID:    owner.ID,
		FileName:    fileHeader.Filename,
		URL:         url,
		Description: c.PostForm("description"),
	}
	if userID, err := currentUserID(c); err == nil {
		photo.UploadedByID = &userID
	}

	if err := config.DB.Create(&photo).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save photo record")
		return
	}

	c.JSON(http.StatusCreated, photo)
}

// GetPhotos lists photos filtered by the owner tag pair
func GetPhotos(c *gin.Context) {
	query := config.DB.Model(&models.Photo{})

	kind := c.Query("content_type")
	objectID := c.Query("object_id")
	if kind != "" || objectID != "" {
		if kind == "" || objectID == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "content_type and object_id must be supplied together")
			return
		}
		if !models.PhotoOwnerKind(kind).Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid content_type")
			return
		}
		objectUUID, err := uuid.Parse(objectID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid object_id")
			return
		}
		query = query.Where("content_type = ? AND object_id = ?", kind, objectUUID)
	}

	var photos []models.Photo
	if err := query.Find(&photos).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve photos")
		return
	}

	c.JSON(http.StatusOK, photos)
}

// GetPhoto retrieves a photo record by ID
func GetPhoto(c *gin.Context) {
	photoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid photo ID format")
		return
	}

	var photo models.Photo
	if err := config.DB.Where("id = ?", photoUUID).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Photo not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, photo)
}

// DeletePhoto removes the record and its stored content
func DeletePhoto(c *gin.Context) {
	photoUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid photo ID format")
		return
	}

	var photo models.Photo
	if err := config.DB.Where("id = ?", photoUUID).First(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Photo not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&photo).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete photo")
		return
	}

	// The record is gone either way; an orphaned blob is not worth a 500.
	if err := PhotoStore.Delete(c.Request.Context(), photo.URL); err != nil {
		log.Printf("Failed to remove stored content for photo %s: %v", photo.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted successfully"})
}

// ownerExists checks the tagged reference against the owning table. There
// is no foreign key for photos; this is the only integrity check.
func ownerExists(owner models.PhotoOwner) bool {
	var count int64
	switch owner.Kind {
	case models.OwnerCustomer:
		config.DB.Model(&models.Customer{}).Where("id = ?", owner.ID).Count(&count)
	case models.OwnerAppointment:
		config.DB.Model(&models.Appointment{}).Where("id = ?", owner.ID).Count(&count)
	case models.OwnerBill:
		config.DB.Model(&models.Bill{}).Where("id = ?", owner.ID).Count(&count)
	}
	return count > 0
}
