package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/middleware"
	"github.com/sharpcutlabs/booking-api/internal/models"
	"github.com/sharpcutlabs/booking-api/internal/storage"
)

const maxPhotoBytes = 5 << 20 // 5 MiB

// MediaHandler handles barber profile photo uploads.
type MediaHandler struct {
	db     *gorm.DB
	photos *storage.PhotoStore
}

func NewMediaHandler(db *gorm.DB, photos *storage.PhotoStore) *MediaHandler {
	return &MediaHandler{db: db, photos: photos}
}

func (h *MediaHandler) UploadBarberPhoto(c *gin.Context) {
	if h.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media_storage_disabled"})
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)

	var barber models.Barber
	if err := h.db.Where("user_id = ?", userID).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "No barber profile for this account.")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "A photo file is required.")
		return
	}
	if file.Size > maxPhotoBytes {
		httperr.BadRequest(c, "photo_too_large", "Photo exceeds the 5 MiB limit.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_photo", "Could not read the upload.")
		return
	}
	defer src.Close()

	url, err := h.photos.SaveBarberPhoto(c.Request.Context(), barber.ID, src)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_image") {
			httperr.BadRequest(c, "invalid_image", "The file is not a valid image.")
			return
		}
		httperr.Internal(c, "failed_to_store_photo", "Could not store the photo.")
		return
	}

	if err := h.db.Model(&barber).Update("photo_url", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barber", "Could not save the photo URL.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}
