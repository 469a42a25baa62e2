package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sharpcutlabs/booking-api/internal/middleware"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user_not_found"})
		return
	}

	resp := gin.H{
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
			"role":  user.Role,
		},
	}

	// Barbers also get their profile in the same payload.
	var barber models.Barber
	if err := h.db.
		Preload("Branch").
		Where("user_id = ?", userID).
		First(&barber).Error; err == nil {
		resp["barber"] = barber
	}

	c.JSON(http.StatusOK, resp)
}
