package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/middleware"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

type WorkHoursHandler struct {
	db *gorm.DB
}

func NewWorkHoursHandler(db *gorm.DB) *WorkHoursHandler {
	return &WorkHoursHandler{db: db}
}

type WorkDayConfig struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WorkHoursUpdateRequest struct {
	Days []WorkDayConfig `json:"days" binding:"required"`
}

func (h *WorkHoursHandler) barberID(c *gin.Context) (uint, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var barber models.Barber
	if err := h.db.Where("user_id = ?", userID).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "No barber profile for this account.")
		return 0, false
	}

	return barber.ID, true
}

func (h *WorkHoursHandler) Get(c *gin.Context) {
	barberID, ok := h.barberID(c)
	if !ok {
		return
	}

	var hours []models.WorkHour
	if err := h.db.
		Where("barber_id = ?", barberID).
		Order("day_of_week ASC").
		Find(&hours).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_work_hours"})
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *WorkHoursHandler) Update(c *gin.Context) {
	barberID, ok := h.barberID(c)
	if !ok {
		return
	}

	var req WorkHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	for _, d := range req.Days {
		if !d.Active {
			continue
		}

		start, err := domain.ParseHHMM(d.StartTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_time", "Times must be HH:MM.")
			return
		}
		end, err := domain.ParseHHMM(d.EndTime)
		if err != nil {
			httperr.BadRequest(c, "invalid_time", "Times must be HH:MM.")
			return
		}
		if end <= start {
			httperr.BadRequest(c, "invalid_window", "End must be after start.")
			return
		}
	}

	// Upsert on (barber_id, day_of_week); days absent from the request
	// are left untouched.
	for _, d := range req.Days {
		wh := models.WorkHour{
			BarberID:  barberID,
			DayOfWeek: d.DayOfWeek,
			Active:    d.Active,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		}

		err := h.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "barber_id"},
				{Name: "day_of_week"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"active", "start_time", "end_time", "updated_at",
			}),
		}).Create(&wh).Error

		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_work_hours"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
