package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/httpresp"
	"github.com/sharpcutlabs/booking-api/internal/middleware"
	"github.com/sharpcutlabs/booking-api/internal/models"
	usecase "github.com/sharpcutlabs/booking-api/internal/usecase/booking"
)

// ======================================================
// HANDLER — barber agenda (/api/barber)
// ======================================================

type BarberBookingHandler struct {
	db           *gorm.DB
	list         *usecase.ListBookings
	updateStatus *usecase.UpdateBookingStatus
}

func NewBarberBookingHandler(
	db *gorm.DB,
	list *usecase.ListBookings,
	updateStatus *usecase.UpdateBookingStatus,
) *BarberBookingHandler {
	return &BarberBookingHandler{
		db:           db,
		list:         list,
		updateStatus: updateStatus,
	}
}

// barberForUser resolves the barber profile of the authenticated user.
func (h *BarberBookingHandler) barberForUser(c *gin.Context) (*models.Barber, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var barber models.Barber
	if err := h.db.
		Preload("Branch").
		Where("user_id = ?", userID).
		First(&barber).Error; err != nil {

		httperr.NotFound(c, "barber_not_found", "No barber profile for this account.")
		return nil, false
	}

	return &barber, true
}

// ======================================================
// LIST BY DATE
// ======================================================

func (h *BarberBookingHandler) ListByDate(c *gin.Context) {
	barber, ok := h.barberForUser(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := parseDateInBranch(&barber.Branch, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	bookings, err := h.list.ByDate(c.Request.Context(), barber.ID, date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, bookings)
}

// ======================================================
// LIST BY MONTH
// ======================================================

func (h *BarberBookingHandler) ListByMonth(c *gin.Context) {
	barber, ok := h.barberForUser(c)
	if !ok {
		return
	}

	yearStr := c.Query("year")
	monthStr := c.Query("month")
	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	bookings, err := h.list.ByMonth(
		c.Request.Context(),
		barber.ID,
		year,
		month,
		locationFromBranch(&barber.Branch),
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"month":    month,
		"bookings": bookings,
	})
}

// ======================================================
// STATUS
// ======================================================

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BarberBookingHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.updateStatus.Execute(
		c.Request.Context(),
		usecase.UpdateStatusInput{
			BookingID:   uint(id),
			To:          domain.Status(req.Status),
			ActorUserID: userID,
			ActorRole:   role,
		},
	)
	if err != nil {
		mapStatusError(c, err)
		return
	}

	httpresp.OK(c, b)
}
