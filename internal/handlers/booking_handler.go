package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/httpresp"
	"github.com/sharpcutlabs/booking-api/internal/middleware"
	usecase "github.com/sharpcutlabs/booking-api/internal/usecase/booking"
)

// ======================================================
// HANDLER — authenticated customer bookings (/api/me)
// ======================================================

type BookingHandler struct {
	repo         domain.Repository
	create       *usecase.CreateBooking
	updateStatus *usecase.UpdateBookingStatus
}

func NewBookingHandler(
	repo domain.Repository,
	create *usecase.CreateBooking,
	updateStatus *usecase.UpdateBookingStatus,
) *BookingHandler {
	return &BookingHandler{
		repo:         repo,
		create:       create,
		updateStatus: updateStatus,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	BarberID  uint   `json:"barber_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime string `json:"start_time" binding:"required"` // HH:mm
	Notes     string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	b, err := h.create.Execute(
		c.Request.Context(),
		domain.CreateBookingInput{
			UserID:    userID,
			BarberID:  req.BarberID,
			ServiceID: req.ServiceID,
			Date:      req.Date,
			StartTime: req.StartTime,
			Notes:     req.Notes,
		},
	)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	status := c.Query("status")

	bookings, err := h.repo.ListBookingsForUser(c.Request.Context(), userID, status)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking.")
		return
	}

	b, err := h.repo.GetBookingByID(c.Request.Context(), uint(id))
	if err != nil || b.UserID != userID {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// CANCEL
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.MustGet(middleware.ContextUserRole).(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking.")
		return
	}

	b, err := h.updateStatus.Execute(
		c.Request.Context(),
		usecase.UpdateStatusInput{
			BookingID:   uint(id),
			To:          domain.StatusCancelled,
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

// mapStatusError translates business errors from the transition path.
func mapStatusError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "booking_not_found"):
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
	case httperr.IsBusiness(err, "forbidden"):
		httperr.Forbidden(c, "forbidden", "You cannot change this booking.")
	case httperr.IsBusiness(err, "invalid_status"):
		httperr.BadRequest(c, "invalid_status", "Unknown status.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.BadRequest(c, "invalid_state", "The booking cannot move to that status.")
	default:
		httperr.Internal(c, "failed_to_update_booking", "Could not update the booking.")
	}
}
