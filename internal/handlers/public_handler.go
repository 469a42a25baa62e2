package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/httpresp"
	"github.com/sharpcutlabs/booking-api/internal/models"
	"github.com/sharpcutlabs/booking-api/internal/timezone"
	usecase "github.com/sharpcutlabs/booking-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type PublicHandler struct {
	db          *gorm.DB
	repo        domain.Repository
	slots       *usecase.GetAvailableSlots
	createGuest *usecase.CreateGuestBooking
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	slots *usecase.GetAvailableSlots,
	createGuest *usecase.CreateGuestBooking,
) *PublicHandler {
	return &PublicHandler{
		db:          db,
		repo:        repo,
		slots:       slots,
		createGuest: createGuest,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type GuestBookingRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`

	BranchID  uint `json:"branch_id" binding:"required"`
	BarberID  uint `json:"barber_id"`
	ServiceID uint `json:"service_id" binding:"required"`

	Date      string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime string `json:"start_time" binding:"required"` // HH:mm
	Notes     string `json:"notes"`
}

// ======================================================
// CATALOG
// ======================================================

func (h *PublicHandler) ListBranches(c *gin.Context) {
	var branches []models.Branch
	if err := h.db.
		Where("is_active = true").
		Order("id ASC").
		Find(&branches).Error; err != nil {
		httperr.Internal(c, "failed_to_list_branches", "Could not list branches.")
		return
	}

	httpresp.List(c, branches)
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	branchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_branch_id", "Invalid branch.")
		return
	}

	var services []models.Service
	if err := h.db.
		Where("branch_id = ? AND active = true", branchID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	branchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_branch_id", "Invalid branch.")
		return
	}

	var barbers []models.Barber
	if err := h.db.
		Preload("User").
		Where("branch_id = ? AND is_active = true", branchID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Could not list barbers.")
		return
	}

	httpresp.List(c, barbers)
}

func (h *PublicHandler) ListAllBarbers(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.
		Preload("User").
		Preload("Branch").
		Where("is_active = true").
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Could not list barbers.")
		return
	}

	httpresp.List(c, barbers)
}

func (h *PublicHandler) GetBarber(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Invalid barber.")
		return
	}

	var barber models.Barber
	if err := h.db.
		Preload("User").
		Preload("Branch").
		Where("id = ? AND is_active = true", id).
		First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}

	httpresp.OK(c, barber)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *PublicHandler) Availability(c *gin.Context) {
	barberIDStr := c.Query("barber_id")
	dateStr := c.Query("date")
	serviceIDStr := c.Query("service_id")
	durationStr := c.Query("duration")

	if barberIDStr == "" || dateStr == "" || (serviceIDStr == "" && durationStr == "") {
		httperr.BadRequest(c, "missing_params", "barber_id, date and service_id (or duration) are required.")
		return
	}

	barberID, err := strconv.ParseUint(barberIDStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Invalid barber.")
		return
	}

	// The grid step comes from the chosen service, or from an explicit
	// duration for callers browsing before they pick one.
	var slotMinutes int
	if serviceIDStr != "" {
		serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
			return
		}

		service, err := h.repo.GetService(c.Request.Context(), uint(serviceID))
		if err != nil || !service.Active {
			httperr.NotFound(c, "service_not_found", "Service not found.")
			return
		}
		slotMinutes = service.DurationMin
	} else {
		slotMinutes, err = strconv.Atoi(durationStr)
		if err != nil || slotMinutes <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Invalid slot duration.")
			return
		}
	}

	barber, err := h.repo.GetBarberByID(c.Request.Context(), uint(barberID))
	if err != nil || !barber.IsActive {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}

	date, err := time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(barber.Branch.Timezone),
	)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	slots, err := h.slots.Execute(
		c.Request.Context(),
		domain.AvailabilityInput{
			BarberID:    uint(barberID),
			Date:        date,
			SlotMinutes: slotMinutes,
		},
	)
	if err != nil {
		if httperr.IsBusiness(err, "invalid_duration") {
			httperr.BadRequest(c, "invalid_duration", "Invalid slot duration.")
			return
		}

		httperr.Internal(c, "availability_failed", "Could not compute slots.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// ======================================================
// GUEST BOOKINGS
// ======================================================

func (h *PublicHandler) CreateGuestBooking(c *gin.Context) {
	var req GuestBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	g, err := h.createGuest.Execute(
		c.Request.Context(),
		domain.CreateGuestBookingInput{
			Name:      req.Name,
			Email:     req.Email,
			Phone:     req.Phone,
			BranchID:  req.BranchID,
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

	c.JSON(http.StatusCreated, g)
}

func (h *PublicHandler) GetGuestBooking(c *gin.Context) {
	reference := c.Param("reference")

	g, err := h.repo.GetGuestBookingByReference(c.Request.Context(), reference)
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	c.JSON(http.StatusOK, g)
}

// mapBookingError translates business errors from the admission path
// into HTTP responses. Slot conflicts are 409.
func mapBookingError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "slot_unavailable"):
		httperr.Conflict(c, "slot_unavailable", "The requested time is no longer available.")
	case httperr.IsBusiness(err, "outside_working_hours"):
		httperr.BadRequest(c, "outside_working_hours", "Outside the barber's working hours.")
	case httperr.IsBusiness(err, "invalid_date_or_time"):
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
	case httperr.IsBusiness(err, "branch_not_found"):
		httperr.BadRequest(c, "branch_not_found", "Branch not found.")
	case httperr.IsBusiness(err, "barber_not_found"):
		httperr.BadRequest(c, "barber_not_found", "Barber not found.")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Service not found.")
	default:
		httperr.Internal(c, "failed_to_create_booking", "Could not create the booking.")
	}
}
