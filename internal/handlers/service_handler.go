package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sharpcutlabs/booking-api/internal/audit"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/httpresp"
	"github.com/sharpcutlabs/booking-api/internal/middleware"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

// ======================================================
// HANDLER — service catalog management (/api/barber/services)
// ======================================================

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, auditDisp *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: auditDisp}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=15,max=480"`
	Price       float64 `json:"price" binding:"required,gt=0"`

	// When true the service is offered by this barber only.
	Personal bool `json:"personal"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Active      *bool    `json:"active"`
}

func (h *ServiceHandler) barberForUser(c *gin.Context) (*models.Barber, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var barber models.Barber
	if err := h.db.Where("user_id = ?", userID).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "No barber profile for this account.")
		return nil, false
	}

	return &barber, true
}

// ======================================================
// LIST
// ======================================================

func (h *ServiceHandler) List(c *gin.Context) {
	barber, ok := h.barberForUser(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("branch_id = ? AND (barber_id IS NULL OR barber_id = ?)", barber.BranchID, barber.ID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

// ======================================================
// CREATE
// ======================================================

func (h *ServiceHandler) Create(c *gin.Context) {
	barber, ok := h.barberForUser(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	svc := models.Service{
		BranchID:    barber.BranchID,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
	}
	if req.Personal {
		svc.BarberID = &barber.ID
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create the service.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BranchID: barber.BranchID,
		UserID:   &barber.UserID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	c.JSON(http.StatusCreated, svc)
}

// ======================================================
// UPDATE
// ======================================================

func (h *ServiceHandler) Update(c *gin.Context) {
	barber, ok := h.barberForUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return
	}

	var svc models.Service
	if err := h.db.
		Where("id = ? AND branch_id = ?", id, barber.BranchID).
		First(&svc).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 15 || *req.DurationMin > 480 {
			httperr.BadRequest(c, "invalid_duration", "Duration out of range.")
			return
		}
		svc.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			httperr.BadRequest(c, "invalid_price", "Price must be positive.")
			return
		}
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update the service.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BranchID: barber.BranchID,
		UserID:   &barber.UserID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &svc.ID,
	})

	httpresp.OK(c, svc)
}

// ======================================================
// DEACTIVATE
// ======================================================

// Delete is a soft delete: the service is deactivated so existing
// bookings keep their snapshot reference.
func (h *ServiceHandler) Delete(c *gin.Context) {
	barber, ok := h.barberForUser(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service.")
		return
	}

	res := h.db.Model(&models.Service{}).
		Where("id = ? AND branch_id = ?", id, barber.BranchID).
		Update("active", false)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_service", "Could not deactivate the service.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	serviceID := uint(id)
	h.audit.Dispatch(audit.Event{
		BranchID: barber.BranchID,
		UserID:   &barber.UserID,
		Action:   "service_deactivated",
		Entity:   "service",
		EntityID: &serviceID,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
