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
	"github.com/sharpcutlabs/booking-api/internal/timezone"
)

// ======================================================
// HANDLER — branch administration (/api/admin/branches)
// ======================================================

type BranchHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBranchHandler(db *gorm.DB, auditDisp *audit.Dispatcher) *BranchHandler {
	return &BranchHandler{db: db, audit: auditDisp}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBranchRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Phone    string `json:"phone"`
	Timezone string `json:"timezone"`
	OwnerID  uint   `json:"owner_id"`
}

type UpdateBranchRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Phone    *string `json:"phone"`
	Timezone *string `json:"timezone"`
	IsActive *bool   `json:"is_active"`
}

type AssignStaffRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// ======================================================
// CRUD
// ======================================================

func (h *BranchHandler) List(c *gin.Context) {
	var branches []models.Branch
	if err := h.db.Order("id ASC").Find(&branches).Error; err != nil {
		httperr.Internal(c, "failed_to_list_branches", "Could not list branches.")
		return
	}

	httpresp.List(c, branches)
}

func (h *BranchHandler) Create(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
		return
	}

	ownerID := req.OwnerID
	if ownerID == 0 {
		ownerID = actorID
	}

	branch := models.Branch{
		OwnerID:  ownerID,
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Phone:    req.Phone,
		Timezone: tz,
		IsActive: true,
	}

	if err := h.db.Create(&branch).Error; err != nil {
		httperr.Internal(c, "failed_to_create_branch", "Could not create the branch.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BranchID: branch.ID,
		UserID:   &actorID,
		Action:   "branch_created",
		Entity:   "branch",
		EntityID: &branch.ID,
	})

	c.JSON(http.StatusCreated, branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_branch_id", "Invalid branch.")
		return
	}

	var branch models.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		httperr.NotFound(c, "branch_not_found", "Branch not found.")
		return
	}

	var req UpdateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Address != nil {
		branch.Address = *req.Address
	}
	if req.City != nil {
		branch.City = *req.City
	}
	if req.Phone != nil {
		branch.Phone = *req.Phone
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		branch.Timezone = *req.Timezone
	}
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}

	if err := h.db.Save(&branch).Error; err != nil {
		httperr.Internal(c, "failed_to_update_branch", "Could not update the branch.")
		return
	}

	h.audit.Dispatch(audit.Event{
		BranchID: branch.ID,
		UserID:   &actorID,
		Action:   "branch_updated",
		Entity:   "branch",
		EntityID: &branch.ID,
	})

	httpresp.OK(c, branch)
}

// ======================================================
// STAFF
// ======================================================

// canManageStaff: admins always; otherwise the actor needs a manager
// staff role on that branch.
func (h *BranchHandler) canManageStaff(c *gin.Context, branchID uint) bool {
	role := c.MustGet(middleware.ContextUserRole).(string)
	if role == models.RoleAdmin {
		return true
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	var count int64
	h.db.Model(&models.StaffRole{}).
		Where("user_id = ? AND branch_id = ? AND role = ?",
			actorID, branchID, models.StaffRoleManager).
		Count(&count)

	return count > 0
}

func (h *BranchHandler) AssignStaff(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(uint)

	branchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_branch_id", "Invalid branch.")
		return
	}

	if !h.canManageStaff(c, uint(branchID)) {
		httperr.Forbidden(c, "forbidden", "Only branch managers may manage staff.")
		return
	}

	var req AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Role != models.StaffRoleManager && req.Role != models.StaffRoleStaff {
		httperr.BadRequest(c, "invalid_role", "Role must be manager or staff.")
		return
	}

	var branch models.Branch
	if err := h.db.First(&branch, branchID).Error; err != nil {
		httperr.NotFound(c, "branch_not_found", "Branch not found.")
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		httperr.BadRequest(c, "user_not_found", "User not found.")
		return
	}

	var sr models.StaffRole
	err = h.db.
		Where("user_id = ? AND branch_id = ?", req.UserID, branchID).
		First(&sr).Error
	if err == nil {
		sr.Role = req.Role
		if err := h.db.Save(&sr).Error; err != nil {
			httperr.Internal(c, "failed_to_assign_staff", "Could not assign staff role.")
			return
		}
	} else {
		sr = models.StaffRole{
			UserID:   req.UserID,
			BranchID: branch.ID,
			Role:     req.Role,
		}
		if err := h.db.Create(&sr).Error; err != nil {
			httperr.Internal(c, "failed_to_assign_staff", "Could not assign staff role.")
			return
		}
	}

	h.audit.Dispatch(audit.Event{
		BranchID: branch.ID,
		UserID:   &actorID,
		Action:   "staff_assigned",
		Entity:   "staff_role",
		EntityID: &sr.ID,
	})

	httpresp.OK(c, sr)
}

func (h *BranchHandler) ListStaff(c *gin.Context) {
	branchID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_branch_id", "Invalid branch.")
		return
	}

	if !h.canManageStaff(c, uint(branchID)) {
		httperr.Forbidden(c, "forbidden", "Only branch managers may view staff.")
		return
	}

	var staff []models.StaffRole
	if err := h.db.
		Preload("User").
		Where("branch_id = ?", branchID).
		Order("id ASC").
		Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Could not list staff.")
		return
	}

	httpresp.List(c, staff)
}
