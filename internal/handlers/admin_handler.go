package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/httpresp"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

// ======================================================
// HANDLER — platform administration (/api/admin)
// ======================================================

type AdminHandler struct {
	db *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) ListUsers(c *gin.Context) {
	role := c.Query("role")

	q := h.db.Order("id ASC")
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not list users.")
		return
	}

	httpresp.List(c, users)
}

// ======================================================
// BOOKINGS
// ======================================================

func (h *AdminHandler) bookingsQuery(c *gin.Context) (*gorm.DB, error) {
	q := h.db.
		Preload("User").
		Preload("Barber.User").
		Preload("Service").
		Preload("Branch")

	if branchStr := c.Query("branch_id"); branchStr != "" {
		branchID, err := strconv.ParseUint(branchStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid branch_id")
		}
		q = q.Where("branch_id = ?", branchID)
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return nil, fmt.Errorf("invalid from date")
		}
		q = q.Where("date >= ?", from)
	}

	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return nil, fmt.Errorf("invalid to date")
		}
		q = q.Where("date <= ?", to)
	}

	return q, nil
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	q, err := h.bookingsQuery(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_filter", err.Error())
		return
	}

	var bookings []models.Booking
	if err := q.Order("date DESC, start_min DESC").Find(&bookings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	httpresp.List(c, bookings)
}

// ======================================================
// STATS
// ======================================================

func (h *AdminHandler) Stats(c *gin.Context) {
	type statusCount struct {
		Status string
		Count  int64
	}

	var byStatus []statusCount
	if err := h.db.Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		httperr.Internal(c, "failed_to_compute_stats", "Could not compute stats.")
		return
	}

	var revenue float64
	if err := h.db.Model(&models.Booking{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status = ?", "completed").
		Scan(&revenue).Error; err != nil {
		httperr.Internal(c, "failed_to_compute_stats", "Could not compute stats.")
		return
	}

	var guestCount int64
	h.db.Model(&models.GuestBooking{}).Count(&guestCount)

	statuses := gin.H{}
	for _, sc := range byStatus {
		statuses[sc.Status] = sc.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings_by_status": statuses,
		"completed_revenue":  revenue,
		"guest_bookings":     guestCount,
	})
}

// ======================================================
// EXPORT
// ======================================================

// ExportBookings streams the filtered booking list as an .xlsx workbook.
func (h *AdminHandler) ExportBookings(c *gin.Context) {
	q, err := h.bookingsQuery(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_filter", err.Error())
		return
	}

	var bookings []models.Booking
	if err := q.Order("date ASC, start_min ASC").Find(&bookings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not list bookings.")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Date", "Start", "End", "Status", "Customer", "Barber", "Service", "Branch", "Price"}
	for i, hdr := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hdr)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, startCell, endCell, headerStyle)
	}

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.ID,
			b.Date.Format("2006-01-02"),
			b.StartTime,
			b.EndTime,
			b.Status,
			b.User.Name,
			b.Barber.User.Name,
			b.Service.Name,
			b.Branch.Name,
			b.TotalPrice,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		httperr.Internal(c, "failed_to_export", "Could not write the export.")
		return
	}
}
