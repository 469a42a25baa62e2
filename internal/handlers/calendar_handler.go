package handlers

import (
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/models"
	"github.com/sharpcutlabs/booking-api/internal/timezone"
)

// CalendarHandler serves guest bookings as downloadable .ics files so a
// guest can add the appointment to their own calendar without an account.
type CalendarHandler struct {
	repo domain.Repository
}

func NewCalendarHandler(repo domain.Repository) *CalendarHandler {
	return &CalendarHandler{repo: repo}
}

func (h *CalendarHandler) GuestBookingICS(c *gin.Context) {
	reference := c.Param("reference")

	g, err := h.repo.GetGuestBookingByReference(c.Request.Context(), reference)
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	if g.Status == string(domain.StatusCancelled) {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	body, err := buildBookingICS(g)
	if err != nil {
		httperr.Internal(c, "calendar_failed", "Could not build the calendar file.")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=booking-%s.ics", reference))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func buildBookingICS(g *models.GuestBooking) (string, error) {
	loc := timezone.Location(g.Branch.Timezone)

	startMin, err := domain.ParseHHMM(g.StartTime)
	if err != nil {
		return "", err
	}
	endMin, err := domain.ParseHHMM(g.EndTime)
	if err != nil {
		return "", err
	}

	day := g.Date.In(loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), startMin/60, startMin%60, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), endMin/60, endMin%60, 0, 0, loc)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//SharpCut Labs//Booking//EN")

	evt := cal.AddEvent(fmt.Sprintf("booking-%s@sharpcutlabs", g.Reference))
	evt.SetCreatedTime(g.CreatedAt)
	evt.SetDtStampTime(time.Now())
	evt.SetStartAt(start)
	evt.SetEndAt(end)
	evt.SetSummary(fmt.Sprintf("%s with %s", g.Service.Name, g.Barber.User.Name))
	evt.SetLocation(g.Branch.Address)
	evt.SetDescription(fmt.Sprintf("Appointment at %s", g.Branch.Name))

	return cal.Serialize(), nil
}
