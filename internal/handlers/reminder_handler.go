package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sharpcutlabs/booking-api/internal/config"
	"github.com/sharpcutlabs/booking-api/internal/usecase/reminder"
)

// ReminderHandler exposes the sweep to an external scheduler. The
// endpoint is not idempotence-sensitive: the sweep itself guards
// against double sends.
type ReminderHandler struct {
	config *config.Config
	sweep  *reminder.Sweep
}

func NewReminderHandler(cfg *config.Config, sweep *reminder.Sweep) *ReminderHandler {
	return &ReminderHandler{config: cfg, sweep: sweep}
}

func (h *ReminderHandler) Run(c *gin.Context) {
	if h.config.CronSecret == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "cron_disabled"})
		return
	}

	auth := c.GetHeader("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] != h.config.CronSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_cron_secret"})
		return
	}

	res, err := h.sweep.Execute(c.Request.Context(), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sweep_failed"})
		return
	}

	c.JSON(http.StatusOK, res)
}
