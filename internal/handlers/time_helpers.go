package handlers

import (
	"time"

	"github.com/sharpcutlabs/booking-api/internal/models"
	"github.com/sharpcutlabs/booking-api/internal/timezone"
)

// resolve the branch's official timezone
func locationFromBranch(branch *models.Branch) *time.Location {
	if branch != nil {
		return timezone.Location(branch.Timezone)
	}
	return timezone.Location("")
}

func parseDateInBranch(branch *models.Branch, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromBranch(branch),
	)
}
