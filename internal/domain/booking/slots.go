package booking

import (
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

type Slot struct {
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
}

// Interval is an occupied [StartMin, EndMin) range on a barber's day,
// regardless of whether an authenticated or a guest booking holds it.
type Interval struct {
	StartMin int
	EndMin   int
}

func (iv Interval) Overlaps(startMin, endMin int) bool {
	return startMin < iv.EndMin && iv.StartMin < endMin
}

// GenerateSlots walks the work window in steps of slotDuration minutes and
// emits every candidate slot that fits entirely inside the window, flagged
// against the occupied intervals. The trailing partial slot is dropped, not
// truncated. A nil or inactive work hour means the barber is closed that
// day: zero slots, no error.
//
// Conflict marking is by interval overlap, not endpoint equality, so a
// 45-minute booking blocks every 30-minute grid slot it touches.
func GenerateSlots(wh *models.WorkHour, occupied []Interval, slotDuration int) ([]Slot, error) {
	if slotDuration <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	if wh == nil || !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
		return []Slot{}, nil
	}

	dayStart, err := ParseHHMM(wh.StartTime)
	if err != nil {
		return nil, err
	}
	dayEnd, err := ParseHHMM(wh.EndTime)
	if err != nil {
		return nil, err
	}

	// Misconfigured window; treat as closed rather than erroring.
	if dayEnd <= dayStart {
		return []Slot{}, nil
	}

	slots := []Slot{}
	for cur := dayStart; cur+slotDuration <= dayEnd; cur += slotDuration {
		slot := Slot{
			StartTime:   FormatHHMM(cur),
			EndTime:     FormatHHMM(cur + slotDuration),
			IsAvailable: true,
		}

		for _, iv := range occupied {
			if iv.Overlaps(cur, cur+slotDuration) {
				slot.IsAvailable = false
				break
			}
		}

		slots = append(slots, slot)
	}

	return slots, nil
}
