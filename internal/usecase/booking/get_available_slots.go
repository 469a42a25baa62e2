package booking

import (
	"context"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
)

type GetAvailableSlots struct {
	repo domain.Repository
}

func NewGetAvailableSlots(repo domain.Repository) *GetAvailableSlots {
	return &GetAvailableSlots{repo: repo}
}

// Execute recomputes the slot grid from scratch on every call. The
// ledger is the single source of truth; nothing here is cached.
func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.Slot, error) {

	if in.SlotMinutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}

	weekday := int(in.Date.Weekday())

	wh, err := uc.repo.GetWorkHour(ctx, in.BarberID, weekday)
	if err != nil {
		return nil, err
	}

	occupied, err := uc.repo.ListDayIntervals(ctx, in.BarberID, in.Date)
	if err != nil {
		return nil, err
	}

	return domain.GenerateSlots(wh, occupied, in.SlotMinutes)
}
