package booking

import (
	"context"
	"time"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/dto"
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) ByDate(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]dto.BookingListDTO, error) {

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	return uc.list(ctx, barberID, start, end)
}

func (uc *ListBookings) ByMonth(
	ctx context.Context,
	barberID uint,
	year int,
	month int,
	loc *time.Location,
) ([]dto.BookingListDTO, error) {

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	return uc.list(ctx, barberID, start, end)
}

func (uc *ListBookings) list(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]dto.BookingListDTO, error) {

	bookings, err := uc.repo.ListBookingsForPeriod(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BookingListDTO, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.BookingListDTO{
			ID:           b.ID,
			Date:         b.Date,
			StartTime:    b.StartTime,
			EndTime:      b.EndTime,
			Status:       b.Status,
			CustomerName: b.User.Name,
			ServiceName:  b.Service.Name,
			TotalPrice:   b.TotalPrice,
		})
	}

	return out, nil
}
