package repository

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Branch / Barber
// --------------------------------------------------

func (r *BookingGormRepository) GetBranchByID(
	ctx context.Context,
	id uint,
) (*models.Branch, error) {

	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, id).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *BookingGormRepository) GetBarberByID(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Branch").
		First(&barber, id).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *BookingGormRepository) GetDefaultBarber(
	ctx context.Context,
	branchID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("branch_id = ? AND is_active = true", branchID).
		Order("id ASC").
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, serviceID).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Work hours
// --------------------------------------------------

func (r *BookingGormRepository) GetWorkHour(
	ctx context.Context,
	barberID uint,
	dayOfWeek int,
) (*models.WorkHour, error) {

	var wh models.WorkHour
	err := r.db.WithContext(ctx).
		Where("barber_id = ? AND day_of_week = ?", barberID, dayOfWeek).
		First(&wh).Error

	if err == gorm.ErrRecordNotFound {
		// Absent row means closed that day, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &wh, nil
}

// --------------------------------------------------
// Occupancy (unified across bookings and guest bookings)
// --------------------------------------------------

func (r *BookingGormRepository) ListDayIntervals(
	ctx context.Context,
	barberID uint,
	date time.Time,
) ([]domain.Interval, error) {
	return listDayIntervals(r.db.WithContext(ctx), barberID, date)
}

func listDayIntervals(
	tx *gorm.DB,
	barberID uint,
	date time.Time,
) ([]domain.Interval, error) {

	var intervals []domain.Interval

	if err := tx.
		Model(&models.Booking{}).
		Select("start_min", "end_min").
		Where(
			"barber_id = ? AND date = ? AND status IN ('pending','confirmed')",
			barberID, date,
		).
		Scan(&intervals).Error; err != nil {
		return nil, err
	}

	var guestIntervals []domain.Interval
	if err := tx.
		Model(&models.GuestBooking{}).
		Select("start_min", "end_min").
		Where(
			"barber_id = ? AND date = ? AND status IN ('pending','confirmed')",
			barberID, date,
		).
		Scan(&guestIntervals).Error; err != nil {
		return nil, err
	}

	intervals = append(intervals, guestIntervals...)

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].StartMin < intervals[j].StartMin
	})

	return intervals, nil
}

// --------------------------------------------------
// Admission
// --------------------------------------------------

// acquireSlotLock serializes concurrent admissions for one barber-day.
// The advisory lock is transaction-scoped and released on commit or
// rollback. It covers the cross-table window the per-table exclusion
// constraints cannot.
func acquireSlotLock(tx *gorm.DB, barberID uint, date time.Time) error {
	day := int32(date.Unix() / 86400)
	return tx.Exec(
		"SELECT pg_advisory_xact_lock(?, ?)",
		int32(barberID), day,
	).Error
}

func hasOverlap(
	tx *gorm.DB,
	barberID uint,
	date time.Time,
	startMin int,
	endMin int,
) (bool, error) {

	var count int64
	if err := tx.
		Model(&models.Booking{}).
		Where(
			"barber_id = ? AND date = ? AND status IN ('pending','confirmed') AND start_min < ? AND end_min > ?",
			barberID, date, endMin, startMin,
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := tx.
		Model(&models.GuestBooking{}).
		Where(
			"barber_id = ? AND date = ? AND status IN ('pending','confirmed') AND start_min < ? AND end_min > ?",
			barberID, date, endMin, startMin,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := acquireSlotLock(tx, b.BarberID, b.Date); err != nil {
			return err
		}

		conflict, err := hasOverlap(tx, b.BarberID, b.Date, b.StartMin, b.EndMin)
		if err != nil {
			return err
		}
		if conflict {
			return httperr.ErrBusiness("slot_unavailable")
		}

		if err := tx.Create(b).Error; err != nil {
			if httperr.IsExclusionConflict(err) {
				return httperr.ErrBusiness("slot_unavailable")
			}
			return err
		}

		return nil
	})
}

func (r *BookingGormRepository) CreateGuestBooking(
	ctx context.Context,
	g *models.GuestBooking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := acquireSlotLock(tx, g.BarberID, g.Date); err != nil {
			return err
		}

		conflict, err := hasOverlap(tx, g.BarberID, g.Date, g.StartMin, g.EndMin)
		if err != nil {
			return err
		}
		if conflict {
			return httperr.ErrBusiness("slot_unavailable")
		}

		if err := tx.Create(g).Error; err != nil {
			if httperr.IsExclusionConflict(err) {
				return httperr.ErrBusiness("slot_unavailable")
			}
			return err
		}

		return nil
	})
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *BookingGormRepository) GetUserByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// --------------------------------------------------
// Guest identity
// --------------------------------------------------

func (r *BookingGormRepository) GetOrCreateGuestUser(
	ctx context.Context,
	email string,
	name string,
	phone string,
) (*models.User, error) {

	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err == nil {
		if user.Phone != phone && phone != "" {
			user.Phone = phone
			if err := r.db.WithContext(ctx).Save(&user).Error; err != nil {
				return nil, err
			}
		}
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	// No password hash: the account cannot be used for password login.
	user = models.User{
		Name:  name,
		Email: email,
		Phone: phone,
		Role:  models.RoleCustomer,
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// --------------------------------------------------
// Booking reads / state change
// --------------------------------------------------

func (r *BookingGormRepository) GetBookingByID(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Barber").
		Preload("Barber.User").
		Preload("Service").
		First(&b, id).Error; err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *BookingGormRepository) GetGuestBookingByReference(
	ctx context.Context,
	reference string,
) (*models.GuestBooking, error) {

	var g models.GuestBooking
	if err := r.db.WithContext(ctx).
		Preload("Branch").
		Preload("Barber").
		Preload("Barber.User").
		Preload("Service").
		Where("reference = ?", reference).
		First(&g).Error; err != nil {
		return nil, err
	}

	return &g, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID uint,
	status string,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Barber.User").
		Preload("Service").
		Where("user_id = ?", userID)

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := q.
		Order("date ASC, start_min ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Service").
		Where(
			"barber_id = ? AND date >= ? AND date < ?",
			barberID, start, end,
		).
		Order("date ASC, start_min ASC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// --------------------------------------------------
// Reminders
// --------------------------------------------------

func (r *BookingGormRepository) ListReminderCandidates(
	ctx context.Context,
	dayFrom time.Time,
	dayTo time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Branch").
		Preload("Barber").
		Preload("Barber.User").
		Preload("Service").
		Where(
			"status = 'confirmed' AND reminder_sent = false AND date >= ? AND date <= ?",
			dayFrom, dayTo,
		).
		Order("date ASC, start_min ASC").
		Find(&bookings).Error

	if err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingGormRepository) MarkReminderSent(
	ctx context.Context,
	bookingID uint,
) (bool, error) {

	// Conditional on the flag still being false so concurrent sweeps
	// cannot double-send for the same booking.
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND reminder_sent = false", bookingID).
		Update("reminder_sent", true)

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *BookingGormRepository) ClearReminderSent(
	ctx context.Context,
	bookingID uint,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("reminder_sent", false).Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
