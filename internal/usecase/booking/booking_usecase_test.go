package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/sharpcutlabs/booking-api/internal/domain/booking"
	"github.com/sharpcutlabs/booking-api/internal/httperr"
	"github.com/sharpcutlabs/booking-api/internal/models"
)

// fakeRepository is a mutex-guarded in-memory Repository. Admission
// mirrors the production transaction: lock, overlap re-check across
// both booking kinds, insert.
type fakeRepository struct {
	mu sync.Mutex

	branches  map[uint]*models.Branch
	barbers   map[uint]*models.Barber
	services  map[uint]*models.Service
	workHours map[uint]map[int]*models.WorkHour
	users     map[uint]*models.User

	bookings      map[uint]*models.Booking
	guestBookings map[uint]*models.GuestBooking

	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		branches:      make(map[uint]*models.Branch),
		barbers:       make(map[uint]*models.Barber),
		services:      make(map[uint]*models.Service),
		workHours:     make(map[uint]map[int]*models.WorkHour),
		users:         make(map[uint]*models.User),
		bookings:      make(map[uint]*models.Booking),
		guestBookings: make(map[uint]*models.GuestBooking),
		nextID:        1,
	}
}

func (f *fakeRepository) GetBranchByID(ctx context.Context, id uint) (*models.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.branches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, httperr.ErrBusiness("branch_not_found")
}

func (f *fakeRepository) GetBarberByID(ctx context.Context, id uint) (*models.Barber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.barbers[id]; ok {
		cp := *b
		if br, ok := f.branches[b.BranchID]; ok {
			cp.Branch = *br
		}
		return &cp, nil
	}
	return nil, httperr.ErrBusiness("barber_not_found")
}

func (f *fakeRepository) GetDefaultBarber(ctx context.Context, branchID uint) (*models.Barber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.barbers {
		if b.BranchID == branchID && b.IsActive {
			cp := *b
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness("barber_not_found")
}

func (f *fakeRepository) GetService(ctx context.Context, serviceID uint) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.services[serviceID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, httperr.ErrBusiness("service_not_found")
}

func (f *fakeRepository) GetWorkHour(ctx context.Context, barberID uint, dayOfWeek int) (*models.WorkHour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if days, ok := f.workHours[barberID]; ok {
		if wh, ok := days[dayOfWeek]; ok {
			cp := *wh
			return &cp, nil
		}
	}
	return nil, nil
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (f *fakeRepository) ListDayIntervals(ctx context.Context, barberID uint, date time.Time) ([]domain.Interval, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dayIntervalsLocked(barberID, date), nil
}

func (f *fakeRepository) dayIntervalsLocked(barberID uint, date time.Time) []domain.Interval {
	var out []domain.Interval
	for _, b := range f.bookings {
		if b.BarberID == barberID && sameDay(b.Date, date) && domain.Status(b.Status).Active() {
			out = append(out, domain.Interval{StartMin: b.StartMin, EndMin: b.EndMin})
		}
	}
	for _, g := range f.guestBookings {
		if g.BarberID == barberID && sameDay(g.Date, date) && domain.Status(g.Status).Active() {
			out = append(out, domain.Interval{StartMin: g.StartMin, EndMin: g.EndMin})
		}
	}
	return out
}

func (f *fakeRepository) CreateBooking(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, iv := range f.dayIntervalsLocked(b.BarberID, b.Date) {
		if iv.Overlaps(b.StartMin, b.EndMin) {
			return httperr.ErrBusiness("slot_unavailable")
		}
	}

	b.ID = f.nextID
	f.nextID++
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepository) CreateGuestBooking(ctx context.Context, g *models.GuestBooking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, iv := range f.dayIntervalsLocked(g.BarberID, g.Date) {
		if iv.Overlaps(g.StartMin, g.EndMin) {
			return httperr.ErrBusiness("slot_unavailable")
		}
	}

	g.ID = f.nextID
	f.nextID++
	cp := *g
	f.guestBookings[g.ID] = &cp
	return nil
}

func (f *fakeRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, httperr.ErrBusiness("user_not_found")
}

func (f *fakeRepository) GetOrCreateGuestUser(ctx context.Context, email, name, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	u := &models.User{
		ID:    f.nextID,
		Name:  name,
		Email: email,
		Phone: phone,
		Role:  models.RoleCustomer,
	}
	f.nextID++
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeRepository) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		cp := *b
		if barber, ok := f.barbers[b.BarberID]; ok {
			cp.Barber = *barber
		}
		return &cp, nil
	}
	return nil, httperr.ErrBusiness("booking_not_found")
}

func (f *fakeRepository) GetGuestBookingByReference(ctx context.Context, reference string) (*models.GuestBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.guestBookings {
		if g.Reference == reference {
			cp := *g
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness("booking_not_found")
}

func (f *fakeRepository) UpdateBooking(ctx context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepository) ListBookingsForUser(ctx context.Context, userID uint, status string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRepository) ListBookingsForPeriod(ctx context.Context, barberID uint, start, end time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.BarberID == barberID && !b.Date.Before(start) && b.Date.Before(end) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListReminderCandidates(ctx context.Context, dayFrom, dayTo time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status != string(domain.StatusConfirmed) || b.ReminderSent {
			continue
		}
		if b.Date.Before(dayFrom) || b.Date.After(dayTo) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRepository) MarkReminderSent(ctx context.Context, bookingID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok || b.ReminderSent {
		return false, nil
	}
	b.ReminderSent = true
	return true, nil
}

func (f *fakeRepository) ClearReminderSent(ctx context.Context, bookingID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[bookingID]; ok {
		b.ReminderSent = false
	}
	return nil
}

var _ domain.Repository = (*fakeRepository)(nil)

// ----- fixtures -----

const (
	testBranchID  = uint(1)
	testBarberID  = uint(2)
	testServiceID = uint(3)
	testUserID    = uint(4)
	barberUserID  = uint(5)
)

func seededRepo() *fakeRepository {
	repo := newFakeRepository()
	repo.nextID = 100

	repo.branches[testBranchID] = &models.Branch{
		ID: testBranchID, Name: "Downtown", Timezone: "UTC", IsActive: true,
	}
	repo.barbers[testBarberID] = &models.Barber{
		ID: testBarberID, UserID: barberUserID, BranchID: testBranchID, IsActive: true,
	}
	repo.services[testServiceID] = &models.Service{
		ID: testServiceID, BranchID: testBranchID,
		Name: "Haircut", DurationMin: 30, Price: 50, Active: true,
	}
	repo.users[testUserID] = &models.User{
		ID: testUserID, Name: "Ana", Email: "ana@example.com",
		PasswordHash: "x", Role: models.RoleCustomer,
	}
	repo.users[barberUserID] = &models.User{
		ID: barberUserID, Name: "Leo", Email: "leo@example.com",
		PasswordHash: "x", Role: models.RoleBarber,
	}

	days := make(map[int]*models.WorkHour)
	for d := 0; d <= 6; d++ {
		days[d] = &models.WorkHour{
			BarberID: testBarberID, DayOfWeek: d,
			StartTime: "09:00", EndTime: "18:00", Active: true,
		}
	}
	repo.workHours[testBarberID] = days

	return repo
}

func createInput(start string) domain.CreateBookingInput {
	return domain.CreateBookingInput{
		UserID:    testUserID,
		BarberID:  testBarberID,
		ServiceID: testServiceID,
		Date:      "2026-09-07",
		StartTime: start,
	}
}

// ----- admission -----

func TestCreateBookingSuccess(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateBooking(repo, nil, nil, nil)

	b, err := uc.Execute(context.Background(), createInput("10:00"))
	require.NoError(t, err)

	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, "10:00", b.StartTime)
	assert.Equal(t, "10:30", b.EndTime, "end derived from service duration")
	assert.Equal(t, 600, b.StartMin)
	assert.Equal(t, 630, b.EndMin)
	assert.Equal(t, 50.0, b.TotalPrice, "price snapshot at admission")
	assert.Equal(t, testBranchID, b.BranchID)
}

func TestCreateBookingConflict(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateBooking(repo, nil, nil, nil)

	_, err := uc.Execute(context.Background(), createInput("10:00"))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), createInput("10:00"))
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
}

func TestCreateBookingPartialOverlapConflicts(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateBooking(repo, nil, nil, nil)

	_, err := uc.Execute(context.Background(), createInput("10:00"))
	require.NoError(t, err)

	// 10:15-10:45 overlaps 10:00-10:30 without sharing endpoints.
	_, err = uc.Execute(context.Background(), createInput("10:15"))
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))

	// Back-to-back is fine.
	_, err = uc.Execute(context.Background(), createInput("10:30"))
	assert.NoError(t, err)
}

func TestCreateBookingOutsideWorkWindow(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateBooking(repo, nil, nil, nil)

	_, err := uc.Execute(context.Background(), createInput("08:30"))
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))

	// 17:45 + 30min spills past 18:00.
	_, err = uc.Execute(context.Background(), createInput("17:45"))
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
}

func TestCreateBookingInactiveBarber(t *testing.T) {
	repo := seededRepo()
	repo.barbers[testBarberID].IsActive = false
	uc := NewCreateBooking(repo, nil, nil, nil)

	_, err := uc.Execute(context.Background(), createInput("10:00"))
	assert.True(t, httperr.IsBusiness(err, "barber_not_found"))
}

func TestConcurrentAdmissionsExactlyOneWins(t *testing.T) {
	repo := seededRepo()
	uc := NewCreateBooking(repo, nil, nil, nil)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), createInput("11:00"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one racer may hold the slot")
}

// ----- availability -----

func slotByStart(t *testing.T, slots []domain.Slot, start string) domain.Slot {
	t.Helper()
	for _, s := range slots {
		if s.StartTime == start {
			return s
		}
	}
	t.Fatalf("no slot starting at %s", start)
	return domain.Slot{}
}

func TestBookingMarksSlotUnavailable(t *testing.T) {
	repo := seededRepo()
	createUC := NewCreateBooking(repo, nil, nil, nil)
	slotsUC := NewGetAvailableSlots(repo)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	in := domain.AvailabilityInput{BarberID: testBarberID, Date: date, SlotMinutes: 30}

	before, err := slotsUC.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, slotByStart(t, before, "10:00").IsAvailable)

	_, err = createUC.Execute(context.Background(), createInput("10:00"))
	require.NoError(t, err)

	after, err := slotsUC.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, slotByStart(t, after, "10:00").IsAvailable)
	assert.True(t, slotByStart(t, after, "10:30").IsAvailable)
}

func TestCancelFreesSlot(t *testing.T) {
	repo := seededRepo()
	createUC := NewCreateBooking(repo, nil, nil, nil)
	statusUC := NewUpdateBookingStatus(repo, nil)
	slotsUC := NewGetAvailableSlots(repo)

	b, err := createUC.Execute(context.Background(), createInput("10:00"))
	require.NoError(t, err)

	_, err = statusUC.Execute(context.Background(), UpdateStatusInput{
		BookingID:   b.ID,
		To:          domain.StatusCancelled,
		ActorUserID: testUserID,
		ActorRole:   models.RoleCustomer,
	})
	require.NoError(t, err)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slots, err := slotsUC.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: testBarberID, Date: date, SlotMinutes: 30,
	})
	require.NoError(t, err)
	assert.True(t, slotByStart(t, slots, "10:00").IsAvailable, "cancelled booking frees the slot")

	// And the slot can be re-admitted.
	_, err = createUC.Execute(context.Background(), createInput("10:00"))
	assert.NoError(t, err)
}

// ----- unified conflict namespace -----

func TestGuestBookingBlocksUserBooking(t *testing.T) {
	repo := seededRepo()
	guestUC := NewCreateGuestBooking(repo, nil, nil, nil)
	createUC := NewCreateBooking(repo, nil, nil, nil)
	slotsUC := NewGetAvailableSlots(repo)

	g, err := guestUC.Execute(context.Background(), domain.CreateGuestBookingInput{
		Name:      "Walk In",
		Email:     "walkin@example.com",
		Phone:     "123456",
		BranchID:  testBranchID,
		BarberID:  testBarberID,
		ServiceID: testServiceID,
		Date:      "2026-09-07",
		StartTime: "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", g.Status, "guest bookings skip the pending step")
	assert.NotEmpty(t, g.Reference)

	_, err = createUC.Execute(context.Background(), createInput("14:00"))
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"),
		"guest and user bookings share one conflict namespace")

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slots, err := slotsUC.Execute(context.Background(), domain.AvailabilityInput{
		BarberID: testBarberID, Date: date, SlotMinutes: 30,
	})
	require.NoError(t, err)
	assert.False(t, slotByStart(t, slots, "14:00").IsAvailable)
}

func TestGuestBookingOutsideWorkWindow(t *testing.T) {
	repo := seededRepo()
	guestUC := NewCreateGuestBooking(repo, nil, nil, nil)

	// The guest path enforces the same work window as the
	// authenticated one.
	_, err := guestUC.Execute(context.Background(), domain.CreateGuestBookingInput{
		Name:      "Walk In",
		Email:     "walkin@example.com",
		Phone:     "123456",
		BranchID:  testBranchID,
		BarberID:  testBarberID,
		ServiceID: testServiceID,
		Date:      "2026-09-07",
		StartTime: "08:00",
	})
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))

	// 17:45 + 30min spills past closing.
	_, err = guestUC.Execute(context.Background(), domain.CreateGuestBookingInput{
		Name:      "Walk In",
		Email:     "walkin@example.com",
		Phone:     "123456",
		BranchID:  testBranchID,
		BarberID:  testBarberID,
		ServiceID: testServiceID,
		Date:      "2026-09-07",
		StartTime: "17:45",
	})
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
}

func TestGuestBookingResolvesDefaultBarber(t *testing.T) {
	repo := seededRepo()
	guestUC := NewCreateGuestBooking(repo, nil, nil, nil)

	g, err := guestUC.Execute(context.Background(), domain.CreateGuestBookingInput{
		Name:      "Walk In",
		Email:     "walkin@example.com",
		Phone:     "123456",
		BranchID:  testBranchID,
		ServiceID: testServiceID,
		Date:      "2026-09-07",
		StartTime: "15:00",
	})
	require.NoError(t, err)
	assert.Equal(t, testBarberID, g.BarberID)
}

// ----- status authorization -----

func TestUpdateStatusAuthorization(t *testing.T) {
	repo := seededRepo()
	createUC := NewCreateBooking(repo, nil, nil, nil)
	statusUC := NewUpdateBookingStatus(repo, nil)

	b, err := createUC.Execute(context.Background(), createInput("10:00"))
	require.NoError(t, err)

	// A customer cannot confirm, even their own booking.
	_, err = statusUC.Execute(context.Background(), UpdateStatusInput{
		BookingID: b.ID, To: domain.StatusConfirmed,
		ActorUserID: testUserID, ActorRole: models.RoleCustomer,
	})
	assert.True(t, httperr.IsBusiness(err, "forbidden"))

	// A different barber cannot touch it.
	_, err = statusUC.Execute(context.Background(), UpdateStatusInput{
		BookingID: b.ID, To: domain.StatusConfirmed,
		ActorUserID: 999, ActorRole: models.RoleBarber,
	})
	assert.True(t, httperr.IsBusiness(err, "forbidden"))

	// The booking's own barber confirms.
	got, err := statusUC.Execute(context.Background(), UpdateStatusInput{
		BookingID: b.ID, To: domain.StatusConfirmed,
		ActorUserID: barberUserID, ActorRole: models.RoleBarber,
	})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", got.Status)
	assert.NotNil(t, got.ConfirmedAt)

	// Another customer cannot cancel someone else's booking.
	_, err = statusUC.Execute(context.Background(), UpdateStatusInput{
		BookingID: b.ID, To: domain.StatusCancelled,
		ActorUserID: 999, ActorRole: models.RoleCustomer,
	})
	assert.True(t, httperr.IsBusiness(err, "forbidden"))

	// The owner cancels their own confirmed booking.
	got, err = statusUC.Execute(context.Background(), UpdateStatusInput{
		BookingID: b.ID, To: domain.StatusCancelled,
		ActorUserID: testUserID, ActorRole: models.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", got.Status)
}

func TestUpdateStatusTerminalState(t *testing.T) {
	repo := seededRepo()
	createUC := NewCreateBooking(repo, nil, nil, nil)
	statusUC := NewUpdateBookingStatus(repo, nil)

	b, err := createUC.Execute(context.Background(), createInput("10:00"))
	require.NoError(t, err)

	_, err = statusUC.Execute(context.Background(), UpdateStatusInput{
		BookingID: b.ID, To: domain.StatusCancelled,
		ActorUserID: testUserID, ActorRole: models.RoleCustomer,
	})
	require.NoError(t, err)

	_, err = statusUC.Execute(context.Background(), UpdateStatusInput{
		BookingID: b.ID, To: domain.StatusConfirmed,
		ActorUserID: 1, ActorRole: models.RoleAdmin,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}
