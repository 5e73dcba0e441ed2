package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/clarecoast/shorebound/internal/models"
	"github.com/clarecoast/shorebound/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Mock BookingRepository ---

type mockBookingRepo struct {
	createFn        func(ctx context.Context, b *models.Booking) error
	findByIDFn      func(ctx context.Context, id uint) (*models.Booking, error)
	sumFn           func(activityID uint, startAt time.Time) (int, error)
	findConfirmedFn func(userID, activityID uint, startAt time.Time) (*models.Booking, error)
	upcomingFn      func(userID uint, after time.Time) ([]models.Booking, error)
	updateStatusFn  func(bookingID uint, status models.BookingStatus) error
}

func (m *mockBookingRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (m *mockBookingRepo) Create(ctx context.Context, tx *gorm.DB, b *models.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockBookingRepo) SumConfirmedPartySize(ctx context.Context, tx *gorm.DB, activityID uint, startAt time.Time) (int, error) {
	if m.sumFn != nil {
		return m.sumFn(activityID, startAt)
	}
	return 0, nil
}

func (m *mockBookingRepo) FindConfirmedByUserSlot(ctx context.Context, tx *gorm.DB, userID, activityID uint, startAt time.Time) (*models.Booking, error) {
	if m.findConfirmedFn != nil {
		return m.findConfirmedFn(userID, activityID, startAt)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookingRepo) FindUpcomingByUser(ctx context.Context, userID uint, after time.Time, limit int) ([]models.Booking, error) {
	if m.upcomingFn != nil {
		return m.upcomingFn(userID, after)
	}
	return nil, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(bookingID, status)
	}
	return nil
}

// --- Mock ActivityRepository ---

type mockActivityRepo struct {
	findByIDFn   func(ctx context.Context, id uint) (*models.Activity, error)
	listFn       func(f repository.ActivityFilter) ([]models.Activity, int64, error)
	findRSVPFn   func(activityID, userID uint) (*models.ActivityRSVP, error)
	createRSVPFn func(rsvp *models.ActivityRSVP) error
	deleteRSVPFn func(activityID, userID uint) error
}

func (m *mockActivityRepo) FindByID(ctx context.Context, id uint) (*models.Activity, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockActivityRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Activity, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockActivityRepo) List(ctx context.Context, f repository.ActivityFilter) ([]models.Activity, int64, error) {
	if m.listFn != nil {
		return m.listFn(f)
	}
	return nil, 0, nil
}

func (m *mockActivityRepo) ListProviders(ctx context.Context) ([]models.Provider, error) {
	return nil, nil
}

func (m *mockActivityRepo) FindRSVP(ctx context.Context, activityID, userID uint) (*models.ActivityRSVP, error) {
	if m.findRSVPFn != nil {
		return m.findRSVPFn(activityID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) CreateRSVP(ctx context.Context, rsvp *models.ActivityRSVP) error {
	if m.createRSVPFn != nil {
		return m.createRSVPFn(rsvp)
	}
	return nil
}

func (m *mockActivityRepo) DeleteRSVP(ctx context.Context, activityID, userID uint) error {
	if m.deleteRSVPFn != nil {
		return m.deleteRSVPFn(activityID, userID)
	}
	return nil
}

// --- Helpers ---

func kayakIntro() *models.Activity {
	return &models.Activity{
		ID:              1,
		ProviderID:      1,
		Title:           "Kayak Intro",
		Capacity:        8,
		RequiresBooking: true,
	}
}

func activityRepoWith(a *models.Activity) *mockActivityRepo {
	return &mockActivityRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Activity, error) {
			if a == nil || id != a.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return a, nil
		},
	}
}

var testDate = time.Date(2026, 9, 4, 0, 0, 0, 0, time.Local)

func slotAt(hour int) time.Time {
	return time.Date(2026, 9, 4, hour, 0, 0, 0, time.Local)
}

// --- AvailableSlots ---

func TestAvailableSlots_ExcludesFullSlot(t *testing.T) {
	bookings := &mockBookingRepo{
		sumFn: func(activityID uint, startAt time.Time) (int, error) {
			switch startAt.Hour() {
			case 9:
				return 8, nil // full
			case 11:
				return 5, nil
			default:
				return 0, nil
			}
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	slots, err := svc.AvailableSlots(context.Background(), 1, testDate, 0)

	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "11:00", slots[0].Label)
	assert.Equal(t, 3, slots[0].Remaining)
	assert.Equal(t, "13:00", slots[1].Label)
	assert.Equal(t, 8, slots[1].Remaining)
	assert.Equal(t, "15:00", slots[2].Label)
}

func TestAvailableSlots_MarksMine(t *testing.T) {
	bookings := &mockBookingRepo{
		findConfirmedFn: func(userID, activityID uint, startAt time.Time) (*models.Booking, error) {
			if userID == 7 && startAt.Hour() == 13 {
				return &models.Booking{ID: 42}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	slots, err := svc.AvailableSlots(context.Background(), 1, testDate, 7)

	require.NoError(t, err)
	require.Len(t, slots, 4)
	for _, s := range slots {
		assert.Equal(t, s.Label == "13:00", s.Mine, "slot %s", s.Label)
	}
}

func TestAvailableSlots_NotOffered(t *testing.T) {
	activity := kayakIntro()
	activity.RequiresBooking = false

	svc := NewBookingService(&mockBookingRepo{}, activityRepoWith(activity), nil, nil, nil)
	_, err := svc.AvailableSlots(context.Background(), 1, testDate, 0)

	assert.ErrorIs(t, err, ErrBookingNotOffered)
}

func TestAvailableSlots_ActivityNotFound(t *testing.T) {
	svc := NewBookingService(&mockBookingRepo{}, activityRepoWith(nil), nil, nil, nil)
	_, err := svc.AvailableSlots(context.Background(), 99, testDate, 0)

	assert.ErrorIs(t, err, ErrActivityNotFound)
}

// --- CreateBooking ---

func TestCreateBooking_Success(t *testing.T) {
	var created *models.Booking
	bookings := &mockBookingRepo{
		createFn: func(ctx context.Context, b *models.Booking) error {
			b.ID = 1
			created = b
			return nil
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	booking, err := svc.CreateBooking(context.Background(), 7, 1, "2026-09-04T09:00:00", 2)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, models.StatusConfirmed, booking.Status)
	assert.Equal(t, 2, booking.PartySize)
	assert.NotEmpty(t, booking.Reference)
	assert.True(t, booking.StartAt.Equal(slotAt(9)))
}

func TestCreateBooking_InvalidStartTime(t *testing.T) {
	svc := NewBookingService(&mockBookingRepo{}, activityRepoWith(kayakIntro()), nil, nil, nil)
	_, err := svc.CreateBooking(context.Background(), 7, 1, "not-a-time", 2)

	assert.ErrorIs(t, err, ErrInvalidStartTime)
}

func TestCreateBooking_InvalidPartySize(t *testing.T) {
	svc := NewBookingService(&mockBookingRepo{}, activityRepoWith(kayakIntro()), nil, nil, nil)
	_, err := svc.CreateBooking(context.Background(), 7, 1, "2026-09-04T09:00:00", 0)

	assert.ErrorIs(t, err, ErrInvalidPartySize)
}

func TestCreateBooking_DuplicateSlot(t *testing.T) {
	bookings := &mockBookingRepo{
		findConfirmedFn: func(userID, activityID uint, startAt time.Time) (*models.Booking, error) {
			return &models.Booking{ID: 42}, nil
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	_, err := svc.CreateBooking(context.Background(), 7, 1, "2026-09-04T09:00:00", 1)

	assert.ErrorIs(t, err, ErrAlreadyBooked)
}

func TestCreateBooking_SlotFull(t *testing.T) {
	bookings := &mockBookingRepo{
		sumFn: func(activityID uint, startAt time.Time) (int, error) {
			if startAt.Hour() == 9 {
				return 8, nil
			}
			return 0, nil
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	_, err := svc.CreateBooking(context.Background(), 7, 1, "2026-09-04T09:00:00", 1)

	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateBooking_NotASlotHour(t *testing.T) {
	svc := NewBookingService(&mockBookingRepo{}, activityRepoWith(kayakIntro()), nil, nil, nil)
	_, err := svc.CreateBooking(context.Background(), 7, 1, "2026-09-04T10:00:00", 1)

	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateBooking_PartyExceedsRemaining(t *testing.T) {
	bookings := &mockBookingRepo{
		sumFn: func(activityID uint, startAt time.Time) (int, error) {
			if startAt.Hour() == 9 {
				return 6, nil
			}
			return 0, nil
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	_, err := svc.CreateBooking(context.Background(), 7, 1, "2026-09-04T09:00:00", 3)

	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 2, capErr.Remaining)
	assert.Equal(t, "only 2 seats left for 09:00", capErr.Error())
}

func TestCreateBooking_FillsToExactCapacity(t *testing.T) {
	bookings := &mockBookingRepo{
		sumFn: func(activityID uint, startAt time.Time) (int, error) {
			if startAt.Hour() == 9 {
				return 6, nil
			}
			return 0, nil
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	booking, err := svc.CreateBooking(context.Background(), 7, 1, "2026-09-04T09:00:00", 2)

	require.NoError(t, err)
	assert.Equal(t, 2, booking.PartySize)
}

// --- CancelBooking ---

func TestCancelBooking_Success(t *testing.T) {
	var updatedTo models.BookingStatus
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, UserID: 7, Status: models.StatusConfirmed}, nil
		},
		updateStatusFn: func(bookingID uint, status models.BookingStatus) error {
			updatedTo = status
			return nil
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	booking, err := svc.CancelBooking(context.Background(), 1, 7, false)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, booking.Status)
	assert.Equal(t, models.StatusCancelled, updatedTo)
}

func TestCancelBooking_NotOwner(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, UserID: 7, Status: models.StatusConfirmed}, nil
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	_, err := svc.CancelBooking(context.Background(), 1, 8, false)

	assert.ErrorIs(t, err, ErrNotBookingOwner)
}

func TestCancelBooking_StaffOverride(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, UserID: 7, Status: models.StatusConfirmed}, nil
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	booking, err := svc.CancelBooking(context.Background(), 1, 8, true)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, booking.Status)
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return &models.Booking{ID: id, UserID: 7, Status: models.StatusCancelled}, nil
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	_, err := svc.CancelBooking(context.Background(), 1, 7, false)

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelBooking_NotFound(t *testing.T) {
	bookings := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id uint) (*models.Booking, error) {
			return nil, errors.New("record not found")
		},
	}

	svc := NewBookingService(bookings, activityRepoWith(kayakIntro()), nil, nil, nil)
	_, err := svc.CancelBooking(context.Background(), 99, 7, false)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}
