package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clarecoast/shorebound/internal/models"
	"github.com/clarecoast/shorebound/internal/observability"
	"github.com/clarecoast/shorebound/internal/repository"
	"github.com/clarecoast/shorebound/pkg/rabbitmq"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// SlotHours are the fixed daily start hours offered for every bookable activity.
var SlotHours = []int{9, 11, 13, 15}

var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingNotOffered = errors.New("this activity does not take bookings")
	ErrInvalidStartTime  = errors.New("invalid start time")
	ErrInvalidPartySize  = errors.New("party size must be at least 1")
	ErrAlreadyBooked     = errors.New("you already have a booking for this slot")
	ErrSlotUnavailable   = errors.New("that slot is no longer available")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrNotBookingOwner   = errors.New("you cannot modify another user's booking")
)

// CapacityError reports a party size larger than the seats left in a slot.
type CapacityError struct {
	Remaining int
	Label     string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("only %d seats left for %s", e.Remaining, e.Label)
}

// Slot is one bookable start time on a given day.
type Slot struct {
	Start     time.Time `json:"start"`
	Label     string    `json:"label"`
	Remaining int       `json:"remaining"`
	Mine      bool      `json:"mine"`
}

type BookingService interface {
	AvailableSlots(ctx context.Context, activityID uint, date time.Time, userID uint) ([]Slot, error)
	CreateBooking(ctx context.Context, userID, activityID uint, startRaw string, partySize int) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID uint, isStaff bool) (*models.Booking, error)
	MyBookings(ctx context.Context, userID uint) ([]models.Booking, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	activityRepo repository.ActivityRepository
	publisher    *rabbitmq.Publisher
	metrics      *observability.Metrics
	clock        clockwork.Clock
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	activityRepo repository.ActivityRepository,
	publisher *rabbitmq.Publisher,
	metrics *observability.Metrics,
	clock clockwork.Clock,
) BookingService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &bookingService{
		bookingRepo:  bookingRepo,
		activityRepo: activityRepo,
		publisher:    publisher,
		metrics:      metrics,
		clock:        clock,
	}
}

// AvailableSlots computes the offered slots for an activity and date. A slot
// is offered only while the confirmed party sizes at that exact timestamp sum
// below capacity. userID == 0 means anonymous; Mine stays false.
func (s *bookingService) AvailableSlots(ctx context.Context, activityID uint, date time.Time, userID uint) ([]Slot, error) {
	activity, err := s.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return nil, ErrActivityNotFound
	}
	if !activity.RequiresBooking {
		return nil, ErrBookingNotOffered
	}
	return s.availableSlots(ctx, nil, activity, date, userID)
}

func (s *bookingService) availableSlots(ctx context.Context, tx *gorm.DB, activity *models.Activity, date time.Time, userID uint) ([]Slot, error) {
	slots := []Slot{}
	for _, hour := range SlotHours {
		start := time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())

		total, err := s.bookingRepo.SumConfirmedPartySize(ctx, tx, activity.ID, start)
		if err != nil {
			return nil, err
		}

		remaining := activity.Capacity - total
		if remaining <= 0 {
			continue
		}

		slot := Slot{
			Start:     start,
			Label:     start.Format("15:04"),
			Remaining: remaining,
		}
		if userID != 0 {
			if _, err := s.bookingRepo.FindConfirmedByUserSlot(ctx, tx, userID, activity.ID, start); err == nil {
				slot.Mine = true
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// CreateBooking re-validates availability at write time inside a transaction
// holding a row lock on the activity, so concurrent requests cannot oversell
// a slot.
func (s *bookingService) CreateBooking(ctx context.Context, userID, activityID uint, startRaw string, partySize int) (*models.Booking, error) {
	start, err := parseStart(startRaw)
	if err != nil {
		s.reject("invalid_start")
		return nil, ErrInvalidStartTime
	}
	if partySize < 1 {
		s.reject("invalid_party_size")
		return nil, ErrInvalidPartySize
	}

	var result *models.Booking

	err = s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		// Lock the activity row — serializes concurrent capacity checks
		activity, err := s.activityRepo.FindByIDForUpdate(ctx, tx, activityID)
		if err != nil {
			return ErrActivityNotFound
		}
		if !activity.RequiresBooking {
			return ErrBookingNotOffered
		}

		_, err = s.bookingRepo.FindConfirmedByUserSlot(ctx, tx, userID, activityID, start)
		if err == nil {
			s.reject("duplicate")
			return ErrAlreadyBooked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		slots, err := s.availableSlots(ctx, tx, activity, start, 0)
		if err != nil {
			return err
		}
		var matching *Slot
		for i := range slots {
			if slots[i].Start.Equal(start) {
				matching = &slots[i]
				break
			}
		}
		if matching == nil {
			s.reject("slot_unavailable")
			return ErrSlotUnavailable
		}
		if partySize > matching.Remaining {
			s.reject("capacity")
			return &CapacityError{Remaining: matching.Remaining, Label: matching.Label}
		}

		booking := &models.Booking{
			Reference:  uuid.NewString(),
			UserID:     userID,
			ActivityID: activityID,
			StartAt:    start,
			PartySize:  partySize,
			Status:     models.StatusConfirmed,
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return err
		}
		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	if s.publisher != nil {
		_ = s.publisher.Publish("booking.created", result)
	}
	return result, nil
}

// CancelBooking soft-cancels: the row stays but leaves the capacity sum.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID uint, isStaff bool) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != userID && !isStaff {
		return nil, ErrNotBookingOwner
	}
	if booking.Status == models.StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.bookingRepo.UpdateStatus(ctx, nil, bookingID, models.StatusCancelled); err != nil {
		return nil, err
	}
	booking.Status = models.StatusCancelled

	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	if s.publisher != nil {
		_ = s.publisher.Publish("booking.cancelled", booking)
	}
	return booking, nil
}

func (s *bookingService) MyBookings(ctx context.Context, userID uint) ([]models.Booking, error) {
	return s.bookingRepo.FindUpcomingByUser(ctx, userID, s.clock.Now(), 0)
}

func (s *bookingService) reject(reason string) {
	if s.metrics != nil {
		s.metrics.BookingsRejected.WithLabelValues(reason).Inc()
	}
}

// parseStart accepts RFC3339 and the common datetime-local formats the
// booking form produces.
func parseStart(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errors.New("missing start time")
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	} {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized start time %q", raw)
}
