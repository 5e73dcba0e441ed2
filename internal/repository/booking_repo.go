package repository

import (
	"context"
	"time"

	"github.com/clarecoast/shorebound/internal/models"
	"gorm.io/gorm"
)

// BookingRepository methods taking a tx run inside that transaction; a nil tx
// falls back to the base connection.
type BookingRepository interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error
	FindByID(ctx context.Context, id uint) (*models.Booking, error)
	SumConfirmedPartySize(ctx context.Context, tx *gorm.DB, activityID uint, startAt time.Time) (int, error)
	FindConfirmedByUserSlot(ctx context.Context, tx *gorm.DB, userID, activityID uint, startAt time.Time) (*models.Booking, error)
	FindUpcomingByUser(ctx context.Context, userID uint, after time.Time, limit int) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *bookingRepository) dbFor(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	return r.dbFor(tx).WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Preload("Activity").First(&booking, id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// SumConfirmedPartySize totals party_size over confirmed bookings at the exact
// activity+slot timestamp. A slot with no bookings sums to zero.
func (r *bookingRepository) SumConfirmedPartySize(ctx context.Context, tx *gorm.DB, activityID uint, startAt time.Time) (int, error) {
	var total *int
	err := r.dbFor(tx).WithContext(ctx).
		Model(&models.Booking{}).
		Select("SUM(party_size)").
		Where("activity_id = ? AND start_at = ? AND status = ?", activityID, startAt, models.StatusConfirmed).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *bookingRepository) FindConfirmedByUserSlot(ctx context.Context, tx *gorm.DB, userID, activityID uint, startAt time.Time) (*models.Booking, error) {
	var booking models.Booking
	err := r.dbFor(tx).WithContext(ctx).
		Where("user_id = ? AND activity_id = ? AND start_at = ? AND status = ?",
			userID, activityID, startAt, models.StatusConfirmed).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindUpcomingByUser(ctx context.Context, userID uint, after time.Time, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	q := r.db.WithContext(ctx).
		Preload("Activity").
		Where("user_id = ? AND status = ? AND start_at >= ?", userID, models.StatusConfirmed, after).
		Order("start_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, bookingID uint, status models.BookingStatus) error {
	return r.dbFor(tx).WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error
}
