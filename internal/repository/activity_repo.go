package repository

import (
	"context"

	"github.com/clarecoast/shorebound/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityFilter narrows the catalog listing.
type ActivityFilter struct {
	ProviderID uint
	Query      string
	Page       int
	PerPage    int
}

type ActivityRepository interface {
	List(ctx context.Context, f ActivityFilter) ([]models.Activity, int64, error)
	FindByID(ctx context.Context, id uint) (*models.Activity, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Activity, error)
	ListProviders(ctx context.Context) ([]models.Provider, error)

	FindRSVP(ctx context.Context, activityID, userID uint) (*models.ActivityRSVP, error)
	CreateRSVP(ctx context.Context, rsvp *models.ActivityRSVP) error
	DeleteRSVP(ctx context.Context, activityID, userID uint) error
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) List(ctx context.Context, f ActivityFilter) ([]models.Activity, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Activity{})

	if f.ProviderID != 0 {
		q = q.Where("provider_id = ?", f.ProviderID)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []models.Activity
	err := q.Preload("Provider").
		Order("title ASC").
		Offset((f.Page - 1) * f.PerPage).
		Limit(f.PerPage).
		Find(&activities).Error
	if err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

func (r *activityRepository) FindByID(ctx context.Context, id uint) (*models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).
		Preload("Provider").
		Preload("Spot").
		First(&activity, id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

// FindByIDForUpdate acquires a row-level lock on the activity within the given
// transaction, serializing concurrent capacity checks.
func (r *activityRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Activity, error) {
	var activity models.Activity
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&activity, id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *activityRepository) ListProviders(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

func (r *activityRepository) FindRSVP(ctx context.Context, activityID, userID uint) (*models.ActivityRSVP, error) {
	var rsvp models.ActivityRSVP
	err := r.db.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		First(&rsvp).Error
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *activityRepository) CreateRSVP(ctx context.Context, rsvp *models.ActivityRSVP) error {
	return r.db.WithContext(ctx).Create(rsvp).Error
}

func (r *activityRepository) DeleteRSVP(ctx context.Context, activityID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("activity_id = ? AND user_id = ?", activityID, userID).
		Delete(&models.ActivityRSVP{}).Error
}
