package service

import (
	"context"
	"errors"

	"github.com/clarecoast/shorebound/internal/models"
	"github.com/clarecoast/shorebound/internal/repository"
	"gorm.io/gorm"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type ActivityService interface {
	ListActivities(ctx context.Context, f repository.ActivityFilter) ([]models.Activity, int64, error)
	GetActivity(ctx context.Context, id uint) (*models.Activity, error)
	ListProviders(ctx context.Context) ([]models.Provider, error)
	ToggleRSVP(ctx context.Context, activityID, userID uint) (interested bool, err error)
}

type activityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) ListActivities(ctx context.Context, f repository.ActivityFilter) ([]models.Activity, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = defaultPerPage
	}
	if f.PerPage > maxPerPage {
		f.PerPage = maxPerPage
	}
	return s.repo.List(ctx, f)
}

func (s *activityService) GetActivity(ctx context.Context, id uint) (*models.Activity, error) {
	activity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

func (s *activityService) ListProviders(ctx context.Context) ([]models.Provider, error) {
	return s.repo.ListProviders(ctx)
}

// ToggleRSVP flips the user's "interested" marker for an activity and reports
// the resulting state.
func (s *activityService) ToggleRSVP(ctx context.Context, activityID, userID uint) (bool, error) {
	if _, err := s.repo.FindByID(ctx, activityID); err != nil {
		return false, ErrActivityNotFound
	}

	_, err := s.repo.FindRSVP(ctx, activityID, userID)
	switch {
	case err == nil:
		if err := s.repo.DeleteRSVP(ctx, activityID, userID); err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		rsvp := &models.ActivityRSVP{ActivityID: activityID, UserID: userID}
		if err := s.repo.CreateRSVP(ctx, rsvp); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}
