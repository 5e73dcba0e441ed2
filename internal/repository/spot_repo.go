package repository

import (
	"context"

	"github.com/clarecoast/shorebound/internal/models"
	"gorm.io/gorm"
)

type SpotRepository interface {
	ListActive(ctx context.Context) ([]models.Spot, error)
	ActivityTitlesBySpot(ctx context.Context, spotIDs []uint) (map[uint][]string, error)
}

type spotRepository struct {
	db *gorm.DB
}

func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &spotRepository{db: db}
}

func (r *spotRepository) ListActive(ctx context.Context) ([]models.Spot, error) {
	var spots []models.Spot
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&spots).Error
	if err != nil {
		return nil, err
	}
	return spots, nil
}

// ActivityTitlesBySpot maps each spot id to the titles of activities held there.
func (r *spotRepository) ActivityTitlesBySpot(ctx context.Context, spotIDs []uint) (map[uint][]string, error) {
	if len(spotIDs) == 0 {
		return map[uint][]string{}, nil
	}

	var rows []struct {
		SpotID uint
		Title  string
	}
	err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("spot_id, title").
		Where("spot_id IN ?", spotIDs).
		Order("title ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	titles := make(map[uint][]string, len(rows))
	for _, row := range rows {
		titles[row.SpotID] = append(titles[row.SpotID], row.Title)
	}
	return titles, nil
}
