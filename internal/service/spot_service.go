package service

import (
	"context"

	"github.com/clarecoast/shorebound/internal/repository"
)

// SpotMarker is one active map marker with the titles of activities held there.
type SpotMarker struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Activities []string `json:"activities"`
}

type SpotService interface {
	ListMarkers(ctx context.Context) ([]SpotMarker, error)
}

type spotService struct {
	repo repository.SpotRepository
}

func NewSpotService(repo repository.SpotRepository) SpotService {
	return &spotService{repo: repo}
}

func (s *spotService) ListMarkers(ctx context.Context) ([]SpotMarker, error) {
	spots, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(spots))
	for i, sp := range spots {
		ids[i] = sp.ID
	}
	titles, err := s.repo.ActivityTitlesBySpot(ctx, ids)
	if err != nil {
		return nil, err
	}

	markers := make([]SpotMarker, 0, len(spots))
	for _, sp := range spots {
		t := titles[sp.ID]
		if t == nil {
			t = []string{}
		}
		markers = append(markers, SpotMarker{
			ID:         sp.ID,
			Name:       sp.Name,
			Type:       sp.Type,
			Lat:        sp.Lat,
			Lon:        sp.Lon,
			Activities: t,
		})
	}
	return markers, nil
}
