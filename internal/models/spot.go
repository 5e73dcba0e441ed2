package models

import "time"

// Spot is a named point of interest shown on the map. Activities may link to
// the spot where they take place.
type Spot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Type      string    `gorm:"default:''" json:"type"`
	Lat       float64   `gorm:"not null" json:"lat"`
	Lon       float64   `gorm:"not null" json:"lon"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	Notes     string    `gorm:"type:text;default:''" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
