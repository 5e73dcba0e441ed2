package models

import "time"

type Provider struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	ContactEmail string `gorm:"default:''" json:"contact_email"`
}

type Activity struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProviderID      uint      `gorm:"not null;index" json:"provider_id"`
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `gorm:"type:text;default:''" json:"description"`
	Price           float64   `gorm:"not null;default:0" json:"price"`
	DurationMinutes int       `gorm:"not null;default:60" json:"duration_minutes"`
	Capacity        int       `gorm:"not null;default:8" json:"capacity"`
	ImageURL        string    `gorm:"default:''" json:"image_url"`
	RequiresBooking bool      `gorm:"not null;default:true" json:"requires_booking"`
	SpotID          *uint     `json:"spot_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	Provider *Provider `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Spot     *Spot     `gorm:"foreignKey:SpotID" json:"spot,omitempty"`
}

func (a *Activity) IsFree() bool {
	return a.Price == 0
}

// ActivityRSVP is a lightweight "interested" marker, one per user per activity.
type ActivityRSVP struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActivityID uint      `gorm:"not null;uniqueIndex:uniq_rsvp_activity_user" json:"activity_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:uniq_rsvp_activity_user" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}
