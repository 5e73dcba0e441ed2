package models

import "time"

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	Reference  string        `gorm:"not null" json:"reference"`
	UserID     uint          `gorm:"not null;index" json:"user_id"`
	ActivityID uint          `gorm:"not null;index" json:"activity_id"`
	StartAt    time.Time     `gorm:"not null;index" json:"start_at"`
	PartySize  int           `gorm:"not null;default:1" json:"party_size"`
	Status     BookingStatus `gorm:"type:varchar(12);not null;default:'confirmed'" json:"status"`
	CreatedAt  time.Time     `json:"created_at"`

	Activity *Activity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
}
