package dto

import (
	"time"

	"github.com/clarecoast/shorebound/internal/models"
)

type ActivityResponse struct {
	ID              uint    `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	IsFree          bool    `json:"is_free"`
	DurationMinutes int     `json:"duration_minutes"`
	Capacity        int     `json:"capacity"`
	ImageURL        string  `json:"image_url,omitempty"`
	RequiresBooking bool    `json:"requires_booking"`
	Provider        string  `json:"provider"`
	ProviderID      uint    `json:"provider_id"`
	SpotID          *uint   `json:"spot_id,omitempty"`
}

type ActivityListResponse struct {
	Activities []ActivityResponse `json:"activities"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
}

type BookingResponse struct {
	ID        uint                 `json:"id"`
	Reference string               `json:"reference"`
	Activity  string               `json:"activity,omitempty"`
	StartAt   time.Time            `json:"start_at"`
	PartySize int                  `json:"party_size"`
	Status    models.BookingStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	SessionID uint      `json:"session_id"`
	Username  string    `json:"username,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToActivityResponse(a *models.Activity) ActivityResponse {
	resp := ActivityResponse{
		ID:              a.ID,
		Title:           a.Title,
		Description:     a.Description,
		Price:           a.Price,
		IsFree:          a.IsFree(),
		DurationMinutes: a.DurationMinutes,
		Capacity:        a.Capacity,
		ImageURL:        a.ImageURL,
		RequiresBooking: a.RequiresBooking,
		ProviderID:      a.ProviderID,
		SpotID:          a.SpotID,
	}
	if a.Provider != nil {
		resp.Provider = a.Provider.Name
	}
	return resp
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	resp := BookingResponse{
		ID:        b.ID,
		Reference: b.Reference,
		StartAt:   b.StartAt,
		PartySize: b.PartySize,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
	}
	if b.Activity != nil {
		resp.Activity = b.Activity.Title
	}
	return resp
}

func ToMessageResponse(m *models.BuddyMessage) MessageResponse {
	resp := MessageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
	if m.User != nil {
		resp.Username = m.User.Username
	}
	return resp
}
