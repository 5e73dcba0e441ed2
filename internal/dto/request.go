package dto

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateBookingRequest struct {
	Start     string `json:"start"`
	PartySize int    `json:"party_size"`
}

type SessionRequest struct {
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	Start        string   `json:"start"`
	LocationName string   `json:"location_name"`
	Lat          *float64 `json:"lat"`
	Lon          *float64 `json:"lon"`
	Capacity     int      `json:"capacity"`
	Status       string   `json:"status,omitempty"`
}

type PostMessageRequest struct {
	Body string `json:"body"`
}
