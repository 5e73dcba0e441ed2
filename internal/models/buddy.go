package models

import "time"

type SessionType string

const (
	SessionSwim  SessionType = "swim"
	SessionKayak SessionType = "kayak"
	SessionHike  SessionType = "hike"
	SessionCycle SessionType = "cycle"
)

func ValidSessionType(t SessionType) bool {
	switch t {
	case SessionSwim, SessionKayak, SessionHike, SessionCycle:
		return true
	}
	return false
}

type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionClosed SessionStatus = "closed"
)

type BuddySession struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	CreatorID    uint          `gorm:"not null;index" json:"creator_id"`
	Title        string        `gorm:"not null" json:"title"`
	Type         SessionType   `gorm:"type:varchar(12);not null;default:'swim'" json:"type"`
	StartAt      time.Time     `gorm:"not null;index" json:"start_at"`
	LocationName string        `gorm:"default:''" json:"location_name"`
	Lat          *float64      `json:"lat,omitempty"`
	Lon          *float64      `json:"lon,omitempty"`
	Capacity     int           `gorm:"not null;default:6" json:"capacity"`
	Status       SessionStatus `gorm:"type:varchar(12);not null;default:'open'" json:"status"`
	CreatedAt    time.Time     `json:"created_at"`

	Creator *User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

type BuddyParticipant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;uniqueIndex:uniq_participant_session_user" json:"session_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uniq_participant_session_user" json:"user_id"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

type BuddyMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
