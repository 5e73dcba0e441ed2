package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clarecoast/shorebound/internal/models"
	"github.com/clarecoast/shorebound/internal/observability"
	"github.com/clarecoast/shorebound/internal/repository"
	"github.com/clarecoast/shorebound/pkg/rabbitmq"
	"github.com/jonboulle/clockwork"
)

var (
	ErrSessionNotFound    = errors.New("buddy session not found")
	ErrSessionFull        = errors.New("session is full")
	ErrNotSessionOwner    = errors.New("you cannot modify another user's session")
	ErrMessageNotFound    = errors.New("message not found")
	ErrMessageForbidden   = errors.New("you cannot delete another user's message")
	ErrMessageRequired    = errors.New("message required")
	ErrTitleRequired      = errors.New("title required")
	ErrInvalidCapacity    = errors.New("capacity must be at least 1")
	ErrInvalidSessionType = errors.New("unknown session type")
)

// SessionView is a session decorated with the membership numbers the board
// and detail pages show.
type SessionView struct {
	models.BuddySession
	Count     int  `json:"count"`
	SpotsLeft int  `json:"spots_left"`
	Joined    bool `json:"joined"`
}

// SessionInput carries the user-editable session fields.
type SessionInput struct {
	Title        string
	Type         models.SessionType
	StartRaw     string
	LocationName string
	Lat          *float64
	Lon          *float64
	Capacity     int
}

type BuddyService interface {
	ListSessions(ctx context.Context, f repository.SessionFilter, userID uint) ([]SessionView, error)
	CreateSession(ctx context.Context, creatorID uint, in SessionInput) (*SessionView, error)
	GetSession(ctx context.Context, id, userID uint) (*SessionView, []models.BuddyMessage, error)
	UpdateSession(ctx context.Context, id, userID uint, isStaff bool, in SessionInput, status models.SessionStatus) (*SessionView, error)
	DeleteSession(ctx context.Context, id, userID uint, isStaff bool) error
	ToggleJoin(ctx context.Context, id, userID uint) (*SessionView, error)
	PostMessage(ctx context.Context, sessionID, userID uint, body string) (*models.BuddyMessage, error)
	DeleteMessage(ctx context.Context, messageID, userID uint, isStaff bool) error
	MySessions(ctx context.Context, userID uint) (hosting, joined []SessionView, err error)
}

type buddyService struct {
	repo      repository.BuddyRepository
	publisher *rabbitmq.Publisher
	metrics   *observability.Metrics
	clock     clockwork.Clock
}

func NewBuddyService(repo repository.BuddyRepository, publisher *rabbitmq.Publisher, metrics *observability.Metrics, clock clockwork.Clock) BuddyService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &buddyService{repo: repo, publisher: publisher, metrics: metrics, clock: clock}
}

func (s *buddyService) view(ctx context.Context, sess *models.BuddySession, userID uint) (*SessionView, error) {
	count, err := s.repo.CountParticipants(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	v := &SessionView{
		BuddySession: *sess,
		Count:        int(count),
		SpotsLeft:    max(sess.Capacity-int(count), 0),
	}
	if userID != 0 {
		joined, err := s.repo.IsParticipant(ctx, sess.ID, userID)
		if err != nil {
			return nil, err
		}
		v.Joined = joined
	}
	return v, nil
}

func (s *buddyService) views(ctx context.Context, sessions []models.BuddySession, userID uint) ([]SessionView, error) {
	out := make([]SessionView, 0, len(sessions))
	for i := range sessions {
		v, err := s.view(ctx, &sessions[i], userID)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, nil
}

func (s *buddyService) ListSessions(ctx context.Context, f repository.SessionFilter, userID uint) ([]SessionView, error) {
	if f.Type != "" && !models.ValidSessionType(f.Type) {
		f.Type = ""
	}
	sessions, err := s.repo.ListOpenSessions(ctx, s.clock.Now(), f)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, sessions, userID)
}

func validateSessionInput(in SessionInput) (time.Time, error) {
	if strings.TrimSpace(in.Title) == "" {
		return time.Time{}, ErrTitleRequired
	}
	if in.Capacity < 1 {
		return time.Time{}, ErrInvalidCapacity
	}
	if !models.ValidSessionType(in.Type) {
		return time.Time{}, ErrInvalidSessionType
	}
	start, err := parseStart(in.StartRaw)
	if err != nil {
		return time.Time{}, ErrInvalidStartTime
	}
	return start, nil
}

// CreateSession creates an open session; the creator joins automatically.
func (s *buddyService) CreateSession(ctx context.Context, creatorID uint, in SessionInput) (*SessionView, error) {
	start, err := validateSessionInput(in)
	if err != nil {
		return nil, err
	}

	sess := &models.BuddySession{
		CreatorID:    creatorID,
		Title:        strings.TrimSpace(in.Title),
		Type:         in.Type,
		StartAt:      start,
		LocationName: in.LocationName,
		Lat:          in.Lat,
		Lon:          in.Lon,
		Capacity:     in.Capacity,
		Status:       models.SessionOpen,
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.repo.AddParticipant(ctx, &models.BuddyParticipant{SessionID: sess.ID, UserID: creatorID}); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("session.created", sess)
	}
	return s.view(ctx, sess, creatorID)
}

func (s *buddyService) GetSession(ctx context.Context, id, userID uint) (*SessionView, []models.BuddyMessage, error) {
	sess, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		return nil, nil, ErrSessionNotFound
	}
	messages, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	v, err := s.view(ctx, sess, userID)
	if err != nil {
		return nil, nil, err
	}
	return v, messages, nil
}

func (s *buddyService) UpdateSession(ctx context.Context, id, userID uint, isStaff bool, in SessionInput, status models.SessionStatus) (*SessionView, error) {
	sess, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	if sess.CreatorID != userID && !isStaff {
		return nil, ErrNotSessionOwner
	}

	start, err := validateSessionInput(in)
	if err != nil {
		return nil, err
	}

	sess.Title = strings.TrimSpace(in.Title)
	sess.Type = in.Type
	sess.StartAt = start
	sess.LocationName = in.LocationName
	sess.Lat = in.Lat
	sess.Lon = in.Lon
	sess.Capacity = in.Capacity
	if status == models.SessionOpen || status == models.SessionClosed {
		sess.Status = status
	}

	if err := s.repo.UpdateSession(ctx, sess); err != nil {
		return nil, err
	}
	return s.view(ctx, sess, userID)
}

func (s *buddyService) DeleteSession(ctx context.Context, id, userID uint, isStaff bool) error {
	sess, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		return ErrSessionNotFound
	}
	if sess.CreatorID != userID && !isStaff {
		return ErrNotSessionOwner
	}
	return s.repo.DeleteSession(ctx, id)
}

// ToggleJoin leaves the session when the user is a participant (never
// capacity-checked) and joins otherwise, rejecting a join once no spots are
// left.
func (s *buddyService) ToggleJoin(ctx context.Context, id, userID uint) (*SessionView, error) {
	sess, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	joined, err := s.repo.IsParticipant(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if joined {
		if err := s.repo.RemoveParticipant(ctx, id, userID); err != nil {
			return nil, err
		}
		s.join("left")
	} else {
		count, err := s.repo.CountParticipants(ctx, id)
		if err != nil {
			return nil, err
		}
		if sess.Capacity-int(count) <= 0 {
			s.join("full")
			return nil, ErrSessionFull
		}
		if err := s.repo.AddParticipant(ctx, &models.BuddyParticipant{SessionID: id, UserID: userID}); err != nil {
			return nil, err
		}
		s.join("joined")
	}

	return s.view(ctx, sess, userID)
}

func (s *buddyService) PostMessage(ctx context.Context, sessionID, userID uint, body string) (*models.BuddyMessage, error) {
	if _, err := s.repo.FindSessionByID(ctx, sessionID); err != nil {
		return nil, ErrSessionNotFound
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrMessageRequired
	}

	msg := &models.BuddyMessage{SessionID: sessionID, UserID: userID, Body: body}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// DeleteMessage is allowed for the author, the session creator, and staff.
func (s *buddyService) DeleteMessage(ctx context.Context, messageID, userID uint, isStaff bool) error {
	msg, err := s.repo.FindMessageByID(ctx, messageID)
	if err != nil {
		return ErrMessageNotFound
	}
	if msg.UserID != userID && !isStaff {
		sess, err := s.repo.FindSessionByID(ctx, msg.SessionID)
		if err != nil || sess.CreatorID != userID {
			return ErrMessageForbidden
		}
	}
	return s.repo.DeleteMessage(ctx, messageID)
}

func (s *buddyService) MySessions(ctx context.Context, userID uint) ([]SessionView, []SessionView, error) {
	now := s.clock.Now()
	hosted, err := s.repo.ListHostedByUser(ctx, userID, now, 0)
	if err != nil {
		return nil, nil, err
	}
	joined, err := s.repo.ListJoinedByUser(ctx, userID, now, 0)
	if err != nil {
		return nil, nil, err
	}

	hostingViews, err := s.views(ctx, hosted, userID)
	if err != nil {
		return nil, nil, err
	}
	joinedViews, err := s.views(ctx, joined, userID)
	if err != nil {
		return nil, nil, err
	}
	return hostingViews, joinedViews, nil
}

func (s *buddyService) join(outcome string) {
	if s.metrics != nil {
		s.metrics.SessionJoins.WithLabelValues(outcome).Inc()
	}
}
