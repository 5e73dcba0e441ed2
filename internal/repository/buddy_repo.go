package repository

import (
	"context"
	"time"

	"github.com/clarecoast/shorebound/internal/models"
	"gorm.io/gorm"
)

// SessionFilter narrows the buddy board listing.
type SessionFilter struct {
	Type  models.SessionType
	Query string
}

type BuddyRepository interface {
	CreateSession(ctx context.Context, session *models.BuddySession) error
	FindSessionByID(ctx context.Context, id uint) (*models.BuddySession, error)
	ListOpenSessions(ctx context.Context, after time.Time, f SessionFilter) ([]models.BuddySession, error)
	UpdateSession(ctx context.Context, session *models.BuddySession) error
	DeleteSession(ctx context.Context, id uint) error

	CountParticipants(ctx context.Context, sessionID uint) (int64, error)
	IsParticipant(ctx context.Context, sessionID, userID uint) (bool, error)
	AddParticipant(ctx context.Context, p *models.BuddyParticipant) error
	RemoveParticipant(ctx context.Context, sessionID, userID uint) error

	ListMessages(ctx context.Context, sessionID uint) ([]models.BuddyMessage, error)
	CreateMessage(ctx context.Context, msg *models.BuddyMessage) error
	FindMessageByID(ctx context.Context, id uint) (*models.BuddyMessage, error)
	DeleteMessage(ctx context.Context, id uint) error

	ListHostedByUser(ctx context.Context, userID uint, after time.Time, limit int) ([]models.BuddySession, error)
	ListJoinedByUser(ctx context.Context, userID uint, after time.Time, limit int) ([]models.BuddySession, error)
	RecentMessagesForUser(ctx context.Context, userID uint, limit int) ([]models.BuddyMessage, error)
}

type buddyRepository struct {
	db *gorm.DB
}

func NewBuddyRepository(db *gorm.DB) BuddyRepository {
	return &buddyRepository{db: db}
}

func (r *buddyRepository) CreateSession(ctx context.Context, session *models.BuddySession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *buddyRepository) FindSessionByID(ctx context.Context, id uint) (*models.BuddySession, error) {
	var session models.BuddySession
	if err := r.db.WithContext(ctx).Preload("Creator").First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *buddyRepository) ListOpenSessions(ctx context.Context, after time.Time, f SessionFilter) ([]models.BuddySession, error) {
	q := r.db.WithContext(ctx).
		Where("start_at >= ? AND status = ?", after, models.SessionOpen)

	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("title ILIKE ? OR location_name ILIKE ?", like, like)
	}

	var sessions []models.BuddySession
	if err := q.Order("start_at ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *buddyRepository) UpdateSession(ctx context.Context, session *models.BuddySession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *buddyRepository) DeleteSession(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.BuddyParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.BuddyMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BuddySession{}, id).Error
	})
}

func (r *buddyRepository) CountParticipants(ctx context.Context, sessionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BuddyParticipant{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *buddyRepository) IsParticipant(ctx context.Context, sessionID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BuddyParticipant{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *buddyRepository) AddParticipant(ctx context.Context, p *models.BuddyParticipant) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *buddyRepository) RemoveParticipant(ctx context.Context, sessionID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.BuddyParticipant{}).Error
}

func (r *buddyRepository) ListMessages(ctx context.Context, sessionID uint) ([]models.BuddyMessage, error) {
	var messages []models.BuddyMessage
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *buddyRepository) CreateMessage(ctx context.Context, msg *models.BuddyMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *buddyRepository) FindMessageByID(ctx context.Context, id uint) (*models.BuddyMessage, error) {
	var msg models.BuddyMessage
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *buddyRepository) DeleteMessage(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BuddyMessage{}, id).Error
}

func (r *buddyRepository) ListHostedByUser(ctx context.Context, userID uint, after time.Time, limit int) ([]models.BuddySession, error) {
	var sessions []models.BuddySession
	q := r.db.WithContext(ctx).
		Where("creator_id = ? AND start_at >= ?", userID, after).
		Order("start_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListJoinedByUser returns upcoming sessions the user participates in but does
// not host.
func (r *buddyRepository) ListJoinedByUser(ctx context.Context, userID uint, after time.Time, limit int) ([]models.BuddySession, error) {
	var sessions []models.BuddySession
	q := r.db.WithContext(ctx).
		Joins("JOIN buddy_participants bp ON bp.session_id = buddy_sessions.id").
		Where("bp.user_id = ? AND buddy_sessions.creator_id <> ? AND buddy_sessions.start_at >= ?",
			userID, userID, after).
		Order("buddy_sessions.start_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// RecentMessagesForUser returns the latest messages across sessions the user
// hosts or participates in.
func (r *buddyRepository) RecentMessagesForUser(ctx context.Context, userID uint, limit int) ([]models.BuddyMessage, error) {
	var messages []models.BuddyMessage
	q := r.db.WithContext(ctx).
		Preload("User").
		Where(`session_id IN (
			SELECT id FROM buddy_sessions WHERE creator_id = ?
			UNION
			SELECT session_id FROM buddy_participants WHERE user_id = ?
		)`, userID, userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}
