package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/clarecoast/shorebound/internal/models"
	"github.com/clarecoast/shorebound/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrUsernameRequired   = errors.New("username required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// Dashboard aggregates the "my stuff" view: upcoming bookings, sessions the
// user hosts and joined, and recent chat in those sessions.
type Dashboard struct {
	Bookings []models.Booking      `json:"bookings"`
	Hosting  []SessionView         `json:"hosting"`
	Joined   []SessionView         `json:"joined"`
	Messages []models.BuddyMessage `json:"messages"`
}

type AccountService interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetDashboard(ctx context.Context, userID uint) (*Dashboard, error)
}

type accountService struct {
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
	buddyRepo   repository.BuddyRepository
	jwtSecret   []byte
	jwtExpiry   time.Duration
	clock       clockwork.Clock
}

func NewAccountService(
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	buddyRepo repository.BuddyRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
	clock clockwork.Clock,
) AccountService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &accountService{
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		buddyRepo:   buddyRepo,
		jwtSecret:   []byte(jwtSecret),
		jwtExpiry:   jwtExpiry,
		clock:       clock,
	}
}

func (s *accountService) Signup(ctx context.Context, username, email, password string) (*models.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, "", ErrUsernameRequired
	}
	if len(password) < 8 {
		return nil, "", ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *accountService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *accountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *accountService) GetDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	now := s.clock.Now()

	bookings, err := s.bookingRepo.FindUpcomingByUser(ctx, userID, now, 4)
	if err != nil {
		return nil, err
	}
	hosting, err := s.buddyRepo.ListHostedByUser(ctx, userID, now, 4)
	if err != nil {
		return nil, err
	}
	joined, err := s.buddyRepo.ListJoinedByUser(ctx, userID, now, 4)
	if err != nil {
		return nil, err
	}
	messages, err := s.buddyRepo.RecentMessagesForUser(ctx, userID, 5)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Bookings: bookings,
		Hosting:  sessionViews(hosting),
		Joined:   sessionViews(joined),
		Messages: messages,
	}, nil
}

// sessionViews wraps plain sessions without membership counts; the dashboard
// cards only show title/time.
func sessionViews(sessions []models.BuddySession) []SessionView {
	out := make([]SessionView, 0, len(sessions))
	for i := range sessions {
		out = append(out, SessionView{BuddySession: sessions[i]})
	}
	return out
}

func (s *accountService) issueToken(user *models.User) (string, error) {
	now := s.clock.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Username,
		"staff": user.IsStaff,
		"iat":   now.Unix(),
		"exp":   now.Add(s.jwtExpiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
