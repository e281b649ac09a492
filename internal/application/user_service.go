package application

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"geoatlas/internal/domain/entity"
	repo "geoatlas/internal/domain/repository"
	"geoatlas/pkg/helpers"
	"geoatlas/pkg/mailer"
)

// ErrInvalidCredentials covers both the unknown-email and wrong-password
// cases so signin never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// userPageSize is the fixed page size of the user listing.
const userPageSize = 2

// SessionStore holds the signin session per user. helpers.RedisSessionStore
// is the production implementation; signout deletes the session, which
// invalidates outstanding tokens.
type SessionStore interface {
	Save(ctx context.Context, userID string, fields map[string]any, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}

// UserService handles registration, token-based signin/signout and the
// paginated user listing.
type UserService struct {
	Users     repo.UserRepository
	Sessions  SessionStore
	JWT       *helpers.JWTManager
	Publisher *helpers.RabbitPublisher
	Logger    *logrus.Logger
}

func NewUserService(users repo.UserRepository, sessions SessionStore, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Sessions: sessions, JWT: jwt, Publisher: pub, Logger: logger}
}

// RegisterInput is the open signup payload.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	taken, err := s.Users.EmailTaken(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, FieldErrors{"email": "user with this email already exists"}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:       uuid.NewString(),
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}

	// Welcome mail is best effort; registration never fails on queue trouble.
	if s.Publisher != nil {
		if err := s.Publisher.PublishJSON(ctx, mailer.WelcomeJob(u.Email, u.Name)); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("failed to enqueue welcome email")
		}
	}
	return u, nil
}

// SigninResult carries the bearer token handed back to the client.
type SigninResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

func (s *UserService) Signin(ctx context.Context, email, password string) (*SigninResult, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	token, exp, err := s.JWT.Generate(u.ID, sessionID)
	if err != nil {
		return nil, err
	}

	err = s.Sessions.Save(ctx, u.ID, map[string]any{
		"sid":        sessionID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": time.Now().UTC().Format(time.RFC3339),
	}, s.JWT.TTL)
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &SigninResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Signout drops the session; tokens carrying the old session id stop
// validating immediately.
func (s *UserService) Signout(ctx context.Context, userID string) error {
	return s.Sessions.Delete(ctx, userID)
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	return s.Users.GetByID(ctx, id)
}

// Delete removes the user and their session. Countries the user owned stay
// behind with a nil owner (ON DELETE SET NULL), so nobody can read them
// through the scoped endpoints anymore.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Sessions.Delete(ctx, id); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", id).Warn("failed to drop session of deleted user")
	}
	return nil
}

// UserPage is one page of the user listing plus the cursor for the next one.
// NextCursor is empty on the last page.
type UserPage struct {
	Users      []*entity.User
	NextCursor string
}

// List pages through users ordered by email. The cursor is the base64 of the
// last email on the previous page; an unreadable cursor just restarts from
// the beginning.
func (s *UserService) List(ctx context.Context, cursor string) (*UserPage, error) {
	afterEmail := ""
	if cursor != "" {
		if b, err := base64.URLEncoding.DecodeString(cursor); err == nil {
			afterEmail = string(b)
		}
	}

	// Fetch one extra row to learn whether another page exists.
	users, err := s.Users.List(ctx, afterEmail, userPageSize+1)
	if err != nil {
		return nil, err
	}

	page := &UserPage{Users: users}
	if len(users) > userPageSize {
		page.Users = users[:userPageSize]
		last := page.Users[len(page.Users)-1]
		page.NextCursor = base64.URLEncoding.EncodeToString([]byte(last.Email))
	}
	return page, nil
}
