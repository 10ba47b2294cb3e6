package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/models"
)

// AuthService authenticates staff and manages their sessions.
type AuthService struct {
	DB         *gorm.DB
	Log        zerolog.Logger
	SessionTTL time.Duration
	Now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *gorm.DB, log zerolog.Logger, ttl time.Duration) *AuthService {
	return &AuthService{DB: db, Log: log, SessionTTL: ttl, Now: time.Now}
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// burnCompare runs a bcrypt comparison for unknown usernames so that a miss
// costs about as much as a wrong password.
func burnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), models.BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Login verifies the credentials and opens a session for the user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			burnCompare(password)
			s.Log.Info().Str("username", username).Msg("login rejected")
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, translate(err, "find user")
	}

	if !user.CheckPassword(password) {
		s.Log.Info().Str("username", username).Msg("login rejected")
		return nil, nil, ErrInvalidCredentials
	}

	session := models.Session{
		UserID:    user.ID,
		ExpiresAt: s.Now().Add(s.SessionTTL),
	}
	if err := s.DB.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, nil, translate(err, "create session")
	}

	s.Log.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return &user, &session, nil
}

// Resolve returns the principal bound to an active session.
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (access.Principal, error) {
	var session models.Session
	err := s.DB.WithContext(ctx).Preload("User").First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.Principal{}, ErrUnauthenticated
	}
	if err != nil {
		return access.Principal{}, translate(err, "find session")
	}
	if !session.Active(s.Now()) || session.User == nil {
		return access.Principal{}, ErrUnauthenticated
	}
	return access.FromUser(session.User, session.ID), nil
}

// Logout revokes the session. Unknown or already revoked sessions are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	res := s.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ? AND is_revoked = ?", sessionID, false).
		Updates(map[string]interface{}{"is_revoked": true, "expires_at": s.Now()})
	if res.Error != nil {
		return translate(res.Error, "revoke session")
	}
	if res.RowsAffected > 0 {
		s.Log.Info().Str("session_id", sessionID).Msg("logout")
	}
	return nil
}
