package utils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// FlashCookie holds notices queued for the next view.
	FlashCookie = "flash"

	flashTTL        = 10 * time.Minute
	flashStoreKey   = "flashStore"
	flashPendingKey = "flashPending"
)

// FlashStore signs flash notices into a cookie so clients cannot forge them.
type FlashStore struct {
	secret []byte
	secure bool
}

// NewFlashStore creates a FlashStore signing with secret.
func NewFlashStore(secret string, secure bool) *FlashStore {
	return &FlashStore{secret: []byte(secret), secure: secure}
}

// Middleware makes the store available to PushNotices and TakeNotices.
func (s *FlashStore) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(flashStoreKey, s)
		c.Next()
	}
}

type flashClaims struct {
	Notices []Notice `json:"notices"`
	jwt.RegisteredClaims
}

// Encode signs notices into a cookie value.
func (s *FlashStore) Encode(notices []Notice) (string, error) {
	now := time.Now()
	claims := &flashClaims{
		Notices: notices,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(flashTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign flash: %w", err)
	}
	return token, nil
}

// Decode verifies a cookie value and returns its notices.
func (s *FlashStore) Decode(value string) ([]Notice, error) {
	claims := &flashClaims{}
	if err := parseHS256(value, claims, s.secret); err != nil {
		return nil, err
	}
	return claims.Notices, nil
}

func flashStore(c *gin.Context) *FlashStore {
	v, ok := c.Get(flashStoreKey)
	if !ok {
		return nil
	}
	s, _ := v.(*FlashStore)
	return s
}

// pending returns the notices not yet shown: those carried in by the request
// cookie plus any pushed while handling it.
func (s *FlashStore) pending(c *gin.Context) []Notice {
	if v, ok := c.Get(flashPendingKey); ok {
		notices, _ := v.([]Notice)
		return notices
	}
	value, err := c.Cookie(FlashCookie)
	if err != nil || value == "" {
		return nil
	}
	notices, err := s.Decode(value)
	if err != nil {
		return nil
	}
	return notices
}

func (s *FlashStore) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, value, maxAge, "/", "", s.secure, true)
}

// PushNotices queues notices for the next view.
func PushNotices(c *gin.Context, notices ...Notice) {
	s := flashStore(c)
	if s == nil || len(notices) == 0 {
		return
	}
	all := append(s.pending(c), notices...)
	c.Set(flashPendingKey, all)

	value, err := s.Encode(all)
	if err != nil {
		_ = c.Error(err)
		return
	}
	s.write(c, value, int(flashTTL.Seconds()))
}

// TakeNotices returns and clears the pending notices.
func TakeNotices(c *gin.Context) []Notice {
	s := flashStore(c)
	if s == nil {
		return nil
	}
	notices := s.pending(c)
	c.Set(flashPendingKey, []Notice{})
	if _, err := c.Cookie(FlashCookie); err == nil || len(notices) > 0 {
		s.write(c, "", -1)
	}
	return notices
}
