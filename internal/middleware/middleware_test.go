package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/config"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockResolver struct {
	ResolveFn func(ctx context.Context, sessionID string) (access.Principal, error)
}

func (m *mockResolver) Resolve(ctx context.Context, sessionID string) (access.Principal, error) {
	return m.ResolveFn(ctx, sessionID)
}

var testConfig = &config.Config{SessionSecret: "session-secret", CookieSecret: "cookie-secret", Environment: "development"}

func sessionCookie(t *testing.T, sessionID string) *http.Cookie {
	t.Helper()
	user := &models.User{Username: "reception", Role: models.RoleReceptionist}
	token, err := utils.GenerateSessionToken(user, &models.Session{ID: sessionID, ExpiresAt: time.Now().Add(time.Hour)}, testConfig.SessionSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookie, Value: token}
}

func protectedRouter(resolver SessionResolver) *gin.Engine {
	r := gin.New()
	r.Use(utils.NewFlashStore(testConfig.CookieSecret, false).Middleware())
	r.Use(RequireSession(resolver, testConfig, zerolog.Nop()))
	r.GET("/dashboard", func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.String(http.StatusOK, string(p.Role))
	})
	r.GET("/doctors/add", RequireAction(access.CreateDoctor, "/doctors", "Only admins can manage doctors"), func(c *gin.Context) {
		c.String(http.StatusOK, "form")
	})
	return r
}

func TestRequireSession_NoCookieRedirectsToLogin(t *testing.T) {
	r := protectedRouter(&mockResolver{ResolveFn: func(context.Context, string) (access.Principal, error) {
		t.Fatal("resolver must not be called without a cookie")
		return access.Principal{}, nil
	}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
}

func TestRequireSession_RevokedSessionRedirects(t *testing.T) {
	r := protectedRouter(&mockResolver{ResolveFn: func(context.Context, string) (access.Principal, error) {
		return access.Principal{}, services.ErrUnauthenticated
	}})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, "revoked"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
}

func TestRequireSession_TamperedTokenRedirects(t *testing.T) {
	r := protectedRouter(&mockResolver{ResolveFn: func(context.Context, string) (access.Principal, error) {
		return access.Principal{Role: models.RoleAdmin}, nil
	}})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: "not.a.token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRequireSession_ResolverFailureIs500(t *testing.T) {
	r := protectedRouter(&mockResolver{ResolveFn: func(context.Context, string) (access.Principal, error) {
		return access.Principal{}, errors.New("db down")
	}})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, "s1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequireSession_ActiveSessionPassesPrincipal(t *testing.T) {
	var seen string
	r := protectedRouter(&mockResolver{ResolveFn: func(_ context.Context, sessionID string) (access.Principal, error) {
		seen = sessionID
		return access.Principal{UserID: 2, Role: models.RoleReceptionist, SessionID: sessionID}, nil
	}})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie(t, "s1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "receptionist", w.Body.String())
	assert.Equal(t, "s1", seen)
}

func TestRequireAction_NonAdminRedirectedWithNotice(t *testing.T) {
	role := models.RoleReceptionist
	r := protectedRouter(&mockResolver{ResolveFn: func(context.Context, string) (access.Principal, error) {
		return access.Principal{Role: role}, nil
	}})

	req := httptest.NewRequest(http.MethodGet, "/doctors/add", nil)
	req.AddCookie(sessionCookie(t, "s1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/doctors", w.Header().Get("Location"))

	var flash *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == utils.FlashCookie {
			flash = c
		}
	}
	require.NotNil(t, flash)
	notices, err := utils.NewFlashStore(testConfig.CookieSecret, false).Decode(flash.Value)
	require.NoError(t, err)
	assert.Equal(t, []utils.Notice{utils.Failure("Only admins can manage doctors")}, notices)

	role = models.RoleAdmin
	req = httptest.NewRequest(http.MethodGet, "/doctors/add", nil)
	req.AddCookie(sessionCookie(t, "s2"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoggerAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(RequestID(), Logger(logger), Recovery(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	rid := w.Header().Get(requestIDHeader)
	assert.NotEmpty(t, rid)
	assert.Contains(t, buf.String(), `"path":"/ok"`)
	assert.Contains(t, buf.String(), rid)

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
}
