package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-management-server/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func flashRouter(store *FlashStore) *gin.Engine {
	r := gin.New()
	r.Use(store.Middleware())
	r.GET("/push", func(c *gin.Context) {
		RedirectWithNotice(c, "/show", Success("Patient added successfully"))
	})
	r.GET("/show", func(c *gin.Context) {
		View(c, "show", gin.H{"ok": true}, Info("extra"))
	})
	return r
}

func cookieNamed(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", name)
	return nil
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) ResponseData {
	t.Helper()
	var body ResponseData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFlash_RoundTrip(t *testing.T) {
	r := flashRouter(NewFlashStore("cookie-secret", false))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/push", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/show", w.Header().Get("Location"))
	flash := cookieNamed(t, w, FlashCookie)
	assert.True(t, flash.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/show", nil)
	req.AddCookie(flash)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	body := decodeView(t, w)
	assert.Equal(t, "show", body.View)
	assert.Equal(t, []Notice{Success("Patient added successfully"), Info("extra")}, body.Notices)
	assert.Equal(t, -1, cookieNamed(t, w, FlashCookie).MaxAge, "notices are shown once")
}

func TestFlash_ForgedCookieIgnored(t *testing.T) {
	forger := NewFlashStore("attacker", false)
	value, err := forger.Encode([]Notice{Success("you are admin now")})
	require.NoError(t, err)

	r := flashRouter(NewFlashStore("cookie-secret", false))
	req := httptest.NewRequest(http.MethodGet, "/show", nil)
	req.AddCookie(&http.Cookie{Name: FlashCookie, Value: value})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, []Notice{Info("extra")}, decodeView(t, w).Notices)
}

func TestView_WithoutStoreHasEmptyNotices(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { View(c, "home", nil) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":200,"view":"home","notices":[]}`, w.Body.String())
}

func TestNotFound(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { NotFound(c, "Patient not found") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Patient not found", decodeView(t, w).Error)
}

func TestSessionToken(t *testing.T) {
	doctorID := uint(7)
	user := &models.User{Username: "doctor", Role: models.RoleDoctor, DoctorID: &doctorID}
	user.ID = 3
	session := &models.Session{ID: "5f1c3a7e-0000-4000-8000-000000000000", ExpiresAt: time.Now().Add(time.Hour)}

	token, err := GenerateSessionToken(user, session, "session-secret")
	require.NoError(t, err)

	claims, err := ValidateToken(token, "session-secret")
	require.NoError(t, err)
	assert.Equal(t, session.ID, claims.SessionID)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, models.RoleDoctor, claims.Role)
	require.NotNil(t, claims.DoctorID)
	assert.Equal(t, doctorID, *claims.DoctorID)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
	_, err = ValidateToken(token+"x", "session-secret")
	assert.Error(t, err)

	session.ExpiresAt = time.Now().Add(-time.Minute)
	expired, err := GenerateSessionToken(user, session, "session-secret")
	require.NoError(t, err)
	_, err = ValidateToken(expired, "session-secret")
	assert.Error(t, err)
}

func TestFormatValidationError(t *testing.T) {
	type form struct {
		Name string `form:"name" validate:"required"`
		Age  int    `form:"age" validate:"min=0"`
	}
	err := Validate(form{Age: -1})
	require.Error(t, err)
	assert.Equal(t, "name is required, age must be at least 0", FormatValidationError(err))

	_, err = strconv.Atoi("abc")
	assert.Equal(t, `"abc" is not a valid number`, FormatValidationError(err))
}
