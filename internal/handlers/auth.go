package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/config"
	"hospital-management-server/internal/middleware"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"
)

// AuthHandler handles login, logout and the public entry points.
type AuthHandler struct {
	Auth    *services.AuthService
	Doctors *services.DoctorService
	Config  *config.Config
	Log     zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		Auth:    services.NewAuthService(db, log, cfg.SessionTTL()),
		Doctors: services.NewDoctorService(db, log),
		Config:  cfg,
		Log:     log,
	}
}

// LoginRequest is the submitted login form.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) loggedIn(c *gin.Context) bool {
	_, ok, err := middleware.LookupSession(c, h.Auth, h.Config)
	if err != nil {
		h.Log.Error().Err(err).Msg("resolve session")
	}
	return ok
}

// Home is the public landing page.
func (h *AuthHandler) Home(c *gin.Context) {
	doctors, err := h.Doctors.ListAvailable(c.Request.Context())
	if err != nil {
		fail(c, h.Log, err, "/", "Doctor")
		return
	}
	utils.View(c, "home", gin.H{
		"hospitalName": h.Config.HospitalName,
		"doctors":      doctors,
	})
}

// App sends staff to the dashboard and everyone else to the login page.
func (h *AuthHandler) App(c *gin.Context) {
	if h.loggedIn(c) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// LoginForm shows the login view.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if h.loggedIn(c) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	utils.View(c, "login", gin.H{"hospitalName": h.Config.HospitalName})
}

// Login authenticates the submitted credentials and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.invalidLogin(c)
		return
	}

	user, session, err := h.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.invalidLogin(c)
		return
	}
	if err != nil {
		fail(c, h.Log, err, middleware.LoginPath, "User")
		return
	}

	token, err := utils.GenerateSessionToken(user, session, h.Config.SessionSecret)
	if err != nil {
		fail(c, h.Log, err, middleware.LoginPath, "User")
		return
	}
	utils.SetSessionCookie(c, token, h.Config.SessionTTL(), !h.Config.IsDevelopment())
	utils.RedirectWithNotice(c, "/dashboard", utils.Success("Login successful!"))
}

func (h *AuthHandler) invalidLogin(c *gin.Context) {
	utils.View(c, "login", gin.H{"hospitalName": h.Config.HospitalName}, utils.Failure("Invalid username or password"))
}

// Logout revokes the current session, if any.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(utils.SessionCookie); err == nil && token != "" {
		if claims, err := utils.ValidateToken(token, h.Config.SessionSecret); err == nil {
			if err := h.Auth.Logout(c.Request.Context(), claims.SessionID); err != nil {
				h.Log.Error().Err(err).Msg("logout")
			}
		}
		utils.ClearSessionCookie(c, !h.Config.IsDevelopment())
	}
	utils.RedirectWithNotice(c, middleware.LoginPath, utils.Info("You have been logged out."))
}
