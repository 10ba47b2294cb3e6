package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"
)

// DashboardHandler serves the staff landing page.
type DashboardHandler struct {
	Dashboard *services.DashboardService
	Log       zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(db *gorm.DB, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{Dashboard: services.NewDashboardService(db, log), Log: log}
}

// Show renders the summary counts for the signed-in user.
func (h *DashboardHandler) Show(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	user, err := h.Dashboard.User(c.Request.Context(), p)
	if err != nil {
		fail(c, h.Log, err, "/dashboard", "User")
		return
	}
	stats, err := h.Dashboard.Stats(c.Request.Context(), p)
	if err != nil {
		fail(c, h.Log, err, "/dashboard", "Dashboard")
		return
	}
	utils.View(c, "dashboard", gin.H{"user": user, "stats": stats})
}
