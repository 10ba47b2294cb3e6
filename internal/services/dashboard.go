package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/models"
)

// DashboardService computes the front-desk summary.
type DashboardService struct {
	DB  *gorm.DB
	Log zerolog.Logger
	Now func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(db *gorm.DB, log zerolog.Logger) *DashboardService {
	return &DashboardService{DB: db, Log: log, Now: time.Now}
}

// DashboardStats is the dashboard payload.
type DashboardStats struct {
	TotalPatients       int64                `json:"totalPatients"`
	TotalDoctors        int64                `json:"totalDoctors"`
	AvailableDoctors    int64                `json:"availableDoctors"`
	PendingAppointments int64                `json:"pendingAppointments"`
	TodayAppointments   int64                `json:"todayAppointments"`
	PendingBills        int64                `json:"pendingBills"`
	Revenue             decimal.Decimal      `json:"revenue"`
	RecentAppointments  []models.Appointment `json:"recentAppointments"`
}

const recentAppointmentsLimit = 5

// User loads the signed-in account for display, with its linked doctor.
func (s *DashboardService) User(ctx context.Context, p access.Principal) (models.UserSanitized, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Preload("Doctor").First(&user, p.UserID).Error; err != nil {
		return models.UserSanitized{}, translate(err, "find user")
	}
	return user.Sanitize(), nil
}

// Stats gathers counts for the dashboard. Appointment figures are limited to
// the principal's own when they are a linked doctor.
func (s *DashboardService) Stats(ctx context.Context, p access.Principal) (*DashboardStats, error) {
	db := s.DB.WithContext(ctx)
	appointments := func() *gorm.DB {
		q := db.Model(&models.Appointment{})
		if doctorID, ok := p.LinkedDoctor(); ok {
			q = q.Where("doctor_id = ?", doctorID)
		}
		return q
	}

	y, m, d := s.Now().Date()
	today := datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.Local))

	var stats DashboardStats
	counts := []struct {
		q    *gorm.DB
		dest *int64
		name string
	}{
		{db.Model(&models.Patient{}), &stats.TotalPatients, "patients"},
		{db.Model(&models.Doctor{}), &stats.TotalDoctors, "doctors"},
		{db.Model(&models.Doctor{}).Where("available = ?", true), &stats.AvailableDoctors, "available doctors"},
		{appointments().Where("status = ?", models.StatusScheduled), &stats.PendingAppointments, "pending appointments"},
		{appointments().Where("date = ?", today), &stats.TodayAppointments, "today's appointments"},
		{db.Model(&models.Bill{}).Where("status = ?", models.BillPending), &stats.PendingBills, "pending bills"},
	}
	for _, c := range counts {
		if err := c.q.Count(c.dest).Error; err != nil {
			return nil, translate(err, "count "+c.name)
		}
	}

	row := db.Model(&models.Bill{}).Where("status = ?", models.BillPaid).Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&stats.Revenue); err != nil {
		return nil, translate(err, "sum revenue")
	}

	recent := appointments().Preload("Patient").Preload("Doctor").
		Order("date desc").Order("id asc").Limit(recentAppointmentsLimit)
	if err := recent.Find(&stats.RecentAppointments).Error; err != nil {
		return nil, translate(err, "recent appointments")
	}
	return &stats, nil
}
