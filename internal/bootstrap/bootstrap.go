// Package bootstrap prepares the schema and loads the demo data on first start.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hospital-management-server/internal/models"
)

// Options controls a bootstrap run.
type Options struct {
	Retries    int
	RetryDelay time.Duration
	Seed       bool

	// Migrate and Now default to models.Migrate and time.Now.
	Migrate func(*gorm.DB) error
	Now     func() time.Time
}

// Result reports what a run achieved.
type Result struct {
	Migrated bool
	Seeded   bool
}

// Credential is a seeded login.
type Credential struct {
	Role     models.Role
	Username string
	Password string
}

// DefaultCredentials are the logins created by the seed.
var DefaultCredentials = []Credential{
	{models.RoleAdmin, "admin", "admin123"},
	{models.RoleDoctor, "doctor", "doctor123"},
	{models.RoleReceptionist, "reception", "reception123"},
}

// Run migrates the schema, retrying with a fixed delay, then seeds an empty
// database. Failures are logged and reported in the result; they never stop
// the caller.
func Run(ctx context.Context, db *gorm.DB, opts Options, log zerolog.Logger) Result {
	if opts.Migrate == nil {
		opts.Migrate = models.Migrate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	attempts := opts.Retries
	if attempts < 1 {
		attempts = 1
	}

	var res Result
	for attempt := 1; attempt <= attempts; attempt++ {
		err := opts.Migrate(db.WithContext(ctx))
		if err == nil {
			res.Migrated = true
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Int("of", attempts).Msg("migration failed")
		if attempt == attempts {
			log.Error().Msg("giving up on migration; the database is not ready")
			return res
		}
		select {
		case <-ctx.Done():
			log.Error().Err(ctx.Err()).Msg("bootstrap cancelled")
			return res
		case <-time.After(opts.RetryDelay):
		}
	}
	log.Info().Msg("database schema ready")

	if !opts.Seed {
		return res
	}
	seeded, err := Seed(ctx, db, opts.Now())
	if err != nil {
		log.Error().Err(err).Msg("seeding failed")
		return res
	}
	if !seeded {
		log.Info().Msg("database already contains data, skipping seed")
		return res
	}
	res.Seeded = true
	log.Info().Msg("demo data seeded")
	return res
}

// Seed loads the demo data when no user exists yet. Each group of rows is
// committed on its own; a failure part way leaves the earlier groups in place.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) (bool, error) {
	db = db.WithContext(ctx)

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		return false, nil
	}

	staff := []models.User{
		{Username: "admin", Role: models.RoleAdmin},
		{Username: "reception", Role: models.RoleReceptionist},
	}
	if err := hashAll(staff, "admin123", "reception123"); err != nil {
		return false, err
	}
	if err := db.Create(&staff).Error; err != nil {
		return false, fmt.Errorf("seed users: %w", err)
	}

	doctors := []models.Doctor{
		{Name: "Dr. John Smith", Specialty: "General Medicine", Phone: "555-0101", Available: true},
		{Name: "Dr. Sarah Johnson", Specialty: "Cardiology", Phone: "555-0102", Available: true},
		{Name: "Dr. Michael Brown", Specialty: "Pediatrics", Phone: "555-0103", Available: true},
		{Name: "Dr. Emily Davis", Specialty: "Dermatology", Phone: "555-0104", Available: true},
		{Name: "Dr. Robert Wilson", Specialty: "Orthopedics", Phone: "555-0105", Available: false},
	}
	if err := db.Create(&doctors).Error; err != nil {
		return false, fmt.Errorf("seed doctors: %w", err)
	}

	doctorUser := []models.User{{Username: "doctor", Role: models.RoleDoctor, DoctorID: &doctors[0].ID}}
	if err := hashAll(doctorUser, "doctor123"); err != nil {
		return false, err
	}
	if err := db.Create(&doctorUser).Error; err != nil {
		return false, fmt.Errorf("seed doctor user: %w", err)
	}

	patients := []models.Patient{
		{Name: "Alice Williams", Age: 35, Gender: "Female", Phone: "555-1001", Address: "123 Main St"},
		{Name: "Bob Martinez", Age: 45, Gender: "Male", Phone: "555-1002", Address: "456 Oak Ave"},
		{Name: "Carol Taylor", Age: 28, Gender: "Female", Phone: "555-1003", Address: "789 Pine Rd"},
		{Name: "David Anderson", Age: 52, Gender: "Male", Phone: "555-1004", Address: "321 Elm Blvd"},
		{Name: "Eva Thomas", Age: 8, Gender: "Female", Phone: "555-1005", Address: "654 Maple Dr"},
	}
	if err := db.Create(&patients).Error; err != nil {
		return false, fmt.Errorf("seed patients: %w", err)
	}

	day := func(offset int) datatypes.Date {
		y, m, d := now.AddDate(0, 0, offset).Date()
		return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.Local))
	}
	appointments := []models.Appointment{
		{PatientID: patients[0].ID, DoctorID: doctors[0].ID, Date: day(1), Time: "09:00", Status: models.StatusScheduled},
		{PatientID: patients[1].ID, DoctorID: doctors[1].ID, Date: day(1), Time: "10:00", Status: models.StatusScheduled},
		{PatientID: patients[2].ID, DoctorID: doctors[0].ID, Date: day(2), Time: "11:00", Status: models.StatusScheduled},
		{PatientID: patients[3].ID, DoctorID: doctors[2].ID, Date: day(-1), Time: "14:00", Status: models.StatusCompleted},
		{PatientID: patients[4].ID, DoctorID: doctors[2].ID, Date: day(-2), Time: "15:00", Status: models.StatusCompleted},
	}
	if err := db.Create(&appointments).Error; err != nil {
		return false, fmt.Errorf("seed appointments: %w", err)
	}

	bills := []models.Bill{
		{PatientID: patients[3].ID, Amount: decimal.NewFromInt(150), Status: models.BillPaid},
		{PatientID: patients[4].ID, Amount: decimal.NewFromInt(75), Status: models.BillPaid},
		{PatientID: patients[0].ID, Amount: decimal.NewFromInt(200), Status: models.BillPending},
		{PatientID: patients[1].ID, Amount: decimal.NewFromInt(350), Status: models.BillPending},
	}
	if err := db.Create(&bills).Error; err != nil {
		return false, fmt.Errorf("seed bills: %w", err)
	}

	prescriptions := []models.Prescription{
		{
			PatientID: patients[3].ID,
			DoctorID:  doctors[2].ID,
			Medicine:  "Amoxicillin 500mg, Ibuprofen 400mg",
			Dosage:    "Amoxicillin: 1 tablet 3 times daily for 7 days\nIbuprofen: 1 tablet as needed for pain",
		},
		{
			PatientID: patients[4].ID,
			DoctorID:  doctors[2].ID,
			Medicine:  "Children's Tylenol",
			Dosage:    "5ml every 6 hours as needed for fever",
		},
	}
	if err := db.Create(&prescriptions).Error; err != nil {
		return false, fmt.Errorf("seed prescriptions: %w", err)
	}
	return true, nil
}

func hashAll(users []models.User, passwords ...string) error {
	for i := range users {
		if err := users[i].SetPassword(passwords[i]); err != nil {
			return fmt.Errorf("hash password for %s: %w", users[i].Username, err)
		}
	}
	return nil
}
