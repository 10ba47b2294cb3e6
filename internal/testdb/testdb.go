// Package testdb provides an in-memory database with the full schema for
// package tests.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hospital-management-server/internal/models"
)

// New returns a migrated, empty SQLite database private to the test. A single
// connection is used so every query sees the same in-memory database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	models.BcryptCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Doctor inserts a doctor row.
func Doctor(t testing.TB, db *gorm.DB, name string, available bool) *models.Doctor {
	t.Helper()
	d := &models.Doctor{Name: name, Specialty: "General", Phone: "555-0001", Available: available}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("create doctor: %v", err)
	}
	return d
}

// Patient inserts a patient row.
func Patient(t testing.TB, db *gorm.DB, name string) *models.Patient {
	t.Helper()
	p := &models.Patient{Name: name, Age: 30, Gender: "Male", Phone: "555-1234", Address: "123 Test St"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create patient: %v", err)
	}
	return p
}

// User inserts a user with a hashed password.
func User(t testing.TB, db *gorm.DB, username, password string, role models.Role, doctorID *uint) *models.User {
	t.Helper()
	u := &models.User{Username: username, Role: role, DoctorID: doctorID}
	if err := u.SetPassword(password); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
