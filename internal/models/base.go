package models

import (
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BaseModel contains common columns for all tables
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"<-:create" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN string
}

// Dialector picks the gorm driver from the connection string. postgres:// and
// postgresql:// URLs go to PostgreSQL, everything else is treated as a MySQL DSN.
func Dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return mysql.Open(dsn)
}

// Open connects to the database without migrating it. The initial ping is
// skipped so a store that is still starting does not stop the process;
// bootstrap retries the schema step instead.
func Open(config DatabaseConfig) (*gorm.DB, error) {
	return gorm.Open(Dialector(config.DSN), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Warn),
	})
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&Doctor{},
		&User{},
		&Session{},
		&Patient{},
		&Appointment{},
		&Bill{},
		&Prescription{},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
