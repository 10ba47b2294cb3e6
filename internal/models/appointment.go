package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// DateLayout is the only accepted calendar date format.
const DateLayout = "2006-01-02"

var ErrUnknownAppointmentStatus = errors.New("unknown appointment status")

// ParseAppointmentStatus converts a stored or submitted value into an AppointmentStatus.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch st := AppointmentStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAppointmentStatus, s)
}

// Appointment represents a scheduled medical appointment
type Appointment struct {
	BaseModel
	PatientID uint              `gorm:"not null;index" json:"patientId"`
	DoctorID  uint              `gorm:"not null;index" json:"doctorId"`
	Date      datatypes.Date    `gorm:"not null;index" json:"date"`
	Time      string            `gorm:"size:10;not null" json:"time"`
	Status    AppointmentStatus `gorm:"size:20;not null;default:'scheduled'" json:"status"`

	// Relations
	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"doctor,omitempty"`
}

// Day returns the appointment date formatted with DateLayout.
func (a *Appointment) Day() string {
	return time.Time(a.Date).Format(DateLayout)
}

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}
