package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/models"
)

// AppointmentService books appointments and flips their status.
type AppointmentService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(db *gorm.DB, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{DB: db, Log: log}
}

// BookingInput carries the fields of a new appointment.
type BookingInput struct {
	PatientID uint
	DoctorID  uint
	Date      datatypes.Date
	Time      string
}

// AppointmentsForPatient lists a patient's appointments, newest date first.
func AppointmentsForPatient(ctx context.Context, db *gorm.DB, patientID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := db.WithContext(ctx).Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("date desc").Order("id asc").
		Find(&appointments).Error
	if err != nil {
		return nil, translate(err, "list patient appointments")
	}
	return appointments, nil
}

// List returns appointments newest date first. Doctors linked to a doctor
// record only see their own.
func (s *AppointmentService) List(ctx context.Context, p access.Principal) ([]models.Appointment, error) {
	q := s.DB.WithContext(ctx).Preload("Patient").Preload("Doctor").Order("date desc").Order("id asc")
	if doctorID, ok := p.LinkedDoctor(); ok {
		q = q.Where("doctor_id = ?", doctorID)
	}

	var appointments []models.Appointment
	if err := q.Find(&appointments).Error; err != nil {
		return nil, translate(err, "list appointments")
	}
	return appointments, nil
}

// Get loads one appointment with its patient and doctor.
func (s *AppointmentService) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.DB.WithContext(ctx).Preload("Patient").Preload("Doctor").First(&appointment, id).Error; err != nil {
		return nil, translate(err, "find appointment")
	}
	return &appointment, nil
}

// Book creates a scheduled appointment.
func (s *AppointmentService) Book(ctx context.Context, in BookingInput) (*models.Appointment, error) {
	if strings.TrimSpace(in.Time) == "" {
		return nil, invalid("time", "time is required")
	}
	if err := requirePatient(ctx, s.DB, in.PatientID); err != nil {
		return nil, err
	}
	if err := requireDoctor(ctx, s.DB, in.DoctorID); err != nil {
		return nil, err
	}

	appointment := models.Appointment{
		PatientID: in.PatientID,
		DoctorID:  in.DoctorID,
		Date:      in.Date,
		Time:      strings.TrimSpace(in.Time),
		Status:    models.StatusScheduled,
	}
	if err := s.DB.WithContext(ctx).Create(&appointment).Error; err != nil {
		return nil, translate(err, "create appointment")
	}
	s.Log.Info().Uint("appointment_id", appointment.ID).Uint("doctor_id", in.DoctorID).Msg("appointment booked")
	return &appointment, nil
}

// Cancel marks the appointment cancelled whatever its current status.
func (s *AppointmentService) Cancel(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.setStatus(ctx, id, models.StatusCancelled)
}

// Complete marks the appointment completed whatever its current status.
func (s *AppointmentService) Complete(ctx context.Context, id uint) (*models.Appointment, error) {
	return s.setStatus(ctx, id, models.StatusCompleted)
}

// setStatus loads before writing: MySQL reports zero affected rows when the
// value is unchanged, which must not read as not-found.
func (s *AppointmentService) setStatus(ctx context.Context, id uint, status models.AppointmentStatus) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.DB.WithContext(ctx).First(&appointment, id).Error; err != nil {
		return nil, translate(err, "find appointment")
	}
	if err := s.DB.WithContext(ctx).Model(&appointment).Update("status", status).Error; err != nil {
		return nil, translate(err, "update appointment status")
	}
	appointment.Status = status
	s.Log.Info().Uint("appointment_id", id).Str("status", string(status)).Msg("appointment status changed")
	return &appointment, nil
}
