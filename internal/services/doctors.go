package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/models"
)

// DoctorService manages the doctor roster. Mutations are admin-only.
type DoctorService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(db *gorm.DB, log zerolog.Logger) *DoctorService {
	return &DoctorService{DB: db, Log: log}
}

// DoctorInput carries the mutable doctor fields. A nil Available means
// available on create and unchanged on update.
type DoctorInput struct {
	Name      string
	Specialty string
	Phone     string
	Available *bool
}

func (in DoctorInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid("name", "name is required")
	case strings.TrimSpace(in.Specialty) == "":
		return invalid("specialty", "specialty is required")
	case strings.TrimSpace(in.Phone) == "":
		return invalid("phone", "phone is required")
	}
	return nil
}

func (in DoctorInput) apply(d *models.Doctor) {
	d.Name = strings.TrimSpace(in.Name)
	d.Specialty = strings.TrimSpace(in.Specialty)
	d.Phone = strings.TrimSpace(in.Phone)
	if in.Available != nil {
		d.Available = *in.Available
	}
}

func authorize(p access.Principal, action access.Action) error {
	if !access.Allowed(action, p.Role) {
		return fmt.Errorf("%s as %q: %w", action, p.Role, ErrForbidden)
	}
	return nil
}

// List returns every doctor.
func (s *DoctorService) List(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := s.DB.WithContext(ctx).Order("id asc").Find(&doctors).Error; err != nil {
		return nil, translate(err, "list doctors")
	}
	return doctors, nil
}

// ListAvailable returns the doctors that can be booked.
func (s *DoctorService) ListAvailable(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := s.DB.WithContext(ctx).Where("available = ?", true).Order("id asc").Find(&doctors).Error; err != nil {
		return nil, translate(err, "list available doctors")
	}
	return doctors, nil
}

// Get loads one doctor.
func (s *DoctorService) Get(ctx context.Context, id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.DB.WithContext(ctx).First(&doctor, id).Error; err != nil {
		return nil, translate(err, "find doctor")
	}
	return &doctor, nil
}

// Create adds a doctor.
func (s *DoctorService) Create(ctx context.Context, p access.Principal, in DoctorInput) (*models.Doctor, error) {
	if err := authorize(p, access.CreateDoctor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	doctor := models.Doctor{Available: true}
	in.apply(&doctor)
	if err := s.DB.WithContext(ctx).Create(&doctor).Error; err != nil {
		return nil, translate(err, "create doctor")
	}
	s.Log.Info().Uint("doctor_id", doctor.ID).Uint("by", p.UserID).Msg("doctor added")
	return &doctor, nil
}

// Update overwrites every mutable field of the doctor.
func (s *DoctorService) Update(ctx context.Context, p access.Principal, id uint, in DoctorInput) (*models.Doctor, error) {
	if err := authorize(p, access.EditDoctor); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(doctor)
	if err := s.DB.WithContext(ctx).Save(doctor).Error; err != nil {
		return nil, translate(err, "update doctor")
	}
	s.Log.Info().Uint("doctor_id", doctor.ID).Uint("by", p.UserID).Msg("doctor updated")
	return doctor, nil
}

// Delete removes a doctor that no appointment, prescription or login refers to.
func (s *DoctorService) Delete(ctx context.Context, p access.Principal, id uint) error {
	if err := authorize(p, access.DeleteDoctor); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Doctor{}, id).Error; err != nil {
			return translate(err, "find doctor")
		}
		for _, dep := range []struct {
			model interface{}
			name  string
		}{
			{&models.Appointment{}, "appointments"},
			{&models.Prescription{}, "prescriptions"},
			{&models.User{}, "user accounts"},
		} {
			n, err := countWhere(ctx, tx, dep.model, "doctor_id", id)
			if err != nil {
				return translate(err, "count "+dep.name)
			}
			if n > 0 {
				return fmt.Errorf("doctor %d has %d %s: %w", id, n, dep.name, ErrHasDependents)
			}
		}
		if err := tx.Delete(&models.Doctor{}, id).Error; err != nil {
			return translate(err, "delete doctor")
		}
		s.Log.Info().Uint("doctor_id", id).Uint("by", p.UserID).Msg("doctor deleted")
		return nil
	})
}
