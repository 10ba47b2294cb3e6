package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/models"
)

// PatientService registers and maintains patient records.
type PatientService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewPatientService creates a new PatientService.
func NewPatientService(db *gorm.DB, log zerolog.Logger) *PatientService {
	return &PatientService{DB: db, Log: log}
}

// PatientInput carries the mutable patient fields.
type PatientInput struct {
	Name    string
	Age     int
	Gender  string
	Phone   string
	Address string
}

func (in PatientInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid("name", "name is required")
	case in.Age < 0:
		return invalid("age", "age must not be negative")
	case strings.TrimSpace(in.Gender) == "":
		return invalid("gender", "gender is required")
	case strings.TrimSpace(in.Phone) == "":
		return invalid("phone", "phone is required")
	}
	return nil
}

func (in PatientInput) apply(p *models.Patient) {
	p.Name = strings.TrimSpace(in.Name)
	p.Age = in.Age
	p.Gender = strings.TrimSpace(in.Gender)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Address = strings.TrimSpace(in.Address)
}

// PatientRecord is a patient with everything filed against them.
type PatientRecord struct {
	Patient       models.Patient        `json:"patient"`
	Appointments  []models.Appointment  `json:"appointments"`
	Bills         []models.Bill         `json:"bills"`
	Prescriptions []models.Prescription `json:"prescriptions"`
}

// likeEscaper quotes LIKE wildcards. '!' is the escape character because a
// backslash literal is read differently by MySQL and by PostgreSQL/SQLite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// List returns all patients, or those whose name contains search
// (case-insensitive) or whose id equals search when it is all digits.
func (s *PatientService) List(ctx context.Context, search string) ([]models.Patient, error) {
	q := s.DB.WithContext(ctx).Order("id asc")

	if term := strings.TrimSpace(search); term != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		if id, err := strconv.ParseUint(term, 10, 64); err == nil && isDigits(term) {
			q = q.Where("LOWER(name) LIKE ? ESCAPE '!' OR id = ?", like, id)
		} else {
			q = q.Where("LOWER(name) LIKE ? ESCAPE '!'", like)
		}
	}

	var patients []models.Patient
	if err := q.Find(&patients).Error; err != nil {
		return nil, translate(err, "list patients")
	}
	return patients, nil
}

// Get loads one patient.
func (s *PatientService) Get(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := s.DB.WithContext(ctx).First(&patient, id).Error; err != nil {
		return nil, translate(err, "find patient")
	}
	return &patient, nil
}

// Record loads a patient with their appointments, bills and prescriptions.
func (s *PatientService) Record(ctx context.Context, id uint) (*PatientRecord, error) {
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	rec := &PatientRecord{Patient: *patient}
	if rec.Appointments, err = AppointmentsForPatient(ctx, s.DB, id); err != nil {
		return nil, err
	}
	if rec.Bills, err = BillsForPatient(ctx, s.DB, id); err != nil {
		return nil, err
	}
	if rec.Prescriptions, err = PrescriptionsForPatient(ctx, s.DB, id); err != nil {
		return nil, err
	}
	return rec, nil
}

// Create registers a new patient.
func (s *PatientService) Create(ctx context.Context, in PatientInput) (*models.Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var patient models.Patient
	in.apply(&patient)
	if err := s.DB.WithContext(ctx).Create(&patient).Error; err != nil {
		return nil, translate(err, "create patient")
	}
	s.Log.Info().Uint("patient_id", patient.ID).Msg("patient registered")
	return &patient, nil
}

// Update overwrites every mutable field of the patient. Concurrent edits are
// last-write-wins.
func (s *PatientService) Update(ctx context.Context, id uint, in PatientInput) (*models.Patient, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	patient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(patient)
	if err := s.DB.WithContext(ctx).Save(patient).Error; err != nil {
		return nil, translate(err, "update patient")
	}
	s.Log.Info().Uint("patient_id", patient.ID).Msg("patient updated")
	return patient, nil
}

// Delete removes a patient that has no appointments, bills or prescriptions.
func (s *PatientService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Patient{}, id).Error; err != nil {
			return translate(err, "find patient")
		}
		for _, dep := range []struct {
			model interface{}
			name  string
		}{
			{&models.Appointment{}, "appointments"},
			{&models.Bill{}, "bills"},
			{&models.Prescription{}, "prescriptions"},
		} {
			n, err := countWhere(ctx, tx, dep.model, "patient_id", id)
			if err != nil {
				return translate(err, "count "+dep.name)
			}
			if n > 0 {
				return fmt.Errorf("patient %d has %d %s: %w", id, n, dep.name, ErrHasDependents)
			}
		}
		if err := tx.Delete(&models.Patient{}, id).Error; err != nil {
			return translate(err, "delete patient")
		}
		s.Log.Info().Uint("patient_id", id).Msg("patient deleted")
		return nil
	})
}
