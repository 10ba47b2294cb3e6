package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/models"
)

// PrescriptionService issues prescriptions. They cannot be edited afterwards.
type PrescriptionService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewPrescriptionService creates a new PrescriptionService.
func NewPrescriptionService(db *gorm.DB, log zerolog.Logger) *PrescriptionService {
	return &PrescriptionService{DB: db, Log: log}
}

// PrescriptionInput carries the fields of a new prescription. DoctorID is
// ignored when the principal is a linked doctor.
type PrescriptionInput struct {
	PatientID uint
	DoctorID  *uint
	Medicines []string
	Dosage    []string
}

// joinNonEmpty trims parts and joins the non-empty ones.
func joinNonEmpty(parts []string, sep string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// PrescriptionsForPatient lists a patient's prescriptions, newest first.
func PrescriptionsForPatient(ctx context.Context, db *gorm.DB, patientID uint) ([]models.Prescription, error) {
	var prescriptions []models.Prescription
	err := db.WithContext(ctx).Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("created_at desc").Order("id asc").
		Find(&prescriptions).Error
	if err != nil {
		return nil, translate(err, "list patient prescriptions")
	}
	return prescriptions, nil
}

// List returns prescriptions newest first, restricted to the principal's own
// when they are a linked doctor.
func (s *PrescriptionService) List(ctx context.Context, p access.Principal) ([]models.Prescription, error) {
	q := s.DB.WithContext(ctx).Preload("Patient").Preload("Doctor").Order("created_at desc").Order("id asc")
	if doctorID, ok := p.LinkedDoctor(); ok {
		q = q.Where("doctor_id = ?", doctorID)
	}

	var prescriptions []models.Prescription
	if err := q.Find(&prescriptions).Error; err != nil {
		return nil, translate(err, "list prescriptions")
	}
	return prescriptions, nil
}

// Get loads one prescription with its patient and doctor.
func (s *PrescriptionService) Get(ctx context.Context, id uint) (*models.Prescription, error) {
	var prescription models.Prescription
	if err := s.DB.WithContext(ctx).Preload("Patient").Preload("Doctor").First(&prescription, id).Error; err != nil {
		return nil, translate(err, "find prescription")
	}
	return &prescription, nil
}

// Create issues a prescription. A linked doctor always prescribes as
// themselves; everyone else names the doctor.
func (s *PrescriptionService) Create(ctx context.Context, p access.Principal, in PrescriptionInput) (*models.Prescription, error) {
	doctorID, ok := p.LinkedDoctor()
	if !ok {
		if in.DoctorID == nil {
			return nil, invalid("doctor_id", "doctor is required")
		}
		doctorID = *in.DoctorID
	}

	medicine := joinNonEmpty(in.Medicines, ", ")
	if medicine == "" {
		return nil, invalid("medicine", "medicine is required")
	}
	dosage := joinNonEmpty(in.Dosage, "\n")
	if dosage == "" {
		return nil, invalid("dosage", "dosage is required")
	}
	if err := requirePatient(ctx, s.DB, in.PatientID); err != nil {
		return nil, err
	}
	if err := requireDoctor(ctx, s.DB, doctorID); err != nil {
		return nil, err
	}

	prescription := models.Prescription{
		PatientID: in.PatientID,
		DoctorID:  doctorID,
		Medicine:  medicine,
		Dosage:    dosage,
	}
	if err := s.DB.WithContext(ctx).Create(&prescription).Error; err != nil {
		return nil, translate(err, "create prescription")
	}
	s.Log.Info().Uint("prescription_id", prescription.ID).Uint("doctor_id", doctorID).Msg("prescription issued")
	return &prescription, nil
}
