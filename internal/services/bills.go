package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hospital-management-server/internal/models"
)

// BillService generates bills and records payments.
type BillService struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

// NewBillService creates a new BillService.
func NewBillService(db *gorm.DB, log zerolog.Logger) *BillService {
	return &BillService{DB: db, Log: log}
}

// BillInput carries the fields of a new bill.
type BillInput struct {
	PatientID uint
	Amount    decimal.Decimal
}

// BillsForPatient lists a patient's bills, newest first.
func BillsForPatient(ctx context.Context, db *gorm.DB, patientID uint) ([]models.Bill, error) {
	var bills []models.Bill
	err := db.WithContext(ctx).Where("patient_id = ?", patientID).
		Order("created_at desc").Order("id asc").
		Find(&bills).Error
	if err != nil {
		return nil, translate(err, "list patient bills")
	}
	return bills, nil
}

// List returns every bill, newest first.
func (s *BillService) List(ctx context.Context) ([]models.Bill, error) {
	var bills []models.Bill
	if err := s.DB.WithContext(ctx).Preload("Patient").Order("created_at desc").Order("id asc").Find(&bills).Error; err != nil {
		return nil, translate(err, "list bills")
	}
	return bills, nil
}

// Get loads one bill.
func (s *BillService) Get(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	if err := s.DB.WithContext(ctx).First(&bill, id).Error; err != nil {
		return nil, translate(err, "find bill")
	}
	return &bill, nil
}

// Receipt loads a bill with its patient for printing.
func (s *BillService) Receipt(ctx context.Context, id uint) (*models.Bill, error) {
	var bill models.Bill
	if err := s.DB.WithContext(ctx).Preload("Patient").First(&bill, id).Error; err != nil {
		return nil, translate(err, "find bill")
	}
	return &bill, nil
}

// Generate creates a pending bill.
func (s *BillService) Generate(ctx context.Context, in BillInput) (*models.Bill, error) {
	if in.Amount.IsNegative() {
		return nil, invalid("amount", "amount must not be negative")
	}
	if in.Amount.Round(2).GreaterThan(models.MaxBillAmount) {
		return nil, invalid("amount", "amount must not exceed "+models.MaxBillAmount.StringFixed(2))
	}
	if err := requirePatient(ctx, s.DB, in.PatientID); err != nil {
		return nil, err
	}

	bill := models.Bill{
		PatientID: in.PatientID,
		Amount:    in.Amount.Round(2),
		Status:    models.BillPending,
	}
	if err := s.DB.WithContext(ctx).Create(&bill).Error; err != nil {
		return nil, translate(err, "create bill")
	}
	s.Log.Info().Uint("bill_id", bill.ID).Str("amount", bill.Amount.StringFixed(2)).Msg("bill generated")
	return &bill, nil
}

// Pay marks the bill paid. Paying a paid bill is not an error.
func (s *BillService) Pay(ctx context.Context, id uint) (*models.Bill, error) {
	bill, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(bill).Update("status", models.BillPaid).Error; err != nil {
		return nil, translate(err, "pay bill")
	}
	bill.Status = models.BillPaid
	s.Log.Info().Uint("bill_id", id).Msg("bill paid")
	return bill, nil
}
