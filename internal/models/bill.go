package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BillStatus represents the payment state of a bill.
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPaid    BillStatus = "paid"
)

var ErrUnknownBillStatus = errors.New("unknown bill status")

// ParseBillStatus converts a stored or submitted value into a BillStatus.
func ParseBillStatus(s string) (BillStatus, error) {
	switch st := BillStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case BillPending, BillPaid:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBillStatus, s)
}

// MaxBillAmount is the largest amount the decimal(10,2) column holds.
var MaxBillAmount = decimal.RequireFromString("99999999.99")

// Bill is an amount owed by a patient.
type Bill struct {
	BaseModel
	PatientID uint            `gorm:"not null;index" json:"patientId"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status    BillStatus      `gorm:"size:20;not null;default:'pending'" json:"status"`

	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"patient,omitempty"`
}
