package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"hospital-management-server/internal/config"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"
)

// BillHandler handles billing.
type BillHandler struct {
	Bills    *services.BillService
	Patients *services.PatientService
	Config   *config.Config
	Log      zerolog.Logger
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(db *gorm.DB, cfg *config.Config, log zerolog.Logger) *BillHandler {
	return &BillHandler{
		Bills:    services.NewBillService(db, log),
		Patients: services.NewPatientService(db, log),
		Config:   cfg,
		Log:      log,
	}
}

// BillForm is the submitted bill form.
type BillForm struct {
	PatientID uint   `form:"patient_id" binding:"required"`
	Amount    string `form:"amount" binding:"required"`
}

func (f BillForm) input() (services.BillInput, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil {
		return services.BillInput{}, errors.New("amount must be a number")
	}
	return services.BillInput{PatientID: f.PatientID, Amount: amount}, nil
}

// List shows every bill, newest first.
func (h *BillHandler) List(c *gin.Context) {
	bills, err := h.Bills.List(c.Request.Context())
	if err != nil {
		fail(c, h.Log, err, "/bills", "Bill")
		return
	}
	utils.View(c, "bills/list", gin.H{"bills": bills})
}

// GenerateForm offers every patient.
func (h *BillHandler) GenerateForm(c *gin.Context) {
	patients, err := h.Patients.List(c.Request.Context(), "")
	if err != nil {
		fail(c, h.Log, err, "/bills", "Patient")
		return
	}
	utils.View(c, "bills/generate", gin.H{"patients": patients})
}

// Generate creates a pending bill.
func (h *BillHandler) Generate(c *gin.Context) {
	var form BillForm
	if err := utils.BindForm(c, &form); err != nil {
		badInput(c, "/bills/generate", err)
		return
	}
	in, err := form.input()
	if err != nil {
		badInput(c, "/bills/generate", err)
		return
	}
	if _, err := h.Bills.Generate(c.Request.Context(), in); err != nil {
		fail(c, h.Log, err, "/bills/generate", "Bill")
		return
	}
	utils.RedirectWithNotice(c, "/bills", utils.Success("Bill generated successfully!"))
}

// Pay marks a bill paid.
func (h *BillHandler) Pay(c *gin.Context) {
	id, ok := pathID(c, "Bill")
	if !ok {
		return
	}
	if _, err := h.Bills.Pay(c.Request.Context(), id); err != nil {
		fail(c, h.Log, err, "/bills", "Bill")
		return
	}
	utils.RedirectWithNotice(c, "/bills", utils.Success("Bill marked as paid!"))
}

// Receipt shows a printable bill.
func (h *BillHandler) Receipt(c *gin.Context) {
	id, ok := pathID(c, "Bill")
	if !ok {
		return
	}
	bill, err := h.Bills.Receipt(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Log, err, "/bills", "Bill")
		return
	}
	utils.View(c, "bills/receipt", gin.H{
		"hospitalName": h.Config.HospitalName,
		"bill":         bill,
		"amount":       bill.Amount.StringFixed(2),
	})
}
