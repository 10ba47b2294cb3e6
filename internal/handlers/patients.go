package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"
)

// PatientHandler handles patient registration and records.
type PatientHandler struct {
	Patients *services.PatientService
	Log      zerolog.Logger
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB, log zerolog.Logger) *PatientHandler {
	return &PatientHandler{Patients: services.NewPatientService(db, log), Log: log}
}

// PatientForm is the submitted add/edit patient form. Age arrives as text so
// a non-numeric value can be reported instead of silently becoming zero.
type PatientForm struct {
	Name    string `form:"name" binding:"required"`
	Age     string `form:"age" binding:"required"`
	Gender  string `form:"gender" binding:"required"`
	Phone   string `form:"phone" binding:"required"`
	Address string `form:"address"`
}

func (f PatientForm) input() (services.PatientInput, error) {
	age, err := strconv.Atoi(strings.TrimSpace(f.Age))
	if err != nil {
		return services.PatientInput{}, errors.New("age must be a whole number")
	}
	return services.PatientInput{
		Name:    f.Name,
		Age:     age,
		Gender:  f.Gender,
		Phone:   f.Phone,
		Address: f.Address,
	}, nil
}

func bindPatient(c *gin.Context) (services.PatientInput, error) {
	var form PatientForm
	if err := utils.BindForm(c, &form); err != nil {
		return services.PatientInput{}, err
	}
	return form.input()
}

// List shows all patients or those matching ?search=.
func (h *PatientHandler) List(c *gin.Context) {
	search := c.Query("search")
	patients, err := h.Patients.List(c.Request.Context(), search)
	if err != nil {
		fail(c, h.Log, err, "/patients", "Patient")
		return
	}
	utils.View(c, "patients/list", gin.H{"patients": patients, "search": search})
}

// AddForm shows an empty patient form.
func (h *PatientHandler) AddForm(c *gin.Context) {
	utils.View(c, "patients/form", gin.H{"mode": "add"})
}

// Add registers a patient.
func (h *PatientHandler) Add(c *gin.Context) {
	in, err := bindPatient(c)
	if err != nil {
		badInput(c, "/patients/add", err)
		return
	}
	if _, err := h.Patients.Create(c.Request.Context(), in); err != nil {
		fail(c, h.Log, err, "/patients/add", "Patient")
		return
	}
	utils.RedirectWithNotice(c, "/patients", utils.Success("Patient added successfully!"))
}

// EditForm shows the patient form filled with the current values.
func (h *PatientHandler) EditForm(c *gin.Context) {
	id, ok := pathID(c, "Patient")
	if !ok {
		return
	}
	patient, err := h.Patients.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Log, err, "/patients", "Patient")
		return
	}
	utils.View(c, "patients/form", gin.H{"mode": "edit", "patient": patient})
}

// Edit overwrites a patient's details.
func (h *PatientHandler) Edit(c *gin.Context) {
	id, ok := pathID(c, "Patient")
	if !ok {
		return
	}
	back := "/patients/edit/" + c.Param("id")
	in, err := bindPatient(c)
	if err != nil {
		badInput(c, back, err)
		return
	}
	if _, err := h.Patients.Update(c.Request.Context(), id, in); err != nil {
		fail(c, h.Log, err, back, "Patient")
		return
	}
	utils.RedirectWithNotice(c, "/patients", utils.Success("Patient updated successfully!"))
}

// View shows a patient with their appointments, bills and prescriptions.
func (h *PatientHandler) View(c *gin.Context) {
	id, ok := pathID(c, "Patient")
	if !ok {
		return
	}
	record, err := h.Patients.Record(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Log, err, "/patients", "Patient")
		return
	}
	utils.View(c, "patients/view", record)
}

// Delete removes a patient with no linked records.
func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "Patient")
	if !ok {
		return
	}
	if err := h.Patients.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.Log, err, "/patients", "Patient")
		return
	}
	utils.RedirectWithNotice(c, "/patients", utils.Success("Patient deleted successfully!"))
}
