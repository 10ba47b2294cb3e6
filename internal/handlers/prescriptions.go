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

// PrescriptionHandler handles prescriptions.
type PrescriptionHandler struct {
	Prescriptions *services.PrescriptionService
	Patients      *services.PatientService
	Doctors       *services.DoctorService
	Log           zerolog.Logger
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(db *gorm.DB, log zerolog.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{
		Prescriptions: services.NewPrescriptionService(db, log),
		Patients:      services.NewPatientService(db, log),
		Doctors:       services.NewDoctorService(db, log),
		Log:           log,
	}
}

// PrescriptionForm is the submitted prescription form. Medicine and dosage
// may repeat, one entry per line of the prescription.
type PrescriptionForm struct {
	PatientID uint     `form:"patient_id" binding:"required"`
	DoctorID  string   `form:"doctor_id"`
	Medicine  []string `form:"medicine"`
	Dosage    []string `form:"dosage"`
}

func (f PrescriptionForm) input() (services.PrescriptionInput, error) {
	in := services.PrescriptionInput{
		PatientID: f.PatientID,
		Medicines: f.Medicine,
		Dosage:    f.Dosage,
	}
	if s := strings.TrimSpace(f.DoctorID); s != "" {
		id, err := strconv.ParseUint(s, 10, 0)
		if err != nil {
			return in, errors.New("doctor must be chosen from the list")
		}
		doctorID := uint(id)
		in.DoctorID = &doctorID
	}
	return in, nil
}

// List shows prescriptions; doctors only see their own.
func (h *PrescriptionHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	prescriptions, err := h.Prescriptions.List(c.Request.Context(), p)
	if err != nil {
		fail(c, h.Log, err, "/prescriptions", "Prescription")
		return
	}
	utils.View(c, "prescriptions/list", gin.H{"prescriptions": prescriptions})
}

// AddForm offers every patient and, unless the user prescribes as a linked
// doctor, every doctor.
func (h *PrescriptionHandler) AddForm(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	patients, err := h.Patients.List(ctx, "")
	if err != nil {
		fail(c, h.Log, err, "/prescriptions", "Patient")
		return
	}
	data := gin.H{"patients": patients}
	if doctorID, linked := p.LinkedDoctor(); linked {
		data["doctorId"] = doctorID
	} else {
		doctors, err := h.Doctors.List(ctx)
		if err != nil {
			fail(c, h.Log, err, "/prescriptions", "Doctor")
			return
		}
		data["doctors"] = doctors
	}
	utils.View(c, "prescriptions/form", data)
}

// Add issues a prescription.
func (h *PrescriptionHandler) Add(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var form PrescriptionForm
	if err := utils.BindForm(c, &form); err != nil {
		badInput(c, "/prescriptions/add", err)
		return
	}
	in, err := form.input()
	if err != nil {
		badInput(c, "/prescriptions/add", err)
		return
	}
	if _, err := h.Prescriptions.Create(c.Request.Context(), p, in); err != nil {
		fail(c, h.Log, err, "/prescriptions/add", "Prescription")
		return
	}
	utils.RedirectWithNotice(c, "/prescriptions", utils.Success("Prescription added successfully!"))
}

// View shows one prescription.
func (h *PrescriptionHandler) View(c *gin.Context) {
	id, ok := pathID(c, "Prescription")
	if !ok {
		return
	}
	prescription, err := h.Prescriptions.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Log, err, "/prescriptions", "Prescription")
		return
	}
	utils.View(c, "prescriptions/view", prescription)
}
