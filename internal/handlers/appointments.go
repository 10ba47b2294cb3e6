package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/models"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"
)

// AppointmentHandler handles booking and appointment status changes.
type AppointmentHandler struct {
	Appointments *services.AppointmentService
	Patients     *services.PatientService
	Doctors      *services.DoctorService
	Log          zerolog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		Appointments: services.NewAppointmentService(db, log),
		Patients:     services.NewPatientService(db, log),
		Doctors:      services.NewDoctorService(db, log),
		Log:          log,
	}
}

// BookingForm is the submitted booking form.
type BookingForm struct {
	PatientID uint   `form:"patient_id" binding:"required"`
	DoctorID  uint   `form:"doctor_id" binding:"required"`
	Date      string `form:"date" binding:"required"`
	Time      string `form:"time" binding:"required"`
}

func (f BookingForm) input() (services.BookingInput, error) {
	date, err := models.ParseDate(f.Date)
	if err != nil {
		return services.BookingInput{}, errors.New("date must be in YYYY-MM-DD format")
	}
	return services.BookingInput{
		PatientID: f.PatientID,
		DoctorID:  f.DoctorID,
		Date:      date,
		Time:      f.Time,
	}, nil
}

// List shows appointments; doctors only see their own.
func (h *AppointmentHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	appointments, err := h.Appointments.List(c.Request.Context(), p)
	if err != nil {
		fail(c, h.Log, err, "/appointments", "Appointment")
		return
	}
	utils.View(c, "appointments/list", gin.H{"appointments": appointments})
}

// BookForm offers every patient and the doctors currently available.
func (h *AppointmentHandler) BookForm(c *gin.Context) {
	ctx := c.Request.Context()
	patients, err := h.Patients.List(ctx, "")
	if err != nil {
		fail(c, h.Log, err, "/appointments", "Patient")
		return
	}
	doctors, err := h.Doctors.ListAvailable(ctx)
	if err != nil {
		fail(c, h.Log, err, "/appointments", "Doctor")
		return
	}
	utils.View(c, "appointments/book", gin.H{"patients": patients, "doctors": doctors})
}

// Book creates a scheduled appointment.
func (h *AppointmentHandler) Book(c *gin.Context) {
	var form BookingForm
	if err := utils.BindForm(c, &form); err != nil {
		badInput(c, "/appointments/book", err)
		return
	}
	in, err := form.input()
	if err != nil {
		badInput(c, "/appointments/book", err)
		return
	}
	if _, err := h.Appointments.Book(c.Request.Context(), in); err != nil {
		fail(c, h.Log, err, "/appointments/book", "Appointment")
		return
	}
	utils.RedirectWithNotice(c, "/appointments", utils.Success("Appointment booked successfully!"))
}

// Cancel marks an appointment cancelled.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "Appointment")
	if !ok {
		return
	}
	if _, err := h.Appointments.Cancel(c.Request.Context(), id); err != nil {
		fail(c, h.Log, err, "/appointments", "Appointment")
		return
	}
	utils.RedirectWithNotice(c, "/appointments", utils.Success("Appointment cancelled."))
}

// Complete marks an appointment completed.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "Appointment")
	if !ok {
		return
	}
	if _, err := h.Appointments.Complete(c.Request.Context(), id); err != nil {
		fail(c, h.Log, err, "/appointments", "Appointment")
		return
	}
	utils.RedirectWithNotice(c, "/appointments", utils.Success("Appointment marked as completed."))
}
