package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"hospital-management-server/internal/access"
	"hospital-management-server/internal/services"
	"hospital-management-server/internal/utils"
)

// OnlyAdminsNotice is shown when a non-admin tries to manage doctors.
const OnlyAdminsNotice = "Only admins can manage doctors"

// DoctorHandler handles the doctor roster.
type DoctorHandler struct {
	Doctors *services.DoctorService
	Log     zerolog.Logger
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB, log zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{Doctors: services.NewDoctorService(db, log), Log: log}
}

// DoctorForm is the submitted add/edit doctor form.
type DoctorForm struct {
	Name      string  `form:"name" binding:"required"`
	Specialty string  `form:"specialty" binding:"required"`
	Phone     string  `form:"phone" binding:"required"`
	Available *string `form:"available"`
}

// input converts the form. A new doctor without the checkbox is available;
// an edit without it clears availability.
func (f DoctorForm) input(adding bool) services.DoctorInput {
	in := services.DoctorInput{
		Name:      f.Name,
		Specialty: f.Specialty,
		Phone:     f.Phone,
	}
	switch {
	case f.Available != nil:
		available := checked(*f.Available)
		in.Available = &available
	case !adding:
		in.Available = new(bool)
	}
	return in
}

// List shows every doctor.
func (h *DoctorHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	doctors, err := h.Doctors.List(c.Request.Context())
	if err != nil {
		fail(c, h.Log, err, "/doctors", "Doctor")
		return
	}
	utils.View(c, "doctors/list", gin.H{
		"doctors":   doctors,
		"canManage": access.Allowed(access.CreateDoctor, p.Role),
	})
}

// AddForm shows an empty doctor form.
func (h *DoctorHandler) AddForm(c *gin.Context) {
	utils.View(c, "doctors/form", gin.H{"mode": "add"})
}

// Add creates a doctor.
func (h *DoctorHandler) Add(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var form DoctorForm
	if err := utils.BindForm(c, &form); err != nil {
		badInput(c, "/doctors/add", err)
		return
	}
	if _, err := h.Doctors.Create(c.Request.Context(), p, form.input(true)); err != nil {
		fail(c, h.Log, err, "/doctors", "Doctor")
		return
	}
	utils.RedirectWithNotice(c, "/doctors", utils.Success("Doctor added successfully!"))
}

// EditForm shows the doctor form filled with the current values.
func (h *DoctorHandler) EditForm(c *gin.Context) {
	id, ok := pathID(c, "Doctor")
	if !ok {
		return
	}
	doctor, err := h.Doctors.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Log, err, "/doctors", "Doctor")
		return
	}
	utils.View(c, "doctors/form", gin.H{"mode": "edit", "doctor": doctor})
}

// Edit overwrites a doctor's details.
func (h *DoctorHandler) Edit(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Doctor")
	if !ok {
		return
	}
	var form DoctorForm
	if err := utils.BindForm(c, &form); err != nil {
		badInput(c, "/doctors/edit/"+c.Param("id"), err)
		return
	}
	if _, err := h.Doctors.Update(c.Request.Context(), p, id, form.input(false)); err != nil {
		fail(c, h.Log, err, "/doctors", "Doctor")
		return
	}
	utils.RedirectWithNotice(c, "/doctors", utils.Success("Doctor updated successfully!"))
}

// Delete removes a doctor nothing refers to.
func (h *DoctorHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "Doctor")
	if !ok {
		return
	}
	if err := h.Doctors.Delete(c.Request.Context(), p, id); err != nil {
		fail(c, h.Log, err, "/doctors", "Doctor")
		return
	}
	utils.RedirectWithNotice(c, "/doctors", utils.Success("Doctor deleted successfully!"))
}
