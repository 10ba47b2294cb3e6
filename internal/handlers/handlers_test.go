package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"hospital-management-server/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFail_MapsErrorsToOutcomes(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		location string
	}{
		{"not found", fmt.Errorf("find patient: %w", services.ErrNotFound), http.StatusNotFound, ""},
		{"validation", &services.ValidationError{Field: "age", Message: "age must not be negative"}, http.StatusFound, "/patients/add"},
		{"forbidden", fmt.Errorf("x: %w", services.ErrForbidden), http.StatusFound, "/patients/add"},
		{"dependents", fmt.Errorf("x: %w", services.ErrHasDependents), http.StatusFound, "/patients/add"},
		{"other", errors.New("disk full"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/patients/add", nil)

			fail(c, zerolog.Nop(), tc.err, "/patients/add", "Patient")
			// A bodiless redirect is only flushed by the engine.
			c.Writer.WriteHeaderNow()
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}
}

func TestDoctorForm_Availability(t *testing.T) {
	on, off := "on", ""
	form := DoctorForm{Name: "Dr. A", Specialty: "B", Phone: "1"}

	assert.Nil(t, form.input(true).Available, "new doctors take the service default")
	if in := form.input(false); assert.NotNil(t, in.Available) {
		assert.False(t, *in.Available, "unticked edit clears availability")
	}

	form.Available = &on
	if in := form.input(false); assert.NotNil(t, in.Available) {
		assert.True(t, *in.Available)
	}
	form.Available = &off
	if in := form.input(true); assert.NotNil(t, in.Available) {
		assert.False(t, *in.Available)
	}
}

func TestPrescriptionForm_DoctorID(t *testing.T) {
	in, err := PrescriptionForm{PatientID: 1, DoctorID: " 4 "}.input()
	assert.NoError(t, err)
	if assert.NotNil(t, in.DoctorID) {
		assert.Equal(t, uint(4), *in.DoctorID)
	}

	in, err = PrescriptionForm{PatientID: 1}.input()
	assert.NoError(t, err)
	assert.Nil(t, in.DoctorID)

	_, err = PrescriptionForm{PatientID: 1, DoctorID: "four"}.input()
	assert.Error(t, err)
}

func TestPatientForm_Age(t *testing.T) {
	in, err := PatientForm{Name: "A", Age: " 0 ", Gender: "F", Phone: "1"}.input()
	assert.NoError(t, err)
	assert.Equal(t, 0, in.Age)

	_, err = PatientForm{Age: "3.5"}.input()
	assert.EqualError(t, err, "age must be a whole number")
}
