package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital-management-server/internal/models"
	"hospital-management-server/internal/testdb"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Role
		wantErr bool
	}{
		{"admin", models.RoleAdmin, false},
		{"Doctor", models.RoleDoctor, false},
		{" receptionist ", models.RoleReceptionist, false},
		{"nurse", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := models.ParseRole(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, models.ErrUnknownRole, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseStatuses(t *testing.T) {
	st, err := models.ParseAppointmentStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, st)

	_, err = models.ParseAppointmentStatus("rescheduled")
	assert.ErrorIs(t, err, models.ErrUnknownAppointmentStatus)

	bs, err := models.ParseBillStatus("PAID")
	require.NoError(t, err)
	assert.Equal(t, models.BillPaid, bs)

	_, err = models.ParseBillStatus("refunded")
	assert.ErrorIs(t, err, models.ErrUnknownBillStatus)
}

func TestParseDate(t *testing.T) {
	d, err := models.ParseDate("2025-12-20")
	require.NoError(t, err)
	a := models.Appointment{Date: d}
	assert.Equal(t, "2025-12-20", a.Day())

	_, err = models.ParseDate("20/12/2025")
	assert.Error(t, err)
}

func TestUserPasswordIsHashed(t *testing.T) {
	db := testdb.New(t)
	u := testdb.User(t, db, "testuser", "testpass", models.RoleAdmin, nil)

	var saved models.User
	require.NoError(t, db.First(&saved, "username = ?", "testuser").Error)
	assert.NotEqual(t, "testpass", saved.Password)
	assert.True(t, saved.CheckPassword("testpass"))
	assert.False(t, saved.CheckPassword("wrong"))
	assert.Equal(t, u.ID, saved.Sanitize().ID)
}

func TestSanitize_CarriesDoctorName(t *testing.T) {
	db := testdb.New(t)
	doctor := testdb.Doctor(t, db, "Dr. Test", true)
	testdb.User(t, db, "druser", "pw", models.RoleDoctor, &doctor.ID)

	var u models.User
	require.NoError(t, db.Preload("Doctor").First(&u, "username = ?", "druser").Error)
	s := u.Sanitize()
	assert.Equal(t, "druser", s.Username)
	assert.Equal(t, models.RoleDoctor, s.Role)
	assert.Equal(t, "Dr. Test", s.DoctorName)

	body, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")
}

func TestUserDoctorLinkInvariant(t *testing.T) {
	db := testdb.New(t)
	doctor := testdb.Doctor(t, db, "Dr. Test", true)

	linked := &models.User{Username: "druser", Role: models.RoleDoctor, DoctorID: &doctor.ID}
	require.NoError(t, linked.SetPassword("drpass"))
	require.NoError(t, db.Create(linked).Error)

	var saved models.User
	require.NoError(t, db.Preload("Doctor").First(&saved, linked.ID).Error)
	require.NotNil(t, saved.Doctor)
	assert.Equal(t, "Dr. Test", saved.Doctor.Name)

	unlinked := &models.User{Username: "nodoc", Role: models.RoleDoctor, Password: "x"}
	assert.ErrorIs(t, db.Create(unlinked).Error, models.ErrDoctorLinkRequired)

	missing := uint(9999)
	dangling := &models.User{Username: "ghost", Role: models.RoleDoctor, DoctorID: &missing, Password: "x"}
	assert.ErrorIs(t, db.Create(dangling).Error, models.ErrDoctorLinkRequired)

	receptionist := &models.User{Username: "desk", Role: models.RoleReceptionist, DoctorID: &doctor.ID, Password: "x"}
	assert.ErrorIs(t, db.Create(receptionist).Error, models.ErrUnexpectedDoctorLink)

	bogus := &models.User{Username: "bogus", Role: models.Role("janitor"), Password: "x"}
	assert.ErrorIs(t, db.Create(bogus).Error, models.ErrUnknownRole)
}

func TestDefaultsOnCreate(t *testing.T) {
	db := testdb.New(t)
	doctor := testdb.Doctor(t, db, "Dr. Unavailable", false)
	patient := testdb.Patient(t, db, "Test Patient")

	var savedDoctor models.Doctor
	require.NoError(t, db.First(&savedDoctor, doctor.ID).Error)
	assert.False(t, savedDoctor.Available)

	date, err := models.ParseDate("2025-12-20")
	require.NoError(t, err)
	appt := &models.Appointment{PatientID: patient.ID, DoctorID: doctor.ID, Date: date, Time: "10:00"}
	require.NoError(t, db.Create(appt).Error)
	assert.Equal(t, models.StatusScheduled, appt.Status)

	bill := &models.Bill{PatientID: patient.ID, Amount: decimal.RequireFromString("100.00")}
	require.NoError(t, db.Create(bill).Error)

	var savedBill models.Bill
	require.NoError(t, db.First(&savedBill, bill.ID).Error)
	assert.Equal(t, models.BillPending, savedBill.Status)
	assert.True(t, savedBill.Amount.Equal(decimal.NewFromInt(100)))
	assert.False(t, savedBill.CreatedAt.IsZero())
}

func TestSessionActive(t *testing.T) {
	now := time.Now()
	s := models.Session{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, s.Active(now))

	s.IsRevoked = true
	assert.False(t, s.Active(now))

	expired := models.Session{ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, expired.Active(now))
}
