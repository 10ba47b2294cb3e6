package access

import (
	"testing"

	"hospital-management-server/internal/models"
)

func TestAllowed_DoctorMutationsAdminOnly(t *testing.T) {
	roles := []models.Role{models.RoleAdmin, models.RoleDoctor, models.RoleReceptionist}
	for _, action := range []Action{CreateDoctor, EditDoctor, DeleteDoctor} {
		for _, role := range roles {
			got := Allowed(action, role)
			want := role == models.RoleAdmin
			if got != want {
				t.Errorf("Allowed(%s, %s) = %v, want %v", action, role, got, want)
			}
		}
	}
}

func TestAllowed_OpenActions(t *testing.T) {
	open := []Action{
		ViewDashboard, ListPatients, CreatePatient, EditPatient, DeletePatient, ListDoctors,
		BookAppointment, CancelAppointment, CompleteAppointment, GenerateBill, PayBill, CreatePrescription,
	}
	for _, action := range open {
		for _, role := range []models.Role{models.RoleAdmin, models.RoleDoctor, models.RoleReceptionist} {
			if !Allowed(action, role) {
				t.Errorf("Allowed(%s, %s) = false, want true", action, role)
			}
		}
	}
}

func TestAllowed_UnknownRole(t *testing.T) {
	if Allowed(ListPatients, models.Role("guest")) {
		t.Error("unknown role must be denied")
	}
	if Allowed(CreateDoctor, models.Role("")) {
		t.Error("empty role must be denied")
	}
}

func TestLinkedDoctor(t *testing.T) {
	id := uint(7)
	tests := []struct {
		name   string
		p      Principal
		wantID uint
		wantOK bool
	}{
		{"doctor with link", Principal{Role: models.RoleDoctor, DoctorID: &id}, 7, true},
		{"doctor without link", Principal{Role: models.RoleDoctor}, 0, false},
		{"admin ignores link", Principal{Role: models.RoleAdmin, DoctorID: &id}, 0, false},
	}
	for _, tt := range tests {
		gotID, gotOK := tt.p.LinkedDoctor()
		if gotID != tt.wantID || gotOK != tt.wantOK {
			t.Errorf("%s: LinkedDoctor() = (%d, %v), want (%d, %v)", tt.name, gotID, gotOK, tt.wantID, tt.wantOK)
		}
	}
}
