package access

import "hospital-management-server/internal/models"

// Action names a workflow operation for policy decisions.
type Action string

const (
	ViewDashboard       Action = "view-dashboard"
	ListPatients        Action = "list-patients"
	CreatePatient       Action = "create-patient"
	EditPatient         Action = "edit-patient"
	DeletePatient       Action = "delete-patient"
	ListDoctors         Action = "list-doctors"
	CreateDoctor        Action = "create-doctor"
	EditDoctor          Action = "edit-doctor"
	DeleteDoctor        Action = "delete-doctor"
	BookAppointment     Action = "book-appointment"
	CancelAppointment   Action = "cancel-appointment"
	CompleteAppointment Action = "complete-appointment"
	GenerateBill        Action = "generate-bill"
	PayBill             Action = "pay-bill"
	CreatePrescription  Action = "create-prescription"
)

// adminOnly lists the actions restricted to administrators. Anything not
// listed is open to every authenticated role.
var adminOnly = map[Action]bool{
	CreateDoctor: true,
	EditDoctor:   true,
	DeleteDoctor: true,
}

// Allowed reports whether a principal holding role may perform action.
func Allowed(action Action, role models.Role) bool {
	if _, err := models.ParseRole(string(role)); err != nil {
		return false
	}
	if adminOnly[action] {
		return role == models.RoleAdmin
	}
	return true
}
