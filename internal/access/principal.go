// Package access holds the authenticated principal and the role policy that
// gates mutations.
package access

import "hospital-management-server/internal/models"

// Principal is the authenticated actor of one request. It is built by the
// session middleware and passed explicitly to every workflow call.
type Principal struct {
	UserID    uint        `json:"userId"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	DoctorID  *uint       `json:"doctorId,omitempty"`
	SessionID string      `json:"-"`
}

// LinkedDoctor returns the doctor id a doctor-role principal is scoped to.
// ok is false for other roles and for doctors without a link.
func (p Principal) LinkedDoctor() (id uint, ok bool) {
	if p.Role != models.RoleDoctor || p.DoctorID == nil {
		return 0, false
	}
	return *p.DoctorID, true
}

// FromUser builds a principal for the given user and session.
func FromUser(u *models.User, sessionID string) Principal {
	return Principal{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		DoctorID:  u.DoctorID,
		SessionID: sessionID,
	}
}
