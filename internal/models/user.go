package models

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role enum
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
)

var (
	ErrUnknownRole          = errors.New("unknown role")
	ErrDoctorLinkRequired   = errors.New("doctor accounts must be linked to an existing doctor")
	ErrUnexpectedDoctorLink = errors.New("only doctor accounts may be linked to a doctor")
)

// BcryptCost is the work factor used when hashing passwords. Salts are
// generated per hash by bcrypt and stored inside the hash string.
var BcryptCost = 12

// ParseRole converts a stored or submitted value into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleDoctor, RoleReceptionist:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// User is a staff login.
type User struct {
	BaseModel
	Username string `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Role     Role   `gorm:"size:20;not null" json:"role"`
	DoctorID *uint  `gorm:"index" json:"doctorId,omitempty"`

	Doctor *Doctor `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"doctor,omitempty"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role       Role   `json:"role"`
	DoctorID   *uint  `json:"doctorId,omitempty"`
	DoctorName string `json:"doctorName,omitempty"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
// DoctorName is filled only when Doctor was preloaded.
func (u *User) Sanitize() UserSanitized {
	s := UserSanitized{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		DoctorID: u.DoctorID,
	}
	if u.Doctor != nil {
		s.DoctorName = u.Doctor.Name
	}
	return s
}

// BeforeSave enforces the role/doctor link invariant.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if _, err := ParseRole(string(u.Role)); err != nil {
		return err
	}
	if u.Role != RoleDoctor {
		if u.DoctorID != nil {
			return ErrUnexpectedDoctorLink
		}
		return nil
	}
	if u.DoctorID == nil {
		return ErrDoctorLinkRequired
	}
	var count int64
	if err := tx.Session(&gorm.Session{NewDB: true}).Model(&Doctor{}).Where("id = ?", *u.DoctorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrDoctorLinkRequired
	}
	return nil
}
