package models

// Doctor is a staff physician that appointments and prescriptions refer to.
// Available has no column default because gorm would substitute it for an
// explicit false on insert.
type Doctor struct {
	BaseModel
	Name      string `gorm:"size:100;not null" json:"name"`
	Specialty string `gorm:"size:100;not null" json:"specialty"`
	Phone     string `gorm:"size:20;not null" json:"phone"`
	Available bool   `gorm:"not null" json:"available"`
}
