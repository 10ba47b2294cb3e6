package models

// Prescription is a medical order written for a patient. It is never edited
// after creation.
type Prescription struct {
	BaseModel
	PatientID uint   `gorm:"not null;index" json:"patientId"`
	DoctorID  uint   `gorm:"not null;index" json:"doctorId"`
	Medicine  string `gorm:"type:text;not null" json:"medicine"`
	Dosage    string `gorm:"type:text;not null" json:"dosage"`

	// Relations
	Patient *Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"doctor,omitempty"`
}
