package models

// Patient is a demographic record. CreatedAt doubles as the registration
// timestamp and is written once.
type Patient struct {
	BaseModel
	Name    string `gorm:"size:100;not null;index" json:"name"`
	Age     int    `gorm:"not null" json:"age"`
	Gender  string `gorm:"size:10;not null" json:"gender"`
	Phone   string `gorm:"size:20;not null" json:"phone"`
	Address string `gorm:"size:200" json:"address,omitempty"`
}
