package models

// DoctorDetails holds the professional profile of a doctor user.
// ConsultationFee is the amount charged when a patient pays for a
// consultation; the payment handler always reads it from here, never
// from the request body.
type DoctorDetails struct {
	BaseModel
	UserID          string  `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Degree          string  `gorm:"size:100" json:"degree"`
	Specialization  string  `gorm:"size:100;default:'General'" json:"specialization"`
	ConsultationFee float64 `gorm:"default:500" json:"consultationFee"`
	Bio             string  `gorm:"type:text" json:"bio"`
	IsAvailable     bool    `gorm:"default:true" json:"isAvailable"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// NurseDetails holds the profile of a nurse user. IsAvailable is the
// dashboard toggle consulted by the nurse availability query.
type NurseDetails struct {
	BaseModel
	UserID      string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Department  string `gorm:"size:100;default:'General'" json:"department"`
	IsAvailable bool   `gorm:"default:true" json:"isAvailable"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
