package models

// Prescription holds the consultation write-up for an appointment.
// Created at the initial consultation, merged with final medications
// and instructions when the doctor finalizes.
type Prescription struct {
	BaseModel
	AppointmentID string `gorm:"size:36;uniqueIndex;not null" json:"appointmentId"`
	Diagnosis     string `gorm:"type:text" json:"diagnosis"`
	Medications   string `gorm:"type:text" json:"medications"`
	Instructions  string `gorm:"type:text" json:"instructions"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}
