package models

// LabTestStatus controls whether a catalog entry can still be ordered.
type LabTestStatus string

const (
	LabTestActive   LabTestStatus = "active"
	LabTestInactive LabTestStatus = "inactive"
)

// LabTest is a catalog entry for a diagnostic test the hospital offers.
// Fee is the amount charged when a patient pays for the test.
type LabTest struct {
	BaseModel
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Fee         float64       `gorm:"not null" json:"fee"`
	Status      LabTestStatus `gorm:"size:10;default:'active'" json:"status"`
}

// LabRequestStatus represents the status of a suggested lab test.
type LabRequestStatus string

const (
	LabSuggested         LabRequestStatus = "suggested"
	LabRejectedByPatient LabRequestStatus = "rejected_by_patient"
	LabPaid              LabRequestStatus = "paid"
	LabCompleted         LabRequestStatus = "completed"
)

// LabRequest ties a suggested test to an appointment. Result stays empty
// until a nurse submits it, which also moves the status to completed.
type LabRequest struct {
	BaseModel
	AppointmentID string           `gorm:"size:36;index;not null" json:"appointmentId"`
	TestID        string           `gorm:"size:36;index;not null" json:"testId"`
	Status        LabRequestStatus `gorm:"size:30;default:'suggested'" json:"status"`
	Result        string           `gorm:"type:text" json:"result"`
	DoctorNote    string           `gorm:"type:text" json:"doctorNote"`

	// Relations
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Test        LabTest     `gorm:"foreignKey:TestID" json:"test,omitempty"`
}
