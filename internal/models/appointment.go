package models

// AppointmentStatus represents the status of an appointment.
// The legal transitions between these values are defined by the
// lifecycle package; handlers never compare raw strings.
type AppointmentStatus string

const (
	StatusPending            AppointmentStatus = "pending"
	StatusPayNowConsultation AppointmentStatus = "pay_now_consultation"
	StatusConfirmed          AppointmentStatus = "confirmed"
	StatusCompleted          AppointmentStatus = "completed"
	StatusRejectedByDoctor   AppointmentStatus = "rejected_by_doctor"
	StatusCancelledByPatient AppointmentStatus = "cancelled_by_patient"
)

// PaymentState tracks whether the consultation fee has been collected.
type PaymentState string

const (
	PaymentUnpaid PaymentState = "unpaid"
	PaymentPaid   PaymentState = "paid"
)

// Appointment represents one patient-doctor encounter. Date and Time are
// stored as plain strings (YYYY-MM-DD and HH:MM) because nurse availability
// is decided on exact slot equality, not on intervals.
type Appointment struct {
	BaseModel
	PatientID     string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID      string            `gorm:"size:36;index;not null" json:"doctorId"`
	NurseID       *string           `gorm:"size:36;index" json:"nurseId"`
	Date          string            `gorm:"size:10;not null" json:"date"`
	Time          string            `gorm:"size:5;not null" json:"time"`
	Reason        string            `gorm:"type:text" json:"reason"`
	Status        AppointmentStatus `gorm:"size:30;default:'pending'" json:"status"`
	PaymentStatus PaymentState      `gorm:"size:10;default:'unpaid'" json:"paymentStatus"`

	// Relations
	Patient      User          `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor       User          `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Nurse        *User         `gorm:"foreignKey:NurseID" json:"nurse,omitempty"`
	LabRequests  []LabRequest  `gorm:"foreignKey:AppointmentID" json:"labRequests,omitempty"`
	Prescription *Prescription `gorm:"foreignKey:AppointmentID" json:"prescription,omitempty"`
}
