package models

// Payee identifies who a ledger entry pays: the doctor (consultation
// fees) or the hospital (lab test fees).
type Payee string

const (
	PayeeDoctor   Payee = "doctor"
	PayeeHospital Payee = "hospital"
)

// PaymentStatus of a ledger entry. Entries are written as completed in
// the same transaction as the status change that collects the fee.
type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
)

// Payment is an append-only ledger entry recording a collected fee.
// Rows are never updated or deleted.
type Payment struct {
	BaseModel
	PatientID     string        `gorm:"size:36;index;not null" json:"patientId"`
	AppointmentID *string       `gorm:"size:36;index" json:"appointmentId"`
	LabRequestID  *string       `gorm:"size:36;index" json:"labRequestId"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Payee         Payee         `gorm:"size:10;not null" json:"payee"`
	Status        PaymentStatus `gorm:"size:20;default:'completed'" json:"status"`

	Patient User `gorm:"foreignKey:PatientID" json:"-"`
}
