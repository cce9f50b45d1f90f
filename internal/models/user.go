package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
	RolePatient Role = "patient"
)

// AccountStatus gates login: staff accounts stay pending until an admin
// approves them, disabled accounts cannot log in at all.
type AccountStatus string

const (
	AccountPending  AccountStatus = "pending"
	AccountActive   AccountStatus = "active"
	AccountDisabled AccountStatus = "disabled"
)

// User represents a user in the system
type User struct {
	BaseModel
	Email       string        `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string        `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName   string        `gorm:"size:100" json:"firstName"`
	LastName    string        `gorm:"size:100" json:"lastName"`
	Role        Role          `gorm:"size:20;not null" json:"role"`
	Status      AccountStatus `gorm:"size:20;default:'pending'" json:"status"`
	DateOfBirth *time.Time    `json:"dateOfBirth,omitempty"`
	Gender      string        `gorm:"size:20" json:"gender,omitempty"`
	PhoneNumber string        `json:"phoneNumber,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens       []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	DoctorDetails       *DoctorDetails `gorm:"foreignKey:UserID" json:"doctorDetails,omitempty"`
	NurseDetails        *NurseDetails  `gorm:"foreignKey:UserID" json:"nurseDetails,omitempty"`
	DoctorAppointments  []Appointment  `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments []Appointment  `gorm:"foreignKey:PatientID" json:"-"`
	NurseAppointments   []Appointment  `gorm:"foreignKey:NurseID" json:"-"`
	Payments            []Payment      `gorm:"foreignKey:PatientID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID          string        `json:"id"`
	Email       string        `json:"email"`
	FirstName   string        `json:"firstName"`
	LastName    string        `json:"lastName"`
	Role        Role          `json:"role"`
	Status      AccountStatus `json:"status"`
	DateOfBirth *time.Time    `json:"dateOfBirth,omitempty"`
	Gender      string        `json:"gender,omitempty"`
	PhoneNumber string        `json:"phoneNumber,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
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
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		Status:      u.Status,
		DateOfBirth: u.DateOfBirth,
		Gender:      u.Gender,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
