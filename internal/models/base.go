package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// BaseModel contains common columns for all tables
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// Database connection instance
var DB *gorm.DB

// InitDB initializes the database connection and migrates the schema.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	var err error

	DB, err = gorm.Open(mysql.Open(config.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(DB); err != nil {
		return nil, err
	}

	return DB, nil
}

// Migrate runs gorm auto migration for every model in the application.
// Kept separate from InitDB so tests can migrate their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&DoctorDetails{},
		&NurseDetails{},
		&Appointment{},
		&LabTest{},
		&LabRequest{},
		&Payment{},
		&Prescription{},
	)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN string
}
