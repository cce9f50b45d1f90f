package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestBeforeCreateAssignsUUID(t *testing.T) {
	db := openTestDB(t)

	user := &User{Email: "id@example.com", Role: RolePatient, Status: AccountActive}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	_, err := uuid.Parse(user.ID)
	assert.NoError(t, err)

	// A caller-supplied id is kept.
	fixed := &LabTest{Name: "Fixed", Fee: 100, Status: LabTestActive}
	fixed.ID = "11111111-2222-3333-4444-555555555555"
	require.NoError(t, db.Create(fixed).Error)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", fixed.ID)
}

func TestPasswordHashing(t *testing.T) {
	user := &User{}
	require.NoError(t, user.SetPassword("correct horse battery"))

	assert.NotEqual(t, "correct horse battery", user.Password)
	assert.True(t, user.CheckPassword("correct horse battery"))
	assert.False(t, user.CheckPassword("wrong password"))
}

func TestPaymentKeepsNilReferences(t *testing.T) {
	db := openTestDB(t)

	patient := &User{Email: "payer@example.com", Role: RolePatient, Status: AccountActive}
	require.NoError(t, patient.SetPassword("password123"))
	require.NoError(t, db.Create(patient).Error)

	payment := &Payment{PatientID: patient.ID, Amount: 100, Payee: PayeeHospital, Status: PaymentCompleted}
	require.NoError(t, db.Create(payment).Error)

	var reloaded Payment
	require.NoError(t, db.First(&reloaded, "id = ?", payment.ID).Error)
	assert.Nil(t, reloaded.AppointmentID)
	assert.Nil(t, reloaded.LabRequestID)
}
