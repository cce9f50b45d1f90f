package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect-server/internal/models"
)

const (
	patientID = "patient-1"
	doctorID  = "doctor-1"
	nurseID   = "nurse-1"
	otherID   = "someone-else"
)

func appointment(status models.AppointmentStatus) *models.Appointment {
	return &models.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      "2025-05-01",
		Time:      "10:00",
		Status:    status,
	}
}

func patient() Actor { return Actor{ID: patientID, Role: models.RolePatient} }
func doctor() Actor  { return Actor{ID: doctorID, Role: models.RoleDoctor} }
func nurse() Actor   { return Actor{ID: nurseID, Role: models.RoleNurse} }

func TestAppointmentTransitions(t *testing.T) {
	tests := []struct {
		name   string
		status models.AppointmentStatus
		actor  Actor
		action AppointmentAction
		want   models.AppointmentStatus
	}{
		{"doctor accepts pending", models.StatusPending, doctor(), ApptAccept, models.StatusPayNowConsultation},
		{"doctor rejects pending", models.StatusPending, doctor(), ApptReject, models.StatusRejectedByDoctor},
		{"patient cancels pending", models.StatusPending, patient(), ApptCancel, models.StatusCancelledByPatient},
		{"patient pays", models.StatusPayNowConsultation, patient(), ApptPay, models.StatusConfirmed},
		{"doctor assigns nurse", models.StatusConfirmed, doctor(), ApptAssignNurse, models.StatusConfirmed},
		{"doctor finalizes", models.StatusConfirmed, doctor(), ApptFinalize, models.StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextAppointmentStatus(appointment(tt.status), tt.actor, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppointmentWrongSourceStateIsConflict(t *testing.T) {
	tests := []struct {
		name   string
		status models.AppointmentStatus
		actor  Actor
		action AppointmentAction
	}{
		{"accept already accepted", models.StatusPayNowConsultation, doctor(), ApptAccept},
		{"reject confirmed", models.StatusConfirmed, doctor(), ApptReject},
		{"cancel after acceptance", models.StatusPayNowConsultation, patient(), ApptCancel},
		{"pay pending", models.StatusPending, patient(), ApptPay},
		{"pay twice", models.StatusConfirmed, patient(), ApptPay},
		{"assign nurse before payment", models.StatusPayNowConsultation, doctor(), ApptAssignNurse},
		{"finalize pending", models.StatusPending, doctor(), ApptFinalize},
		{"accept rejected", models.StatusRejectedByDoctor, doctor(), ApptAccept},
		{"pay cancelled", models.StatusCancelledByPatient, patient(), ApptPay},
		{"finalize completed", models.StatusCompleted, doctor(), ApptFinalize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NextAppointmentStatus(appointment(tt.status), tt.actor, tt.action)
			assert.ErrorIs(t, err, ErrConflict)
		})
	}
}

func TestAppointmentOwnershipAndRoleGuards(t *testing.T) {
	tests := []struct {
		name   string
		status models.AppointmentStatus
		actor  Actor
		action AppointmentAction
	}{
		{"another doctor accepts", models.StatusPending, Actor{ID: otherID, Role: models.RoleDoctor}, ApptAccept},
		{"another patient cancels", models.StatusPending, Actor{ID: otherID, Role: models.RolePatient}, ApptCancel},
		{"another patient pays", models.StatusPayNowConsultation, Actor{ID: otherID, Role: models.RolePatient}, ApptPay},
		{"patient accepts own appointment", models.StatusPending, patient(), ApptAccept},
		{"doctor cancels", models.StatusPending, doctor(), ApptCancel},
		{"doctor pays", models.StatusPayNowConsultation, doctor(), ApptPay},
		{"nurse finalizes", models.StatusConfirmed, nurse(), ApptFinalize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NextAppointmentStatus(appointment(tt.status), tt.actor, tt.action)
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestAppointmentGuardOrderForbiddenBeforeConflict(t *testing.T) {
	// A non-owner probing a terminal appointment learns nothing about
	// its state: ownership is checked first.
	a := appointment(models.StatusCancelledByPatient)
	_, err := NextAppointmentStatus(a, Actor{ID: otherID, Role: models.RoleDoctor}, ApptAccept)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAppointmentUnknownActionIsValidation(t *testing.T) {
	_, err := NextAppointmentStatus(appointment(models.StatusPending), doctor(), AppointmentAction("promote"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAssignNurseTwiceIsConflict(t *testing.T) {
	a := appointment(models.StatusConfirmed)
	id := nurseID
	a.NurseID = &id
	_, err := NextAppointmentStatus(a, doctor(), ApptAssignNurse)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAppointmentTerminal(t *testing.T) {
	assert.False(t, AppointmentTerminal(models.StatusPending))
	assert.False(t, AppointmentTerminal(models.StatusPayNowConsultation))
	assert.False(t, AppointmentTerminal(models.StatusConfirmed))
	assert.True(t, AppointmentTerminal(models.StatusCompleted))
	assert.True(t, AppointmentTerminal(models.StatusRejectedByDoctor))
	assert.True(t, AppointmentTerminal(models.StatusCancelledByPatient))
}

func TestCheckNurseAssignable(t *testing.T) {
	assert.NoError(t, CheckNurseAssignable(&models.NurseDetails{IsAvailable: true}, false))
	assert.ErrorIs(t, CheckNurseAssignable(&models.NurseDetails{IsAvailable: false}, false), ErrConflict)
	assert.ErrorIs(t, CheckNurseAssignable(&models.NurseDetails{IsAvailable: true}, true), ErrConflict)
}

func labRequest(status models.LabRequestStatus) *models.LabRequest {
	return &models.LabRequest{Status: status, AppointmentID: "appt-1"}
}

func TestLabRequestTransitions(t *testing.T) {
	parent := appointment(models.StatusConfirmed)

	got, err := NextLabRequestStatus(labRequest(models.LabSuggested), parent, patient(), LabReject)
	require.NoError(t, err)
	assert.Equal(t, models.LabRejectedByPatient, got)

	got, err = NextLabRequestStatus(labRequest(models.LabSuggested), parent, patient(), LabPay)
	require.NoError(t, err)
	assert.Equal(t, models.LabPaid, got)

	got, err = NextLabRequestStatus(labRequest(models.LabPaid), nil, nurse(), LabWriteResult)
	require.NoError(t, err)
	assert.Equal(t, models.LabCompleted, got)
}

func TestLabRequestGuards(t *testing.T) {
	parent := appointment(models.StatusConfirmed)

	// Another patient cannot respond to this suggestion.
	_, err := NextLabRequestStatus(labRequest(models.LabSuggested), parent, Actor{ID: otherID, Role: models.RolePatient}, LabPay)
	assert.ErrorIs(t, err, ErrForbidden)

	// Paying twice, or responding after rejecting, conflicts.
	_, err = NextLabRequestStatus(labRequest(models.LabPaid), parent, patient(), LabPay)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = NextLabRequestStatus(labRequest(models.LabRejectedByPatient), parent, patient(), LabReject)
	assert.ErrorIs(t, err, ErrConflict)

	// Results may only be written once the hospital has been paid.
	_, err = NextLabRequestStatus(labRequest(models.LabSuggested), nil, nurse(), LabWriteResult)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = NextLabRequestStatus(labRequest(models.LabCompleted), nil, nurse(), LabWriteResult)
	assert.ErrorIs(t, err, ErrConflict)

	// Only nurses write results.
	_, err = NextLabRequestStatus(labRequest(models.LabPaid), parent, patient(), LabWriteResult)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = NextLabRequestStatus(labRequest(models.LabSuggested), parent, patient(), LabAction("refund"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLabRequestTerminal(t *testing.T) {
	assert.False(t, LabRequestTerminal(models.LabSuggested))
	assert.False(t, LabRequestTerminal(models.LabPaid))
	assert.True(t, LabRequestTerminal(models.LabRejectedByPatient))
	assert.True(t, LabRequestTerminal(models.LabCompleted))
}
