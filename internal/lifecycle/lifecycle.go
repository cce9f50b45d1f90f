// Package lifecycle holds the pure decision logic governing legal status
// transitions for appointments and lab requests. Every decision is a
// function of (current state, action, acting user) and never touches the
// database; handlers fetch the rows, ask this package whether the move is
// legal, and persist the outcome.
package lifecycle

import (
	"errors"
	"fmt"

	"mediconnect-server/internal/models"
)

// Sentinel errors forming the failure taxonomy. Handlers translate these
// 1:1 to HTTP responses with errors.Is.
var (
	// ErrValidation marks missing or malformed input (unknown action).
	ErrValidation = errors.New("invalid input")
	// ErrForbidden marks an authenticated caller that is not the owning
	// role or party for the requested transition.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks an entity that is not in the required source
	// state, e.g. paying twice or responding to a cancelled appointment.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks a missing entity or related row. Raised by
	// handlers, included here so the taxonomy lives in one place.
	ErrNotFound = errors.New("not found")
)

// Actor is the authenticated user driving a transition, threaded
// explicitly into every decision.
type Actor struct {
	ID   string
	Role models.Role
}

// AppointmentAction enumerates every operation that may move an
// appointment through its lifecycle.
type AppointmentAction string

const (
	ApptAccept      AppointmentAction = "accept"
	ApptReject      AppointmentAction = "reject"
	ApptCancel      AppointmentAction = "cancel"
	ApptPay         AppointmentAction = "pay"
	ApptAssignNurse AppointmentAction = "assign-nurse"
	ApptFinalize    AppointmentAction = "finalize"
)

// owningParty identifies which party referenced by the appointment must
// perform an action.
type owningParty int

const (
	partyDoctor owningParty = iota
	partyPatient
)

type appointmentRule struct {
	from  models.AppointmentStatus
	party owningParty
	role  models.Role
	to    models.AppointmentStatus
}

// appointmentRules is the exhaustive transition table. Any (state, action)
// pair not matching a rule is rejected; there is no other path through
// the machine. rejected_by_doctor, cancelled_by_patient and completed are
// terminal because no rule has them as a source state.
var appointmentRules = map[AppointmentAction]appointmentRule{
	ApptAccept:      {models.StatusPending, partyDoctor, models.RoleDoctor, models.StatusPayNowConsultation},
	ApptReject:      {models.StatusPending, partyDoctor, models.RoleDoctor, models.StatusRejectedByDoctor},
	ApptCancel:      {models.StatusPending, partyPatient, models.RolePatient, models.StatusCancelledByPatient},
	ApptPay:         {models.StatusPayNowConsultation, partyPatient, models.RolePatient, models.StatusConfirmed},
	ApptAssignNurse: {models.StatusConfirmed, partyDoctor, models.RoleDoctor, models.StatusConfirmed},
	ApptFinalize:    {models.StatusConfirmed, partyDoctor, models.RoleDoctor, models.StatusCompleted},
}

// NextAppointmentStatus decides whether actor may apply action to the
// appointment and returns the status the appointment must move to.
// Guards run in a fixed order: unknown action, then role/ownership, then
// source state, so a forbidden caller never learns the entity's state.
func NextAppointmentStatus(a *models.Appointment, actor Actor, action AppointmentAction) (models.AppointmentStatus, error) {
	rule, ok := appointmentRules[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown appointment action %q", ErrValidation, action)
	}
	if actor.Role != rule.role {
		return "", fmt.Errorf("%w: action %q requires role %s", ErrForbidden, action, rule.role)
	}
	if appointmentParty(a, rule.party) != actor.ID {
		return "", fmt.Errorf("%w: you are not the %s on this appointment", ErrForbidden, rule.role)
	}
	if a.Status != rule.from {
		return "", fmt.Errorf("%w: appointment is %s, action %q requires %s", ErrConflict, a.Status, action, rule.from)
	}
	if action == ApptAssignNurse && a.NurseID != nil {
		return "", fmt.Errorf("%w: appointment already has a nurse assigned", ErrConflict)
	}
	return rule.to, nil
}

func appointmentParty(a *models.Appointment, p owningParty) string {
	if p == partyDoctor {
		return a.DoctorID
	}
	return a.PatientID
}

// AppointmentTerminal reports whether no further transition is legal
// from the given status.
func AppointmentTerminal(s models.AppointmentStatus) bool {
	switch s {
	case models.StatusRejectedByDoctor, models.StatusCancelledByPatient, models.StatusCompleted:
		return true
	}
	return false
}

// CheckNurseAssignable validates the candidate nurse for a slot: the
// profile toggle must be on and the nurse must not already hold a
// confirmed appointment at the identical date+time (busy). The busy flag
// is read-then-decide with no lock; the narrow race between two doctors
// assigning the same nurse concurrently is accepted.
func CheckNurseAssignable(nurse *models.NurseDetails, busy bool) error {
	if !nurse.IsAvailable {
		return fmt.Errorf("%w: nurse is not accepting assignments", ErrConflict)
	}
	if busy {
		return fmt.Errorf("%w: nurse already has a confirmed appointment at this slot", ErrConflict)
	}
	return nil
}

// LabAction enumerates the operations on a lab request.
type LabAction string

const (
	LabReject      LabAction = "reject"
	LabPay         LabAction = "pay"
	LabWriteResult LabAction = "write-result"
)

// NextLabRequestStatus decides whether actor may apply action to the lab
// request and returns the resulting status. Patient actions require
// ownership of the parent appointment; writing a result only requires
// the nurse role, since any active nurse may process a paid test.
func NextLabRequestStatus(lr *models.LabRequest, parent *models.Appointment, actor Actor, action LabAction) (models.LabRequestStatus, error) {
	switch action {
	case LabReject, LabPay:
		if actor.Role != models.RolePatient {
			return "", fmt.Errorf("%w: action %q requires role %s", ErrForbidden, action, models.RolePatient)
		}
		if parent == nil || parent.PatientID != actor.ID {
			return "", fmt.Errorf("%w: this lab request belongs to another patient", ErrForbidden)
		}
		if lr.Status != models.LabSuggested {
			return "", fmt.Errorf("%w: lab request is %s, action %q requires %s", ErrConflict, lr.Status, action, models.LabSuggested)
		}
		if action == LabReject {
			return models.LabRejectedByPatient, nil
		}
		return models.LabPaid, nil
	case LabWriteResult:
		if actor.Role != models.RoleNurse {
			return "", fmt.Errorf("%w: action %q requires role %s", ErrForbidden, action, models.RoleNurse)
		}
		// The hospital must have been paid before a result may be written.
		if lr.Status != models.LabPaid {
			return "", fmt.Errorf("%w: lab request is %s, results can only be written once it is %s", ErrConflict, lr.Status, models.LabPaid)
		}
		return models.LabCompleted, nil
	default:
		return "", fmt.Errorf("%w: unknown lab request action %q", ErrValidation, action)
	}
}

// LabRequestTerminal reports whether no further transition is legal
// from the given status.
func LabRequestTerminal(s models.LabRequestStatus) bool {
	return s == models.LabRejectedByPatient || s == models.LabCompleted
}
