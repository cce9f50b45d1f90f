package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mediconnect-server/internal/lifecycle"
	"mediconnect-server/internal/models"
	"mediconnect-server/internal/utils"
)

// PatientHandler handles the patient-facing side of the appointment and
// lab request lifecycle.
type PatientHandler struct {
	DB *gorm.DB
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

// DoctorCard is the flattened doctor listing shown on the booking page.
type DoctorCard struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Degree          string  `json:"degree"`
	Specialization  string  `json:"specialization"`
	ConsultationFee float64 `json:"consultationFee"`
	Bio             string  `json:"bio"`
	IsAvailable     bool    `json:"isAvailable"`
}

// SearchDoctors lists active doctors, optionally filtered by name or
// specialization.
func (h *PatientHandler) SearchDoctors(c *gin.Context) {
	name := c.Query("name")
	specialization := c.Query("specialization")

	var doctors []models.User
	query := h.DB.Preload("DoctorDetails").
		Where("role = ? AND status = ?", models.RoleDoctor, models.AccountActive)
	if name != "" {
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", "%"+name+"%", "%"+name+"%")
	}
	if err := query.Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to search doctors: "+err.Error())
		return
	}

	cards := make([]DoctorCard, 0, len(doctors))
	for _, doc := range doctors {
		if doc.DoctorDetails == nil {
			continue
		}
		if specialization != "" && doc.DoctorDetails.Specialization != specialization {
			continue
		}
		cards = append(cards, DoctorCard{
			ID:              doc.ID,
			Name:            doc.FirstName + " " + doc.LastName,
			Email:           doc.Email,
			Degree:          doc.DoctorDetails.Degree,
			Specialization:  doc.DoctorDetails.Specialization,
			ConsultationFee: doc.DoctorDetails.ConsultationFee,
			Bio:             doc.DoctorDetails.Bio,
			IsAvailable:     doc.DoctorDetails.IsAvailable,
		})
	}

	utils.Success(c, "Doctors fetched successfully", cards)
}

// BookAppointmentRequest represents the request body for booking an
// appointment. Date and Time are slot strings, not timestamps.
type BookAppointmentRequest struct {
	DoctorID string `json:"doctorId" binding:"required,uuid"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Time     string `json:"time" binding:"required,datetime=15:04"`
	Reason   string `json:"reason" binding:"required"`
}

// BookAppointment creates a new appointment in the pending state for the
// authenticated patient.
func (h *PatientHandler) BookAppointment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.User
	if err := h.DB.Where("id = ? AND role = ? AND status = ?",
		req.DoctorID, models.RoleDoctor, models.AccountActive).First(&doctor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found or not active")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}

	appointment := models.Appointment{
		PatientID: actor.ID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Status:    models.StatusPending,
	}
	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment requested successfully", appointment)
}

// CancelAppointment cancels a pending appointment owned by the patient.
func (h *PatientHandler) CancelAppointment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	next, err := lifecycle.NextAppointmentStatus(&appointment, actor, lifecycle.ApptCancel)
	if err != nil {
		utils.LifecycleError(c, err)
		return
	}

	appointment.Status = next
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to cancel appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// PayConsultation collects the consultation fee: a Payment to the doctor
// is written and the appointment moves to confirmed, inside one
// transaction. The amount always comes from the doctor's profile, never
// from the client.
func (h *PatientHandler) PayConsultation(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	next, err := lifecycle.NextAppointmentStatus(&appointment, actor, lifecycle.ApptPay)
	if err != nil {
		utils.LifecycleError(c, err)
		return
	}

	var details models.DoctorDetails
	if err := h.DB.Where("user_id = ?", appointment.DoctorID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor profile not found")
		} else {
			utils.InternalServerError(c, "Database error fetching doctor profile: "+err.Error())
		}
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		// The status write is conditional on the source state so a
		// concurrent double-pay loses here instead of double-charging.
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointment.ID, models.StatusPayNowConsultation).
			Updates(map[string]interface{}{
				"status":         next,
				"payment_status": models.PaymentPaid,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: appointment is no longer awaiting payment", lifecycle.ErrConflict)
		}

		payment := models.Payment{
			PatientID:     actor.ID,
			AppointmentID: &appointment.ID,
			Amount:        details.ConsultationFee,
			Payee:         models.PayeeDoctor,
			Status:        models.PaymentCompleted,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		utils.LifecycleError(c, err)
		return
	}

	utils.Success(c, "Payment successful. Appointment confirmed!", gin.H{
		"appointmentId": appointment.ID,
		"status":        next,
		"amount":        details.ConsultationFee,
	})
}

// GetMyAppointments lists the patient's appointments, newest first.
func (h *PatientHandler) GetMyAppointments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Preload("Doctor").Preload("Nurse").
		Where("patient_id = ?", actor.ID).
		Order("date desc, time desc").
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetLabSuggestions lists lab requests attached to the patient's
// appointments, in every state, so the dashboard can prompt for payment.
func (h *PatientHandler) GetLabSuggestions(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var requests []models.LabRequest
	if err := h.DB.Preload("Test").Preload("Appointment.Doctor").
		Joins("JOIN appointments ON appointments.id = lab_requests.appointment_id").
		Where("appointments.patient_id = ?", actor.ID).
		Find(&requests).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch lab suggestions: "+err.Error())
		return
	}

	utils.Success(c, "Lab suggestions fetched successfully", requests)
}

// LabResponseRequest represents the request body for responding to a
// suggested lab test.
type LabResponseRequest struct {
	Action string `json:"action" binding:"required,oneof=pay reject"`
}

// RespondToLabRequest lets the patient pay for or reject a suggested lab
// test. Paying writes a Payment to the hospital for the catalog fee and
// moves the request to paid, atomically.
func (h *PatientHandler) RespondToLabRequest(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req LabResponseRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var labRequest models.LabRequest
	if err := h.DB.Preload("Appointment").Preload("Test").
		First(&labRequest, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Lab request not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	next, err := lifecycle.NextLabRequestStatus(&labRequest, &labRequest.Appointment, actor, lifecycle.LabAction(req.Action))
	if err != nil {
		utils.LifecycleError(c, err)
		return
	}

	if next == models.LabRejectedByPatient {
		labRequest.Status = next
		if err := h.DB.Save(&labRequest).Error; err != nil {
			utils.InternalServerError(c, "Failed to update lab request: "+err.Error())
			return
		}
		utils.Success(c, "Lab test rejected.", labRequest)
		return
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.LabRequest{}).
			Where("id = ? AND status = ?", labRequest.ID, models.LabSuggested).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: lab request has already been processed", lifecycle.ErrConflict)
		}

		payment := models.Payment{
			PatientID:     actor.ID,
			AppointmentID: &labRequest.AppointmentID,
			LabRequestID:  &labRequest.ID,
			Amount:        labRequest.Test.Fee,
			Payee:         models.PayeeHospital,
			Status:        models.PaymentCompleted,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		utils.LifecycleError(c, err)
		return
	}

	utils.Success(c, "Payment successful. Nurse will be notified.", gin.H{
		"labRequestId": labRequest.ID,
		"status":       next,
		"amount":       labRequest.Test.Fee,
	})
}

// GetPrescriptions lists the patient's prescriptions together with the
// lab work ordered on the same appointment.
func (h *PatientHandler) GetPrescriptions(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var prescriptions []models.Prescription
	if err := h.DB.Preload("Appointment.Doctor").Preload("Appointment.LabRequests.Test").
		Joins("JOIN appointments ON appointments.id = prescriptions.appointment_id").
		Where("appointments.patient_id = ?", actor.ID).
		Find(&prescriptions).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch prescriptions: "+err.Error())
		return
	}

	utils.Success(c, "Prescriptions fetched successfully", prescriptions)
}
