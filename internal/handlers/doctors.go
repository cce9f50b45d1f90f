package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mediconnect-server/internal/lifecycle"
	"mediconnect-server/internal/models"
	"mediconnect-server/internal/utils"
)

// DoctorHandler handles the doctor-facing side of the lifecycle:
// triaging requests, assigning nurses and writing consultations.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// GetPendingAppointments lists booking requests waiting for this doctor's
// accept/reject decision.
func (h *DoctorHandler) GetPendingAppointments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Preload("Patient").
		Where("doctor_id = ? AND status = ?", actor.ID, models.StatusPending).
		Order("date asc, time asc").
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch pending appointments: "+err.Error())
		return
	}

	utils.Success(c, "Pending appointments fetched successfully", appointments)
}

// AppointmentResponseRequest represents the request body for responding
// to a booking request.
type AppointmentResponseRequest struct {
	Action string `json:"action" binding:"required,oneof=accept reject"`
}

// RespondToAppointment accepts or rejects a pending booking request.
// Accepting pushes the appointment to the patient for payment.
func (h *DoctorHandler) RespondToAppointment(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req AppointmentResponseRequest
	if !utils.BindAndValidate(c, &req) {
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

	action := lifecycle.ApptAccept
	if req.Action == "reject" {
		action = lifecycle.ApptReject
	}
	next, err := lifecycle.NextAppointmentStatus(&appointment, actor, action)
	if err != nil {
		utils.LifecycleError(c, err)
		return
	}

	appointment.Status = next
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}

	if next == models.StatusPayNowConsultation {
		utils.Success(c, "Appointment accepted. Waiting for patient payment.", appointment)
	} else {
		utils.Success(c, "Appointment rejected.", appointment)
	}
}

// GetAppointmentsAwaitingNurse lists paid appointments that have no
// nurse yet.
func (h *DoctorHandler) GetAppointmentsAwaitingNurse(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Preload("Patient").
		Where("doctor_id = ? AND status = ? AND nurse_id IS NULL", actor.ID, models.StatusConfirmed).
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments awaiting a nurse: "+err.Error())
		return
	}

	utils.Success(c, "Appointments awaiting nurse fetched successfully", appointments)
}

// NurseCard is the nurse listing shown on the assignment page.
type NurseCard struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// GetAvailableNurses lists nurses free to take an assignment at the
// given slot: profile toggle on, account active, and no other confirmed
// appointment at that exact date+time. An optional department filter
// narrows the set. Pure query over current data, re-evaluated per call.
func (h *DoctorHandler) GetAvailableNurses(c *gin.Context) {
	date := c.Query("date")
	timeSlot := c.Query("time")
	department := c.Query("department")

	if date == "" || timeSlot == "" {
		utils.BadRequest(c, "Missing parameters: 'date' and 'time' are required.")
		return
	}

	busy := h.DB.Model(&models.Appointment{}).Select("nurse_id").
		Where("date = ? AND time = ? AND status = ? AND nurse_id IS NOT NULL",
			date, timeSlot, models.StatusConfirmed)

	query := h.DB.Preload("NurseDetails").
		Where("role = ? AND status = ?", models.RoleNurse, models.AccountActive).
		Where("id NOT IN (?)", busy)

	var nurses []models.User
	if err := query.Find(&nurses).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch nurses: "+err.Error())
		return
	}

	cards := make([]NurseCard, 0, len(nurses))
	for _, nurse := range nurses {
		if nurse.NurseDetails == nil || !nurse.NurseDetails.IsAvailable {
			continue
		}
		if department != "" && nurse.NurseDetails.Department != department {
			continue
		}
		cards = append(cards, NurseCard{
			ID:         nurse.ID,
			Name:       nurse.FirstName + " " + nurse.LastName,
			Department: nurse.NurseDetails.Department,
		})
	}

	utils.Success(c, "Available nurses fetched successfully", cards)
}

// AssignNurseRequest represents the request body for assigning a nurse.
type AssignNurseRequest struct {
	NurseID string `json:"nurseId" binding:"required,uuid"`
}

// AssignNurse assigns a nurse to a confirmed, paid appointment. The
// nurse must be available and free at the appointment's slot.
func (h *DoctorHandler) AssignNurse(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req AssignNurseRequest
	if !utils.BindAndValidate(c, &req) {
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

	if _, err := lifecycle.NextAppointmentStatus(&appointment, actor, lifecycle.ApptAssignNurse); err != nil {
		utils.LifecycleError(c, err)
		return
	}

	var nurse models.User
	if err := h.DB.Preload("NurseDetails").
		Where("id = ? AND role = ? AND status = ?", req.NurseID, models.RoleNurse, models.AccountActive).
		First(&nurse).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Nurse not found or not active")
		} else {
			utils.InternalServerError(c, "Database error verifying nurse: "+err.Error())
		}
		return
	}
	if nurse.NurseDetails == nil {
		utils.NotFound(c, "Nurse profile not found")
		return
	}

	var clashes int64
	if err := h.DB.Model(&models.Appointment{}).
		Where("nurse_id = ? AND date = ? AND time = ? AND status = ?",
			req.NurseID, appointment.Date, appointment.Time, models.StatusConfirmed).
		Count(&clashes).Error; err != nil {
		utils.InternalServerError(c, "Database error checking nurse schedule: "+err.Error())
		return
	}

	if err := lifecycle.CheckNurseAssignable(nurse.NurseDetails, clashes > 0); err != nil {
		utils.LifecycleError(c, err)
		return
	}

	appointment.NurseID = &req.NurseID
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to assign nurse: "+err.Error())
		return
	}

	utils.Success(c, "Nurse assigned successfully.", appointment)
}

// GetSchedule lists the doctor's confirmed, nurse-assigned appointments
// in slot order.
func (h *DoctorHandler) GetSchedule(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Preload("Patient").Preload("Nurse").
		Where("doctor_id = ? AND status = ? AND nurse_id IS NOT NULL", actor.ID, models.StatusConfirmed).
		Order("date asc, time asc").
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch schedule: "+err.Error())
		return
	}

	utils.Success(c, "Schedule fetched successfully", appointments)
}

// InitialConsultationRequest represents the request body for recording
// the first consultation write-up.
type InitialConsultationRequest struct {
	AppointmentID string   `json:"appointmentId" binding:"required,uuid"`
	Diagnosis     string   `json:"diagnosis" binding:"required"`
	Medications   string   `json:"medications"`
	Instructions  string   `json:"instructions"`
	LabTestIDs    []string `json:"labTestIds" binding:"omitempty,dive,uuid"`
}

// InitialConsultation records the diagnosis and optionally orders lab
// tests. The prescription draft and the suggested lab requests are
// created in one transaction; the appointment stays confirmed until the
// doctor finalizes.
func (h *DoctorHandler) InitialConsultation(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req InitialConsultationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", req.AppointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if appointment.DoctorID != actor.ID {
		utils.LifecycleError(c, fmt.Errorf("%w: you are not the doctor on this appointment", lifecycle.ErrForbidden))
		return
	}
	if appointment.Status != models.StatusConfirmed {
		utils.LifecycleError(c, fmt.Errorf("%w: appointment is %s, consultations can only be recorded while it is %s",
			lifecycle.ErrConflict, appointment.Status, models.StatusConfirmed))
		return
	}

	var existing models.Prescription
	if err := h.DB.Where("appointment_id = ?", appointment.ID).First(&existing).Error; err == nil {
		utils.LifecycleError(c, fmt.Errorf("%w: a consultation has already been recorded for this appointment", lifecycle.ErrConflict))
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	// Only active catalog entries can be ordered.
	var tests []models.LabTest
	if len(req.LabTestIDs) > 0 {
		if err := h.DB.Where("id IN ? AND status = ?", req.LabTestIDs, models.LabTestActive).Find(&tests).Error; err != nil {
			utils.InternalServerError(c, "Database error fetching lab tests: "+err.Error())
			return
		}
		if len(tests) != len(req.LabTestIDs) {
			utils.BadRequest(c, "One or more lab tests were not found or are inactive")
			return
		}
	}

	prescription := models.Prescription{
		AppointmentID: appointment.ID,
		Diagnosis:     req.Diagnosis,
		Medications:   req.Medications,
		Instructions:  req.Instructions,
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&prescription).Error; err != nil {
			return err
		}
		for _, test := range tests {
			labRequest := models.LabRequest{
				AppointmentID: appointment.ID,
				TestID:        test.ID,
				Status:        models.LabSuggested,
			}
			if err := tx.Create(&labRequest).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to record consultation: "+err.Error())
		return
	}

	utils.Created(c, "Initial checkup complete. Lab tests suggested.", prescription)
}

// FinalizeConsultationRequest represents the request body for finalizing
// a consultation.
type FinalizeConsultationRequest struct {
	Medications  string `json:"medications"`
	Instructions string `json:"instructions"`
}

// FinalizeConsultation merges the final medications and instructions
// into the prescription and moves the appointment to completed, as one
// atomic unit.
func (h *DoctorHandler) FinalizeConsultation(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req FinalizeConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("appointmentId")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	next, err := lifecycle.NextAppointmentStatus(&appointment, actor, lifecycle.ApptFinalize)
	if err != nil {
		utils.LifecycleError(c, err)
		return
	}

	var prescription models.Prescription
	if err := h.DB.Where("appointment_id = ?", appointment.ID).First(&prescription).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Prescription record not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Medications != "" {
		prescription.Medications = req.Medications
	}
	if req.Instructions != "" {
		prescription.Instructions = req.Instructions
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&prescription).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Appointment{}).
			Where("id = ? AND status = ?", appointment.ID, models.StatusConfirmed).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: appointment is no longer open for consultation", lifecycle.ErrConflict)
		}
		return nil
	})
	if err != nil {
		utils.LifecycleError(c, err)
		return
	}

	utils.Success(c, "Consultation finalized and appointment completed.", prescription)
}

// GetEarnings sums the completed consultation payments collected for
// this doctor's appointments.
func (h *DoctorHandler) GetEarnings(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	appointmentIDs := h.DB.Model(&models.Appointment{}).Select("id").Where("doctor_id = ?", actor.ID)

	var total float64
	if err := h.DB.Model(&models.Payment{}).
		Where("payee = ? AND status = ?", models.PayeeDoctor, models.PaymentCompleted).
		Where("appointment_id IN (?)", appointmentIDs).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to calculate earnings: "+err.Error())
		return
	}

	utils.Success(c, "Earnings fetched successfully", gin.H{"earnings": total})
}

// UpdateDoctorProfileRequest represents the request body for updating
// the doctor's professional profile.
type UpdateDoctorProfileRequest struct {
	Degree          string   `json:"degree"`
	Specialization  string   `json:"specialization"`
	ConsultationFee *float64 `json:"consultationFee" binding:"omitempty,gte=0"`
	Bio             string   `json:"bio"`
	IsAvailable     *bool    `json:"isAvailable"`
}

// UpdateProfile updates the doctor's professional profile, including the
// consultation fee charged on future payments.
func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req UpdateDoctorProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var details models.DoctorDetails
	if err := h.DB.Where("user_id = ?", actor.ID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Degree != "" {
		details.Degree = req.Degree
	}
	if req.Specialization != "" {
		details.Specialization = req.Specialization
	}
	if req.ConsultationFee != nil {
		details.ConsultationFee = *req.ConsultationFee
	}
	if req.Bio != "" {
		details.Bio = req.Bio
	}
	if req.IsAvailable != nil {
		details.IsAvailable = *req.IsAvailable
	}

	if err := h.DB.Save(&details).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	utils.Success(c, "Profile updated successfully", details)
}
