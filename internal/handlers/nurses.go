package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mediconnect-server/internal/lifecycle"
	"mediconnect-server/internal/models"
	"mediconnect-server/internal/utils"
)

// NurseHandler handles the nurse-facing side of the lifecycle: assigned
// visits and lab result submission.
type NurseHandler struct {
	DB *gorm.DB
}

// NewNurseHandler creates a new NurseHandler.
func NewNurseHandler(db *gorm.DB) *NurseHandler {
	return &NurseHandler{DB: db}
}

// GetAssignedAppointments lists the confirmed appointments this nurse
// has been assigned to, in slot order.
func (h *NurseHandler) GetAssignedAppointments(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := h.DB.Preload("Patient").Preload("Doctor").
		Where("nurse_id = ? AND status = ?", actor.ID, models.StatusConfirmed).
		Order("date asc, time asc").
		Find(&appointments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch assigned appointments: "+err.Error())
		return
	}

	utils.Success(c, "Assigned appointments fetched successfully", appointments)
}

// GetLabRequests lists an appointment's lab requests that are ready for
// the nurse: paid or already completed. Suggested and rejected tests
// never reach this queue.
func (h *NurseHandler) GetLabRequests(c *gin.Context) {
	var requests []models.LabRequest
	if err := h.DB.Preload("Test").
		Where("appointment_id = ? AND status IN ?", c.Param("id"),
			[]models.LabRequestStatus{models.LabPaid, models.LabCompleted}).
		Find(&requests).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch lab requests: "+err.Error())
		return
	}

	utils.Success(c, "Lab requests fetched successfully", requests)
}

// LabResultRequest represents the request body for submitting a lab result.
type LabResultRequest struct {
	Result string `json:"result" binding:"required"`
}

// SubmitLabResult stores the findings for a paid lab request and marks
// it completed. Unpaid tests are rejected; the hospital must have been
// paid first.
func (h *NurseHandler) SubmitLabResult(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req LabResultRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var labRequest models.LabRequest
	if err := h.DB.First(&labRequest, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Lab request not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	next, err := lifecycle.NextLabRequestStatus(&labRequest, nil, actor, lifecycle.LabWriteResult)
	if err != nil {
		utils.LifecycleError(c, err)
		return
	}

	labRequest.Result = req.Result
	labRequest.Status = next
	if err := h.DB.Save(&labRequest).Error; err != nil {
		utils.InternalServerError(c, "Failed to store lab result: "+err.Error())
		return
	}

	utils.Success(c, "Lab report uploaded successfully.", labRequest)
}

// AvailabilityRequest represents the request body for the availability toggle.
type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

// ToggleAvailability flips the nurse's dashboard availability switch,
// which the nurse availability query consults.
func (h *NurseHandler) ToggleAvailability(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req AvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var details models.NurseDetails
	if err := h.DB.Where("user_id = ?", actor.ID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Nurse profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	details.IsAvailable = *req.IsAvailable
	if err := h.DB.Save(&details).Error; err != nil {
		utils.InternalServerError(c, "Failed to update availability: "+err.Error())
		return
	}

	utils.Success(c, "Availability updated successfully", details)
}
