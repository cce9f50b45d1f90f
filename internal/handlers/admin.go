package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mediconnect-server/internal/models"
	"mediconnect-server/internal/utils"
)

// AdminHandler handles user approval, the lab test catalog and the
// hospital-side reporting.
type AdminHandler struct {
	DB *gorm.DB
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// GetPendingApprovals lists staff accounts awaiting approval.
func (h *AdminHandler) GetPendingApprovals(c *gin.Context) {
	var users []models.User
	if err := h.DB.Where("status = ?", models.AccountPending).
		Order("created_at asc").
		Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch pending approvals: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitize()
	}
	utils.Success(c, "Pending approvals fetched successfully", sanitized)
}

// GetAllUsers lists every account for the user management table.
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("created_at desc").Find(&users).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch users: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitize()
	}
	utils.Success(c, "Users fetched successfully", sanitized)
}

// UserStatusRequest represents the request body for approving or
// disabling an account.
type UserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active disabled"`
}

// UpdateUserStatus approves or disables an account. The flag only gates
// login; it is not part of the appointment state machine.
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	var req UserStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	user.Status = models.AccountStatus(req.Status)
	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update user status: "+err.Error())
		return
	}

	utils.Success(c, "User status updated to "+req.Status, user.Sanitize())
}

// GetLabTests lists the whole catalog, including inactive entries.
func (h *AdminHandler) GetLabTests(c *gin.Context) {
	var tests []models.LabTest
	if err := h.DB.Order("name asc").Find(&tests).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch lab tests: "+err.Error())
		return
	}
	utils.Success(c, "Lab tests fetched successfully", tests)
}

// CreateLabTestRequest represents the request body for adding a catalog entry.
type CreateLabTestRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Fee         float64 `json:"fee" binding:"required,gt=0"`
}

// CreateLabTest adds a new lab test to the catalog.
func (h *AdminHandler) CreateLabTest(c *gin.Context) {
	var req CreateLabTestRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	test := models.LabTest{
		Name:        req.Name,
		Description: req.Description,
		Fee:         req.Fee,
		Status:      models.LabTestActive,
	}
	if err := h.DB.Create(&test).Error; err != nil {
		utils.InternalServerError(c, "Failed to add lab test: "+err.Error())
		return
	}

	utils.Created(c, "Lab test added to catalog", test)
}

// UpdateLabTestRequest represents the request body for editing a catalog
// entry. All fields are optional; only provided ones are changed.
type UpdateLabTestRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Fee         *float64 `json:"fee" binding:"omitempty,gt=0"`
	Status      string   `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateLabTest edits a catalog entry's fee, description or status.
// Fee changes only affect future payments; existing ledger entries are
// never touched.
func (h *AdminHandler) UpdateLabTest(c *gin.Context) {
	var req UpdateLabTestRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var test models.LabTest
	if err := h.DB.First(&test, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Lab test not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Name != "" {
		test.Name = req.Name
	}
	if req.Description != "" {
		test.Description = req.Description
	}
	if req.Fee != nil {
		test.Fee = *req.Fee
	}
	if req.Status != "" {
		test.Status = models.LabTestStatus(req.Status)
	}

	if err := h.DB.Save(&test).Error; err != nil {
		utils.InternalServerError(c, "Failed to update lab test: "+err.Error())
		return
	}

	utils.Success(c, "Lab test updated successfully.", test)
}

// GetStats returns the dashboard head-counts per role.
func (h *AdminHandler) GetStats(c *gin.Context) {
	var patients, doctors, nurses int64
	for _, count := range []struct {
		role models.Role
		dest *int64
	}{
		{models.RolePatient, &patients},
		{models.RoleDoctor, &doctors},
		{models.RoleNurse, &nurses},
	} {
		if err := h.DB.Model(&models.User{}).Where("role = ?", count.role).Count(count.dest).Error; err != nil {
			utils.InternalServerError(c, "Failed to fetch statistics: "+err.Error())
			return
		}
	}

	utils.Success(c, "Statistics fetched successfully", gin.H{
		"patients": patients,
		"doctors":  doctors,
		"nurses":   nurses,
	})
}

// GetHospitalEarnings sums the completed lab test payments collected for
// the hospital.
func (h *AdminHandler) GetHospitalEarnings(c *gin.Context) {
	var total float64
	if err := h.DB.Model(&models.Payment{}).
		Where("payee = ? AND status = ?", models.PayeeHospital, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch hospital earnings: "+err.Error())
		return
	}

	utils.Success(c, "Hospital earnings fetched successfully", gin.H{"earnings": total})
}
