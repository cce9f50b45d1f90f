package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"mediconnect-server/internal/config"
	"mediconnect-server/internal/middleware"
	"mediconnect-server/internal/models"
	"mediconnect-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// RegisterRequest represents the request body for user registration.
// Admin accounts cannot be self-registered.
type RegisterRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Role           string `json:"role" binding:"required,oneof=patient doctor nurse"`
	Specialization string `json:"specialization"`
	Department     string `json:"department"`
	PhoneNumber    string `json:"phoneNumber"`
	Gender         string `json:"gender"`
}

// Register handles user registration. Patients are activated immediately;
// doctors and nurses start pending until an admin approves them, and get
// a role profile row created alongside the account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "User with this email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	role := models.Role(req.Role)
	status := models.AccountPending
	if role == models.RolePatient {
		status = models.AccountActive
	}

	user := models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Role:        role,
		Status:      status,
		PhoneNumber: req.PhoneNumber,
		Gender:      req.Gender,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	// The account and its role profile are created together.
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		switch role {
		case models.RoleDoctor:
			details := models.DoctorDetails{UserID: user.ID}
			if req.Specialization != "" {
				details.Specialization = req.Specialization
			}
			return tx.Create(&details).Error
		case models.RoleNurse:
			details := models.NurseDetails{UserID: user.ID}
			if req.Department != "" {
				details.Department = req.Department
			}
			return tx.Create(&details).Error
		}
		return nil
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	utils.Created(c, "User registered successfully", user.Sanitize())
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	User         models.UserSanitized `json:"user"`
}

// Login handles user login. Pending and disabled accounts are rejected
// even with correct credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	switch user.Status {
	case models.AccountPending:
		utils.Forbidden(c, "Account is pending approval. Please contact an administrator.")
		return
	case models.AccountDisabled:
		utils.Forbidden(c, "Account is disabled.")
		return
	}

	accessToken, refreshTokenString, err := utils.GenerateTokens(&user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
	}
	if err := h.DB.Create(&refreshToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user.Sanitize(),
	})
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResponse represents the response body for successful token refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates a refresh token: the old one is revoked and a new
// pair is issued.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	var storedToken models.RefreshToken
	if err := h.DB.Where("token = ? AND user_id = ? AND is_revoked = ? AND expires_at > ?",
		req.RefreshToken, claims.UserID, false, time.Now()).First(&storedToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		} else {
			utils.InternalServerError(c, "Database error checking refresh token: "+err.Error())
		}
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		utils.InternalServerError(c, "Failed to find user associated with token: "+err.Error())
		return
	}

	storedToken.IsRevoked = true
	if err := h.DB.Save(&storedToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to revoke old refresh token: "+err.Error())
		return
	}

	newAccessToken, newRefreshTokenString, err := utils.GenerateTokens(&user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate new tokens: "+err.Error())
		return
	}

	newRefreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     newRefreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
	}
	if err := h.DB.Create(&newRefreshToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to store new refresh token: "+err.Error())
		return
	}

	utils.Success(c, "Access token refreshed successfully", RefreshTokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshTokenString,
	})
}

// LogoutRequest represents the request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Logout revokes the supplied refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var storedToken models.RefreshToken
	if err := h.DB.Where("token = ? AND is_revoked = ?", req.RefreshToken, false).First(&storedToken).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Already revoked or never existed; logout still succeeds.
			utils.Success(c, "Logout successful", nil)
		} else {
			utils.InternalServerError(c, "Database error during logout: "+err.Error())
		}
		return
	}

	storedToken.IsRevoked = true
	storedToken.ExpiresAt = time.Now()
	if err := h.DB.Save(&storedToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}

	utils.Success(c, "Logout successful. Refresh token has been invalidated.", nil)
}

// GetProfile handles fetching the currently authenticated user's profile,
// including the role profile for doctors and nurses.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.Preload("DoctorDetails").Preload("NurseDetails").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "User profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Profile fetched successfully", gin.H{
		"user":          user.Sanitize(),
		"doctorDetails": user.DoctorDetails,
		"nurseDetails":  user.NurseDetails,
	})
}

// UpdateProfileRequest represents the request body for updating user profile.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateProfile handles updating the currently authenticated user's profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}

	if err := h.DB.Save(&user).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}

	utils.Success(c, "Profile updated successfully", user.Sanitize())
}
