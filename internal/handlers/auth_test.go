package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect-server/internal/models"
)

func registerBody(role, email string) map[string]interface{} {
	return map[string]interface{}{
		"firstName": "Alex",
		"lastName":  "Morgan",
		"email":     email,
		"password":  "password123",
		"role":      role,
	}
}

func TestRegisterPatientIsActiveImmediately(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, nil)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("patient", "alex@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "alex@example.com").Error)
	assert.Equal(t, models.RolePatient, user.Role)
	assert.Equal(t, models.AccountActive, user.Status)
	assert.NotEqual(t, "password123", user.Password)

	w = performJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alex@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login LoginResponse
	resp := decodeResponse(t, w)
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, "alex@example.com", login.User.Email)
}

func TestRegisterStaffStartsPending(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, nil)

	body := registerBody("doctor", "doc@example.com")
	body["specialization"] = "Cardiology"
	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, db.Preload("DoctorDetails").First(&user, "email = ?", "doc@example.com").Error)
	assert.Equal(t, models.AccountPending, user.Status)
	require.NotNil(t, user.DoctorDetails)
	assert.Equal(t, "Cardiology", user.DoctorDetails.Specialization)

	// Pending accounts cannot log in, even with correct credentials.
	w = performJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "doc@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterNurseCreatesProfile(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, nil)

	body := registerBody("nurse", "nurse@example.com")
	body["department"] = "Radiology"
	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var details models.NurseDetails
	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "nurse@example.com").Error)
	require.NoError(t, db.First(&details, "user_id = ?", user.ID).Error)
	assert.Equal(t, "Radiology", details.Department)
	assert.True(t, details.IsAvailable)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, nil)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("admin", "root@example.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, nil)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("patient", "dup@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)
	w = performJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody("patient", "dup@example.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	seedPatient(t, db)
	router := newTestRouter(db, nil)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginDisabledAccount(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, models.RolePatient, models.AccountDisabled)
	router := newTestRouter(db, nil)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    user.Email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	db := setupTestDB(t)
	user := seedPatient(t, db)
	router := newTestRouter(db, nil)

	w := performJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    user.Email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(decodeResponse(t, w).Data, &login))

	w = performJSON(t, router, http.MethodPost, "/api/v1/auth/refresh-token", map[string]string{
		"refreshToken": login.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var refreshed RefreshTokenResponse
	require.NoError(t, json.Unmarshal(decodeResponse(t, w).Data, &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	// The consumed token is revoked and cannot be replayed.
	w = performJSON(t, router, http.MethodPost, "/api/v1/auth/refresh-token", map[string]string{
		"refreshToken": login.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	user := seedPatient(t, db)
	public := newTestRouter(db, nil)

	w := performJSON(t, public, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    user.Email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(decodeResponse(t, w).Data, &login))

	private := newTestRouter(db, user)
	w = performJSON(t, private, http.MethodPost, "/api/v1/auth/logout", map[string]string{
		"refreshToken": login.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(t, public, http.MethodPost, "/api/v1/auth/refresh-token", map[string]string{
		"refreshToken": login.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetProfileIncludesRoleDetails(t *testing.T) {
	db := setupTestDB(t)
	doctor := seedDoctor(t, db, 600)
	router := newTestRouter(db, doctor)

	w := performJSON(t, router, http.MethodGet, "/api/v1/auth/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload struct {
		User          models.UserSanitized  `json:"user"`
		DoctorDetails *models.DoctorDetails `json:"doctorDetails"`
	}
	require.NoError(t, json.Unmarshal(decodeResponse(t, w).Data, &payload))
	assert.Equal(t, doctor.Email, payload.User.Email)
	require.NotNil(t, payload.DoctorDetails)
	assert.Equal(t, 600.0, payload.DoctorDetails.ConsultationFee)
}
