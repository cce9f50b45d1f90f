package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediconnect-server/internal/config"
	"mediconnect-server/internal/models"
)

func tokenConfig() *config.Config {
	return &config.Config{
		JWTSecret:                 "access-secret",
		JWTRefreshSecret:          "refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 24,
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	cfg := tokenConfig()
	user := &models.User{Role: models.RoleDoctor}
	user.ID = "user-123"

	access, refresh, err := GenerateTokens(user, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateToken(access, cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, models.RoleDoctor, claims.Role)

	claims, err = ValidateToken(refresh, cfg.JWTRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	cfg := tokenConfig()
	user := &models.User{Role: models.RolePatient}
	user.ID = "user-123"

	access, _, err := GenerateTokens(user, cfg)
	require.NoError(t, err)

	_, err = ValidateToken(access, "some-other-secret")
	assert.Error(t, err)

	// An access token must not pass as a refresh token.
	_, err = ValidateToken(access, cfg.JWTRefreshSecret)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "access-secret")
	assert.Error(t, err)
}
