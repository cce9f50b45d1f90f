package handlers

import (
	"github.com/gin-gonic/gin"

	"mediconnect-server/internal/lifecycle"
	"mediconnect-server/internal/middleware"
	"mediconnect-server/internal/utils"
)

// actorFromContext builds the lifecycle actor from the authenticated
// request. Lifecycle calls take this explicitly instead of reading
// ambient request state.
func actorFromContext(c *gin.Context) (lifecycle.Actor, bool) {
	userID, okID := middleware.GetUserIDFromContext(c)
	role, okRole := middleware.GetUserRoleFromContext(c)
	if !okID || !okRole {
		utils.Unauthorized(c, "User not authenticated")
		return lifecycle.Actor{}, false
	}
	return lifecycle.Actor{ID: userID, Role: role}, true
}
