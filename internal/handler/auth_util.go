package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/middleware"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/service"
)

// AuthData holds what the auth middleware put in the Gin context
type AuthData struct {
	UserID uuid.UUID
	Roles  []string
	Token  string
}

// Actor converts the auth data into the caller identity used by the issue service
func (a AuthData) Actor() service.Actor {
	return service.Actor{UserID: a.UserID, Roles: a.Roles}
}

// ExtractAuthData reads user_id, roles and jwtToken from the Gin context.
// On failure a 401 has already been written.
func ExtractAuthData(c *gin.Context) (AuthData, bool) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in context")
		return AuthData{}, false
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid user ID format")
		return AuthData{}, false
	}

	var roles []string
	if v, exists := c.Get(middleware.ContextRoles); exists {
		held, _ := v.([]domain.Role)
		roles = make([]string, 0, len(held))
		for _, r := range held {
			roles = append(roles, string(r))
		}
	}

	token, _ := c.Get(middleware.ContextToken)
	tokenStr, _ := token.(string)

	return AuthData{UserID: userUUID, Roles: roles, Token: tokenStr}, true
}
