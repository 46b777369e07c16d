package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/response"
)

// Context keys set by the auth middlewares
const (
	ContextUserID = "user_id"
	ContextRoles  = "roles"
	ContextToken  = "jwtToken"
)

// TokenValidator validates a bearer token against the auth service
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, []domain.Role, error)
}

// AuthWithValidator validates tokens through the auth service, so revoked
// tokens are rejected
func AuthWithValidator(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		userID, roles, err := validator.ValidateToken(ctx, tokenString)
		if err != nil {
			unauthorized(c, "Invalid or expired token", "유효하지 않거나 만료된 토큰입니다")
			return
		}

		setIdentity(c, userID, roles, tokenString)
		c.Next()
	}
}

// Auth validates HMAC-signed tokens locally
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid or expired token", "유효하지 않거나 만료된 토큰입니다")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "Invalid token claims", "유효하지 않은 토큰 정보입니다")
			return
		}

		// user_id, then sub (OAuth), then uid
		var userIDStr string
		for _, key := range []string{"user_id", "sub", "uid"} {
			if v, ok := claims[key].(string); ok && v != "" {
				userIDStr = v
				break
			}
		}
		if userIDStr == "" {
			unauthorized(c, "User ID not found in token", "토큰에서 사용자 ID를 찾을 수 없습니다")
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			unauthorized(c, "Invalid user ID format", "유효하지 않은 사용자 ID 형식입니다")
			return
		}

		setIdentity(c, userID, RolesFromClaim(claims["roles"]), tokenString)
		c.Next()
	}
}

// RolesFromClaim reads the roles claim, either a JSON array of strings or a
// comma separated string. System roles are dropped: they are resolved per
// issue and never trusted from a token.
func RolesFromClaim(v interface{}) []domain.Role {
	var raw []string
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = t
	case string:
		raw = strings.Split(t, ",")
	}

	roles := make([]domain.Role, 0, len(raw))
	for _, s := range raw {
		role := domain.Role(strings.TrimSpace(s))
		switch role {
		case "", domain.RoleAnyone, domain.RoleAuthor, domain.RoleResponsible:
			continue
		}
		roles = append(roles, role)
	}
	return roles
}

// RequireRole lets through only principals holding role. It must run after
// one of the auth middlewares.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, _ := c.Get(ContextRoles)
		held, _ := roles.([]domain.Role)
		for _, r := range held {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorResponse{
			Error:   response.ErrorDetail{Code: response.ErrCodeForbidden, Message: "Role " + string(role) + " is required"},
			Message: "권한이 없습니다",
		})
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		unauthorized(c, "Authorization header is required", "인증이 필요합니다")
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		unauthorized(c, "Invalid authorization header format", "잘못된 인증 헤더 형식입니다")
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, userID uuid.UUID, roles []domain.Role, token string) {
	c.Set(ContextUserID, userID)
	c.Set(ContextRoles, roles)
	c.Set(ContextToken, token)
}

func unauthorized(c *gin.Context, message, userMessage string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorResponse{
		Error:   response.ErrorDetail{Code: response.ErrCodeUnauthorized, Message: message},
		Message: userMessage,
	})
}
