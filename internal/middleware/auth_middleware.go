package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
)

// AuthMiddleware validates access tokens
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth requires a valid token in the Authorization header or, for websocket
// clients that cannot set headers, in the token query parameter.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			HandleAPIError(c, apperrors.ErrTokenInvalid)
			return
		}

		tokenString, err := auth.ExtractBearerToken(raw)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// GetUserIDFromContext returns the authenticated user's id
func GetUserIDFromContext(c *gin.Context) (int64, error) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, apperrors.ErrTokenInvalid
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, apperrors.ErrTokenInvalid
	}
	return id, nil
}
