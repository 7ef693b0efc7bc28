// Package middleware provides Gin middleware for authentication, error
// mapping, validation and rate limiting.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/burakc/scholarhub/internal/app/models"
	"github.com/burakc/scholarhub/internal/app/models/dto"
	"github.com/burakc/scholarhub/internal/pkg/apperrors"
	"github.com/burakc/scholarhub/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextUserRole = "roleType"
	ContextUser     = "currentUser"
)

// UserLoader resolves the authenticated user record on each request so that
// role, approval and block state are always current rather than read from
// token claims.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthMiddleware handles authentication and role checks
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      UserLoader
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, users UserLoader) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService, users: users}
}

func unauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
	c.Abort()
}

// JWTAuth validates the bearer token, loads the user and aborts blocked
// accounts. The loaded user is stored on the context for handlers.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			unauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing or malformed")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, apperrors.ErrTokenExpired) {
				unauthorized(c, dto.ErrorCodeExpiredToken, "Token expired")
				return
			}
			unauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		user, err := m.users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			unauthorized(c, dto.ErrorCodeUnauthorized, "Account no longer exists")
			return
		}
		if user.Blocked {
			c.JSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeAccountBlocked, "Account is blocked")))
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, string(user.RoleType))
		c.Set(ContextUser, user)
		c.Next()
	}
}

// AdminRequired allows only approved ADMIN or SUPER_ADMIN accounts
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.CanAdministrate() {
			c.JSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeForbidden, "Administrator access required")))
			c.Abort()
			return
		}
		c.Next()
	}
}

// SuperAdminRequired allows only SUPER_ADMIN accounts
func (m *AuthMiddleware) SuperAdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.RoleType != models.RoleSuperAdmin || user.Blocked {
			c.JSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeForbidden, "Super administrator access required")))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user loaded by JWTAuth, or nil outside it
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUser)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentUserID returns the authenticated user ID, or 0 outside JWTAuth
func CurrentUserID(c *gin.Context) int64 {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0
	}
	id, ok := value.(int64)
	if !ok {
		return 0
	}
	return id
}
