package middleware

import (
	"errors"

	"disasterconnect-http-service/internal/domain/services"
	"disasterconnect-http-service/internal/error/code"
	"disasterconnect-http-service/internal/error/response"
	Logger "disasterconnect-http-service/internal/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware
const (
	UserIDKey  = "userID"
	AdminIDKey = "adminID"
)

// RequireUser rejects requests without a user session
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetSession(c).UserID()
		if !ok {
			response.Fail(c, code.ErrSessionRequired)
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequireAdmin rejects requests without an admin session referencing an
// existing admin. A session pointing at a deleted admin is cleared.
func RequireAdmin(admins services.InterfaceAdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		adminID, ok := session.AdminID()
		if !ok {
			response.Fail(c, code.ErrAdminRequired)
			return
		}

		if _, err := admins.GetAdminByID(adminID); err != nil {
			if errors.Is(err, services.ErrAdminNotFound) {
				session.ClearAdmin()
				if err := session.Save(c); err != nil {
					Logger.FromContext(c.Request.Context()).WithError(err).Error("could not clear admin session")
				}
				response.Fail(c, code.ErrAdminRequired)
				return
			}
			response.Fail(c, code.ErrDatabase)
			return
		}

		c.Set(AdminIDKey, adminID)
		c.Next()
	}
}
