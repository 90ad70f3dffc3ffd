package middleware

import (
	apperrors "storefront-client/errors"
	"storefront-client/models"

	"github.com/gin-gonic/gin"
)

// SessionGate is the read side of the session the guards need
type SessionGate interface {
	IsAuthenticated() bool
	IsFarmer() bool
	IsCustomer() bool
}

// RequireSession rejects requests while nobody is logged in
func RequireSession(session SessionGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsAuthenticated() {
			c.AbortWithStatusJSON(apperrors.ErrNotLoggedIn.Code, apperrors.ErrNotLoggedIn)
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests unless the logged-in user has role
func RequireRole(session SessionGate, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsAuthenticated() {
			c.AbortWithStatusJSON(apperrors.ErrNotLoggedIn.Code, apperrors.ErrNotLoggedIn)
			return
		}

		allowed := false
		switch role {
		case models.RoleFarmer:
			allowed = session.IsFarmer()
		case models.RoleCustomer:
			allowed = session.IsCustomer()
		}
		if !allowed {
			c.AbortWithStatusJSON(apperrors.ErrForbidden.Code, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}
