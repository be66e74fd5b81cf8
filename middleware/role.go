package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/HarshitSharma-h8/messmate/utils"
)

// RequireRole allows only principals with one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			utils.RespondError(c, utils.ErrUnauthorized("Access denied. No token provided."))
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			utils.RespondError(c, utils.ErrForbidden("Access denied. Insufficient permissions."))
			c.Abort()
			return
		}
		c.Next()
	}
}
